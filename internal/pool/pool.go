// Package pool runs a batch of independent jobs with bounded parallelism.
// One failing job never aborts its siblings; callers get every job's error.
package pool

import (
	"context"
	"fmt"
	"sync"
)

// Job is one unit of independent work.
type Job func(ctx context.Context) error

// Run executes jobs using at most size workers and returns a slice of errors
// indexed like jobs. A panicking job is recovered and reported as its error.
// When ctx is canceled, jobs not yet started are marked with ctx.Err().
func Run(ctx context.Context, size int, jobs []Job) []error {
	if size < 1 {
		size = 1
	}
	errs := make([]error, len(jobs))
	work := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < size; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				errs[i] = runOne(ctx, jobs[i], i)
			}
		}()
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
		case work <- i:
		}
	}
	close(work)
	wg.Wait()
	return errs
}

func runOne(ctx context.Context, job Job, i int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %d panicked: %v", i, r)
		}
	}()
	return job(ctx)
}
