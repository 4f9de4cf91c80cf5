package rating

import (
	"sort"
	"strings"

	"github.com/kamilbartko1/extraliga-sub000/internal/names"
)

// Resolve finds the rating for a free-form player name. The stats and
// boxscore sources spell names inconsistently (initials, punctuation), so the
// lookup tries a fixed set of normalized variants against every normalized
// table key. Keys are walked in sorted order so the result is deterministic
// across runs; the first match wins. Returns Baseline when the name is blank
// or nothing matches.
func Resolve(name string, players map[string]int) int {
	if strings.TrimSpace(name) == "" {
		return Baseline
	}
	variants := names.Variants(name)
	if len(variants) == 0 {
		return Baseline
	}
	keys := make([]string, 0, len(players))
	for k := range players {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		nk := names.Normalize(k)
		for _, v := range variants {
			if nk == v {
				return players[k]
			}
		}
	}
	return Baseline
}
