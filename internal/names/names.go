// Package names canonicalizes player names so the rating table and the
// season-stats endpoint agree on keys even when sources spell names
// differently (initials, punctuation, accents).
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining diacritical marks after NFD decomposition,
// so "Nečas" and "Necas" normalize to the same key.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, strips diacritics, turns periods/hyphens/apostrophes
// into spaces, collapses whitespace and trims. Idempotent.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '.', '-', '\'', '’', '`':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Variants returns the lookup forms tried against normalized rating-table
// keys, in match-priority order: the full normalized name, "f last",
// "f. last", "flast" and the bare last name. Single-token names yield just
// the normalized name.
func Variants(name string) []string {
	full := Normalize(name)
	if full == "" {
		return nil
	}
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return []string{full}
	}
	first := parts[0]
	last := parts[len(parts)-1]
	initial := first[:1]
	return []string{
		full,
		initial + " " + last,
		initial + ". " + last,
		initial + last,
		last,
	}
}
