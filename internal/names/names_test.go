package names

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Alex Ovechkin", "alex ovechkin"},
		{"  J.T.   Miller ", "j t miller"},
		{"Nečas", "necas"},
		{"André Burakovsky", "andre burakovsky"},
		{"Ryan O'Reilly", "ryan o reilly"},
		{"Pierre-Luc Dubois", "pierre luc dubois"},
		{"", ""},
		{"   ", ""},
		{"MARTIN Fehérváry", "martin fehervary"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Alex Ovechkin", "J.T. Miller", "Nečas", "Ryan O'Reilly",
		"Pierre-Luc Dubois", "  spaced   out  ", "é.è-ü'ç", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestVariants(t *testing.T) {
	got := Variants("Alex Ovechkin")
	want := []string{"alex ovechkin", "a ovechkin", "a. ovechkin", "aovechkin", "ovechkin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants = %v; want %v", got, want)
	}
}

func TestVariantsSingleToken(t *testing.T) {
	got := Variants("Ovechkin")
	want := []string{"ovechkin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants = %v; want %v", got, want)
	}
}

func TestVariantsEmpty(t *testing.T) {
	if got := Variants("   "); got != nil {
		t.Errorf("Variants(blank) = %v; want nil", got)
	}
}

func TestVariantsMiddleName(t *testing.T) {
	// First initial pairs with the final token.
	got := Variants("J.T. Miller")
	want := []string{"j t miller", "j miller", "j. miller", "jmiller", "miller"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants = %v; want %v", got, want)
	}
}
