// Package version compares PHP version strings the way version_compare does.
package version

import (
	"regexp"
	"strconv"
	"strings"
)

// specialForms is matched in order by prefix; anything unknown sorts before
// "dev". '#' stands for any number.
var specialForms = []struct {
	name string
	rank int
}{
	{"dev", 0},
	{"alpha", 1},
	{"a", 1},
	{"beta", 2},
	{"b", 2},
	{"RC", 3},
	{"rc", 3},
	{"#", 4},
	{"pl", 5},
	{"p", 5},
}

const unknownForm = -6

// Compare returns -1, 0 or 1 depending on whether a is older than, equal to
// or newer than b.
//
// Versions are canonicalized first: '-', '_' and '+' become '.', and a '.'
// is inserted wherever digits and letters meet, so "5.3.0RC1" reads as
// "5.3.0.RC.1". Numeric parts compare numerically; word parts compare by
// their rank dev < alpha = a < beta = b < RC = rc < # < pl = p, where '#'
// stands for any number. When one version has more parts, a trailing number
// makes it newer and a trailing word is ranked against '#', so 1.0 < 1.0.0
// and 1.0RC1 < 1.0.
func Compare(a, b string) int {
	if a == "" || b == "" {
		return cmpInt(boolInt(a != ""), boolInt(b != ""))
	}

	pa, pb := canonical(a), canonical(b)
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(pa) > n:
		if isNumeric(pa[n]) {
			return 1
		}
		return comparePart(pa[n], "#")
	case len(pb) > n:
		if isNumeric(pb[n]) {
			return -1
		}
		return comparePart("#", pb[n])
	}
	return 0
}

// AtLeast reports whether v >= minimum.
func AtLeast(v, minimum string) bool { return Compare(v, minimum) >= 0 }

// Equal reports whether v and other are the same version.
func Equal(v, other string) bool { return Compare(v, other) == 0 }

func canonical(v string) []string {
	var parts []string
	start, digits := -1, false
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '.' || c == '-' || c == '_' || c == '+' {
			if start >= 0 {
				parts = append(parts, v[start:i])
				start = -1
			}
			continue
		}
		d := isDigit(c)
		if start >= 0 && d != digits {
			parts = append(parts, v[start:i])
			start = -1
		}
		if start < 0 {
			start, digits = i, d
		}
	}
	if start >= 0 {
		parts = append(parts, v[start:])
	}
	return parts
}

func comparePart(a, b string) int {
	na, aNum := numeric(a)
	nb, bNum := numeric(b)
	switch {
	case aNum && bNum:
		return cmpInt(na, nb)
	case aNum:
		return cmpInt(formRank("#"), formRank(b))
	case bNum:
		return cmpInt(formRank(a), formRank("#"))
	default:
		return cmpInt(formRank(a), formRank(b))
	}
}

func formRank(s string) int {
	for _, f := range specialForms {
		if strings.HasPrefix(s, f.name) {
			return f.rank
		}
	}
	return unknownForm
}

func numeric(s string) (int64, bool) {
	if !isNumeric(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func cmpInt[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var leadingFloat = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)`)

// LeadingFloat parses the numeric prefix of s, e.g. 8.32 for
// "8.32 2012-09-04". It returns false when s does not start with a number.
func LeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
