package pom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Version is a parsed version string split into comparable tokens.
// Trailing null tokens (0, final, ga, release) are dropped, so 1.0.0 and
// 1.0 compare equal.
type Version struct {
	Raw    string
	Tokens []VersionToken
}

type VersionToken struct {
	Value     string
	IsNumeric bool
	Separator string
}

func (v *Version) String() string {
	return v.Raw
}

// Less reports whether v orders before other.
func (v *Version) Less(other *Version) bool {
	return CompareVersions(v, other) < 0
}

func (v *Version) IsSnapshot() bool {
	return strings.HasSuffix(strings.ToUpper(v.Raw), "-SNAPSHOT")
}

func ParseVersion(s string) *Version {
	s = strings.TrimSpace(s)
	return &Version{
		Raw:    s,
		Tokens: trimNullTokens(tokenizeVersion(s)),
	}
}

func tokenizeVersion(s string) []VersionToken {
	var tokens []VersionToken
	var current strings.Builder
	numeric := false
	separator := ""

	flush := func(next string) {
		if current.Len() > 0 {
			tokens = append(tokens, VersionToken{
				Value:     current.String(),
				IsNumeric: numeric,
				Separator: separator,
			})
			current.Reset()
			separator = next
		}
	}

	for i, c := range s {
		switch {
		case c == '.' || c == '-' || c == '_':
			flush(string(c))
			separator = string(c)
		case unicode.IsDigit(c):
			if current.Len() > 0 && !numeric {
				flush("")
			}
			current.WriteRune(c)
			numeric = true
		case unicode.IsLetter(c):
			if current.Len() > 0 && numeric {
				flush("")
			}
			current.WriteRune(c)
			numeric = false
		default:
			if i == 0 {
				numeric = false
			}
			current.WriteRune(c)
		}
	}
	flush("")
	return tokens
}

func trimNullTokens(tokens []VersionToken) []VersionToken {
	for len(tokens) > 0 && isNullToken(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func isNullToken(t VersionToken) bool {
	if t.IsNumeric {
		return t.Value == "0"
	}
	switch strings.ToLower(t.Value) {
	case "", "final", "ga", "release":
		return true
	}
	return false
}

// CompareVersions orders versions the way Maven does: numeric tokens
// numerically, qualifiers as alpha < beta < milestone < rc < snapshot <
// release < sp, unknown qualifiers alongside release.
func CompareVersions(a, b *Version) int {
	n := max(len(a.Tokens), len(b.Tokens))
	for i := 0; i < n; i++ {
		aOK, bOK := i < len(a.Tokens), i < len(b.Tokens)
		var cmp int
		switch {
		case aOK && bOK:
			cmp = compareTokens(a.Tokens[i], b.Tokens[i])
		case aOK:
			cmp = compareToNull(a.Tokens[i])
		default:
			cmp = -compareToNull(b.Tokens[i])
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}

// compareToNull compares a token against the padding of a shorter
// version: numbers against 0, qualifiers against a plain release.
func compareToNull(tok VersionToken) int {
	if tok.IsNumeric {
		n, _ := strconv.ParseInt(tok.Value, 10, 64)
		return compareInt(n, 0)
	}
	return compareInt(qualifierOrder(strings.ToLower(tok.Value)), qualifierOrder(""))
}

func compareTokens(a, b VersionToken) int {
	if a.IsNumeric && b.IsNumeric {
		an, _ := strconv.ParseInt(a.Value, 10, 64)
		bn, _ := strconv.ParseInt(b.Value, 10, 64)
		if c := compareInt(an, bn); c != 0 {
			return c
		}
		return compareInt(separatorOrder(a.Separator), separatorOrder(b.Separator))
	}
	if a.IsNumeric != b.IsNumeric {
		if a.IsNumeric {
			return 1
		}
		return -1
	}

	al, bl := strings.ToLower(a.Value), strings.ToLower(b.Value)
	if c := compareInt(qualifierOrder(al), qualifierOrder(bl)); c != 0 {
		return c
	}
	if c := strings.Compare(al, bl); c != 0 {
		return c
	}
	return compareInt(separatorOrder(a.Separator), separatorOrder(b.Separator))
}

func compareInt[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func qualifierOrder(q string) int {
	switch q {
	case "alpha", "a":
		return 1
	case "beta", "b":
		return 2
	case "milestone", "m":
		return 3
	case "rc", "cr":
		return 4
	case "snapshot":
		return 5
	case "sp":
		return 7
	default:
		return 6
	}
}

func separatorOrder(s string) int {
	switch s {
	case "-":
		return 1
	case ".":
		return 2
	}
	return 0
}

// VersionRange is one bracketed range such as [1.0,2.0). A nil bound is
// unbounded.
type VersionRange struct {
	Min          *Version
	Max          *Version
	MinInclusive bool
	MaxInclusive bool
}

func (r VersionRange) Contains(v *Version) bool {
	if r.Min != nil {
		cmp := CompareVersions(v, r.Min)
		if cmp < 0 || (cmp == 0 && !r.MinInclusive) {
			return false
		}
	}
	if r.Max != nil {
		cmp := CompareVersions(v, r.Max)
		if cmp > 0 || (cmp == 0 && !r.MaxInclusive) {
			return false
		}
	}
	return true
}

// VersionRequirement is a declared version: either a soft preference
// ("1.0") or a hard set of ranges ("[1.0,2.0),[3.0,)").
type VersionRequirement struct {
	Raw    string
	IsHard bool
	Ranges []VersionRange
	Soft   *Version
}

// Allows reports whether v satisfies the requirement. A soft requirement
// accepts any version.
func (r *VersionRequirement) Allows(v *Version) bool {
	if !r.IsHard {
		return true
	}
	for _, rng := range r.Ranges {
		if rng.Contains(v) {
			return true
		}
	}
	return false
}

func ParseVersionRequirement(s string) (*VersionRequirement, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty version requirement")
	}
	if !strings.ContainsAny(s, "[](,)") {
		return &VersionRequirement{Raw: s, Soft: ParseVersion(s)}, nil
	}

	var ranges []VersionRange
	for _, part := range splitRanges(s) {
		r, err := parseVersionRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return &VersionRequirement{Raw: s, IsHard: true, Ranges: ranges}, nil
}

func splitRanges(s string) []string {
	var parts []string
	var current strings.Builder
	depth := 0

	for _, c := range s {
		switch c {
		case '[', '(':
			if depth == 0 && current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			current.WriteRune(c)
			depth++
		case ']', ')':
			current.WriteRune(c)
			depth--
			if depth == 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		case ',':
			if depth > 0 {
				current.WriteRune(c)
			}
		default:
			current.WriteRune(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func parseVersionRange(s string) (VersionRange, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || !strings.ContainsAny(s[:1], "[(") || !strings.ContainsAny(s[len(s)-1:], "])") {
		return VersionRange{}, fmt.Errorf("invalid range: %s", s)
	}

	r := VersionRange{
		MinInclusive: s[0] == '[',
		MaxInclusive: s[len(s)-1] == ']',
	}
	lo, hi, isRange := strings.Cut(s[1:len(s)-1], ",")
	if !isRange {
		v := ParseVersion(lo)
		return VersionRange{Min: v, Max: v, MinInclusive: true, MaxInclusive: true}, nil
	}
	if lo = strings.TrimSpace(lo); lo != "" {
		r.Min = ParseVersion(lo)
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		r.Max = ParseVersion(hi)
	}
	return r, nil
}
