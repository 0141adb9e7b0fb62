package normalize

import (
	"strconv"
	"strings"
	"unicode"
)

// openEndedCeiling caps "more than N years" ranges.
const openEndedCeiling = 10

// ExperienceYears parses free-text experience requirements into an
// ordered [min, max] pair of years.
//
// Recognized phrases (after lower-casing):
//   - "нет опыта"          -> [0, 1]
//   - "более N ..."        -> [N, 10]
//   - "от N до M ..."      -> [N, M]
//
// Anything unparseable falls back to [0, 10]. Digits are extracted from
// the substring between keyword anchors, never from the whole string, so
// the two bounds cannot contaminate each other.
func ExperienceYears(exp string) []int {
	exp = strings.ToLower(strings.TrimSpace(exp))
	if exp == "" || strings.Contains(exp, "нет опыта") {
		return []int{0, 1}
	}

	if idx := strings.Index(exp, "более"); idx >= 0 {
		if n, ok := digitsIn(exp[idx:]); ok {
			return []int{n, openEndedCeiling}
		}
		return []int{0, openEndedCeiling}
	}

	from := strings.Index(exp, "от")
	if from >= 0 {
		rest := exp[from+len("от"):]
		if to := strings.Index(rest, "до"); to >= 0 {
			lo, okLo := digitsIn(rest[:to])
			hi, okHi := digitsIn(rest[to+len("до"):])
			if okLo && okHi {
				return []int{lo, hi}
			}
		}
	}

	return []int{0, openEndedCeiling}
}

// digitsIn concatenates every digit in s into a single number.
func digitsIn(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
