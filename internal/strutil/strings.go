package strutil

import (
	"strings"
	"unicode"
)

// RemoveExtraSpaces collapses whitespace runs into a single space and trims the string.
// For example RemoveExtraSpaces("hello  world  ") return "hello world"
func RemoveExtraSpaces(s string) string {
	idx := 0

	return strings.TrimFunc(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			idx++
			if idx > 1 {
				return -1
			}

			return ' '
		}

		idx = 0

		return r
	}, s), unicode.IsSpace)
}

// NormalizeDecimal turns a number with a comma decimal separator and space digit grouping,
// like "1 234,5", into the form accepted by strconv.ParseFloat
func NormalizeDecimal(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)

	return strings.Replace(s, ",", ".", -1)
}
