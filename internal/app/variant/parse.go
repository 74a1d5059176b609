package variant

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numericPrefix matches the longest leading decimal literal, e.g. "12.5" in "12.5kg".
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber reads a number from free-form user input. Leading whitespace is
// skipped and trailing garbage after a numeric prefix is ignored; anything
// without a usable numeric prefix, or out of float64 range, yields 0.
func ParseNumber(raw string) float64 {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	literal := numericPrefix.FindString(s)
	if literal == "" {
		return 0
	}
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
