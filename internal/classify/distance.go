package classify

import (
	"math"
	"strconv"
	"strings"
)

// DistanceClass is the outcome of classifying a row's distance cell
// against the symmetric micron band.
type DistanceClass int

const (
	// Indeterminate covers missing columns and empty or non-numeric cells.
	Indeterminate DistanceClass = iota
	Within
	Outside
)

func (c DistanceClass) String() string {
	switch c {
	case Within:
		return "within"
	case Outside:
		return "outside"
	}
	return "indeterminate"
}

// ClassifyDistance parses cell as a distance in microns and classifies it
// against ±threshold. The band is symmetric, so only the magnitude counts.
// Anything unparsable is Indeterminate, never an error.
func ClassifyDistance(cell string, threshold float64) DistanceClass {
	v, ok := parseNumber(cell)
	if !ok {
		return Indeterminate
	}
	if math.Abs(v) <= threshold {
		return Within
	}
	return Outside
}

// parseNumber accepts values the way spreadsheet cells render them,
// including thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
