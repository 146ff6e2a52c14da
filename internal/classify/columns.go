package classify

import (
	"strings"

	"phenosift/internal/types"
)

// ResolveColumns inspects a header row and locates the phenotype, distance
// and sample columns by case-insensitive fragment matching. Columns that
// cannot be found are recorded as types.ColumnMissing rather than treated
// as an error; downstream classifiers handle absence as "no information".
func ResolveColumns(header []string, pats types.HeaderPatterns) types.ColumnIndex {
	idx := types.ColumnIndex{
		Phenotype: types.ColumnMissing,
		Distance:  types.ColumnMissing,
		Sample:    types.ColumnMissing,
	}

	idx.Phenotype = findHeader(header, pats.Phenotype)
	idx.Sample = findHeader(header, pats.Sample)

	// Preferred distance detection: "distance" plus a qualifier such as
	// "micron" or "tissue". Plain "distance" is the fallback.
	for i, name := range header {
		if isQualifiedDistanceHeader(name, pats.DistanceQualifiers) {
			idx.Distance = i
			idx.DistanceHeader = strings.TrimSpace(name)
			break
		}
	}
	if idx.Distance == types.ColumnMissing {
		for i, name := range header {
			if strings.Contains(strings.ToLower(name), "distance") {
				idx.Distance = i
				idx.DistanceHeader = strings.TrimSpace(name)
				break
			}
		}
	}

	return idx
}

// findHeader returns the index of the first header cell containing any of
// the fragments. Fragments are tried in order, so earlier fragments take
// priority over leftmost position.
func findHeader(header []string, fragments []string) int {
	for _, frag := range fragments {
		frag = strings.ToLower(frag)
		for i, name := range header {
			if strings.Contains(strings.ToLower(name), frag) {
				return i
			}
		}
	}
	return types.ColumnMissing
}

func isQualifiedDistanceHeader(name string, qualifiers []string) bool {
	cl := strings.ToLower(name)
	if !strings.Contains(cl, "distance") {
		return false
	}
	for _, q := range qualifiers {
		if strings.Contains(cl, strings.ToLower(q)) {
			return true
		}
	}
	return false
}

// Cell returns the trimmed value at idx, or "" when the row is too short
// or the column is missing.
func Cell(row []string, idx int) string {
	if idx == types.ColumnMissing || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// EmptyRow reports whether every cell in the row is blank.
func EmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
