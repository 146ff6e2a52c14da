package classify

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"phenosift/internal/types"
)

// SubtypeTable resolves a sample identifier to its subtype label.
//
// Lookup is exact first, then falls back to the first table entry whose
// sample key is a substring of the identifier. Fallback order is the
// table's declared order, so callers with overlapping keys must order
// entries deliberately.
type SubtypeTable struct {
	entries []types.SubtypeEntry
}

func NewSubtypeTable(entries []types.SubtypeEntry) *SubtypeTable {
	return &SubtypeTable{entries: entries}
}

// Resolve returns the subtype for sample, or ok=false when no entry
// matches. An unmatched sample is not an error; the row simply skips
// subtype routing.
func (t *SubtypeTable) Resolve(sample string) (string, bool) {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return "", false
	}
	for _, e := range t.entries {
		if e.Sample == sample {
			return e.Subtype, true
		}
	}
	for _, e := range t.entries {
		if e.Sample != "" && strings.Contains(sample, e.Sample) {
			return e.Subtype, true
		}
	}
	return "", false
}

// LoadMappingCSV reads an ordered sample,subtype table from a two-column
// CSV file. A leading "sample,subtype" header row is skipped.
func LoadMappingCSV(path string) ([]types.SubtypeEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping file: %w", err)
	}

	var entries []types.SubtypeEntry
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		sample := strings.TrimSpace(rec[0])
		subtype := strings.TrimSpace(rec[1])
		if i == 0 && strings.EqualFold(sample, "sample") && strings.EqualFold(subtype, "subtype") {
			continue
		}
		if sample == "" || subtype == "" {
			continue
		}
		entries = append(entries, types.SubtypeEntry{Sample: sample, Subtype: subtype})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("mapping file %s has no sample,subtype rows", path)
	}
	return entries, nil
}
