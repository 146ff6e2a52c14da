package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"phenosift/internal/classify"
	"phenosift/internal/sheets"
	"phenosift/internal/types"
	"phenosift/internal/xlsxio"
)

// DefaultConfig returns the stock configuration: CD4+FOXP3+ signature,
// ±100 micron band, and the standard BCC sample→subtype table.
func DefaultConfig() types.Config {
	return types.Config{
		MarkerTokens: []string{"cd4", "foxp3"},
		TargetLabels: []string{"CD4+FOXP3+", "CD4+ FOXP3+"},
		Threshold:    100,
		Mapping: []types.SubtypeEntry{
			{Sample: "8F_morph", Subtype: "morpheaform"},
			{Sample: "10A_meta", Subtype: "meta"},
			{Sample: "2D_inf", Subtype: "infiltrative"},
			{Sample: "5F_micro", Subtype: "micronodular"},
			{Sample: "8D_mix", Subtype: "mixed (NI)"},
			{Sample: "9A_nod", Subtype: "nodular"},
			{Sample: "4B_super", Subtype: "superficial"},
		},
		Patterns: types.HeaderPatterns{
			DistanceQualifiers: []string{"micron", "edge", "process", "tissue"},
			Phenotype:          []string{"phenotype", "label", "marker"},
			Sample:             []string{"sample name", "sample", "name"},
		},
	}
}

// Scan is pass 1: a full streaming read of the workbook that resolves
// columns per sheet, counts data rows, collects candidate phenotype labels
// and decides whether pass 2 runs in exact or fallback matching mode.
func Scan(inputFile string, cfg types.Config) (*types.ScanReport, error) {
	src, err := xlsxio.Open(inputFile)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	matcher := classify.NewMatcher(cfg.MarkerTokens, cfg.TargetLabels, false)
	seen := make(map[string]string)
	report := &types.ScanReport{}

	for _, name := range src.Sheets() {
		it, err := src.Rows(name)
		if err != nil {
			return nil, err
		}

		scan := types.SheetScan{Name: name}
		if !it.Next() {
			// Empty sheet, nothing to resolve.
			scan.Skipped = true
			scan.Columns = classify.ResolveColumns(nil, cfg.Patterns)
		} else {
			header, err := it.Row()
			if err != nil {
				it.Close()
				return nil, fmt.Errorf("failed to read header of sheet %q: %w", name, err)
			}
			scan.Columns = classify.ResolveColumns(header, cfg.Patterns)
			if scan.Columns.Phenotype == types.ColumnMissing {
				scan.Skipped = true
			} else {
				for it.Next() {
					row, err := it.Row()
					if err != nil || classify.EmptyRow(row) {
						continue
					}
					scan.Rows++
					label := classify.Cell(row, scan.Columns.Phenotype)
					if label == "" {
						continue
					}
					if matcher.MatchesLiteral(label) {
						report.ExactHits++
					}
					if matcher.ContainsAllTokens(label) {
						seen[strings.ToLower(label)] = label
					}
				}
				report.TotalRows += scan.Rows
			}
		}
		if err := it.Close(); err != nil {
			return nil, err
		}
		report.Sheets = append(report.Sheets, scan)
	}

	for _, label := range seen {
		report.Labels = append(report.Labels, label)
	}
	sort.Strings(report.Labels)
	report.Fallback = report.ExactHits == 0
	return report, nil
}

// Run is pass 2: a second streaming read that classifies every row and
// fans it out to at most one distance-bucket sheet and at most one subtype
// sheet, then saves the output workbook once.
//
// report may be nil, in which case Run scans first. include restricts
// processing to the named input sheets; nil means all. progress receives
// best-effort completion fractions and is never blocked on.
func Run(inputFile, outputFile string, cfg types.Config, report *types.ScanReport, include map[string]bool, progress chan<- float64) (*types.RunResult, error) {
	if report == nil {
		var err error
		report, err = Scan(inputFile, cfg)
		if err != nil {
			return nil, err
		}
	}

	src, err := xlsxio.Open(inputFile)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	reg := sheets.NewRegistry(xlsxio.NewWorkbook())
	matcher := classify.NewMatcher(cfg.MarkerTokens, cfg.TargetLabels, report.Fallback)
	table := classify.NewSubtypeTable(cfg.Mapping)

	tag := markerTag(cfg.MarkerTokens)
	band := strconv.FormatFloat(cfg.Threshold, 'f', -1, 64)

	result := &types.RunResult{InputFile: inputFile, OutputFile: outputFile}
	processed := 0

	for _, scan := range report.Sheets {
		if scan.Skipped {
			result.SkippedSheets = append(result.SkippedSheets, scan.Name)
			continue
		}
		if include != nil && !include[scan.Name] {
			continue
		}

		it, err := src.Rows(scan.Name)
		if err != nil {
			return nil, err
		}
		if !it.Next() {
			it.Close()
			continue
		}
		header, err := it.Row()
		if err != nil {
			it.Close()
			return nil, fmt.Errorf("failed to read header of sheet %q: %w", scan.Name, err)
		}

		withinKey := fmt.Sprintf("%s_%s_within%s", scan.Name, tag, band)
		outsideKey := fmt.Sprintf("%s_%s_outside%s", scan.Name, tag, band)
		cols := scan.Columns

		for it.Next() {
			row, err := it.Row()
			if err != nil || classify.EmptyRow(row) {
				continue
			}

			processed++
			reportProgress(progress, processed, report.TotalRows)

			if !matcher.Match(classify.Cell(row, cols.Phenotype)) {
				continue
			}

			routed := false
			switch classify.ClassifyDistance(classify.Cell(row, cols.Distance), cfg.Threshold) {
			case classify.Within:
				if err := reg.Append(withinKey, header, row); err != nil {
					it.Close()
					return nil, err
				}
				result.WithinRows++
				routed = true
			case classify.Outside:
				if err := reg.Append(outsideKey, header, row); err != nil {
					it.Close()
					return nil, err
				}
				result.OutsideRows++
				routed = true
			}

			if subtype, ok := table.Resolve(classify.Cell(row, cols.Sample)); ok {
				key := fmt.Sprintf("%s_%s", scan.Name, subtype)
				if err := reg.Append(key, header, row); err != nil {
					it.Close()
					return nil, err
				}
				result.SubtypeRows++
				routed = true
			}
			if routed {
				result.RowsWritten++
			}
		}
		if err := it.Close(); err != nil {
			return nil, err
		}
	}

	reportProgress(progress, 1, 1)
	result.SheetsWritten = reg.Len()
	if err := reg.Finalize(outputFile); err != nil {
		return nil, err
	}
	return result, nil
}

// markerTag turns marker tokens into the tag used in distance sheet names,
// e.g. "CD4_FOXP3".
func markerTag(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "TARGET"
	}
	return strings.Join(parts, "_")
}

func reportProgress(progress chan<- float64, done, total int) {
	if progress == nil || total <= 0 {
		return
	}
	select {
	case progress <- float64(done) / float64(total):
	default:
	}
}
