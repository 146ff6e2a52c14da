package types

// ColumnMissing marks a column that could not be resolved from the header.
const ColumnMissing = -1

// ColumnIndex holds the resolved positions of the columns the pipeline
// cares about. A position of ColumnMissing means the header had no match.
type ColumnIndex struct {
	Phenotype      int
	Distance       int
	Sample         int
	DistanceHeader string
}

// SubtypeEntry is one row of the ordered sample→subtype mapping table.
// Order matters: substring fallback picks the first entry that matches.
type SubtypeEntry struct {
	Sample  string
	Subtype string
}

// HeaderPatterns are the case-insensitive fragments used to locate columns
// in the header row.
type HeaderPatterns struct {
	// DistanceQualifiers qualify a header that already contains "distance".
	DistanceQualifiers []string
	Phenotype          []string
	Sample             []string
}

type Config struct {
	// MarkerTokens must all appear in a label for it to count as the
	// target phenotype in fallback mode.
	MarkerTokens []string
	// TargetLabels are the accepted literal phenotype labels for exact
	// matching.
	TargetLabels []string
	// Threshold is the distance band magnitude in microns.
	Threshold float64
	Mapping   []SubtypeEntry
	Patterns  HeaderPatterns
}

// SheetScan is the pass-1 summary for one input sheet.
type SheetScan struct {
	Name    string
	Rows    int
	Columns ColumnIndex
	// Skipped is set when the sheet has no phenotype column and will not
	// be streamed in pass 2.
	Skipped bool
}

// ScanReport is the outcome of pass 1 over the whole workbook.
type ScanReport struct {
	Sheets []SheetScan
	// Labels are the distinct phenotype labels seen that contain every
	// marker token, kept for display.
	Labels []string
	// ExactHits counts rows whose label matched a configured target
	// label exactly.
	ExactHits int
	// Fallback is true when no row matched a target label exactly, so
	// pass 2 matches by marker-token containment instead.
	Fallback  bool
	TotalRows int
}

type RunResult struct {
	InputFile     string
	OutputFile    string
	SheetsWritten int
	RowsWritten   int
	WithinRows    int
	OutsideRows   int
	SubtypeRows   int
	SkippedSheets []string
}
