package classify

import (
	"testing"

	"phenosift/internal/types"
)

func testPatterns() types.HeaderPatterns {
	return types.HeaderPatterns{
		DistanceQualifiers: []string{"micron", "edge", "process", "tissue"},
		Phenotype:          []string{"phenotype", "label", "marker"},
		Sample:             []string{"sample name", "sample", "name"},
	}
}

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name          string
		header        []string
		wantPhenotype int
		wantDistance  int
		wantSample    int
	}{
		{
			name:          "Standard header",
			header:        []string{"Phenotype", "Distance (microns)", "Sample Name"},
			wantPhenotype: 0,
			wantDistance:  1,
			wantSample:    2,
		},
		{
			name:          "Case insensitive",
			header:        []string{"PHENOTYPE", "DISTANCE FROM TISSUE EDGE", "SAMPLE NAME"},
			wantPhenotype: 0,
			wantDistance:  1,
			wantSample:    2,
		},
		{
			name:          "Qualified distance wins over plain",
			header:        []string{"Phenotype", "Distance", "Distance from process (microns)", "Sample Name"},
			wantPhenotype: 0,
			wantDistance:  2,
			wantSample:    3,
		},
		{
			name:          "Plain distance fallback",
			header:        []string{"Phenotype", "Distance", "Sample Name"},
			wantPhenotype: 0,
			wantDistance:  1,
			wantSample:    2,
		},
		{
			name:          "Phenotype fragment priority over label",
			header:        []string{"Cell Label", "Phenotype", "Sample Name"},
			wantPhenotype: 1,
			wantDistance:  types.ColumnMissing,
			wantSample:    2,
		},
		{
			name:          "Label as phenotype column",
			header:        []string{"Cell Label", "Distance (microns)", "Sample Name"},
			wantPhenotype: 0,
			wantDistance:  1,
			wantSample:    2,
		},
		{
			name:          "Missing everything",
			header:        []string{"A", "B", "C"},
			wantPhenotype: types.ColumnMissing,
			wantDistance:  types.ColumnMissing,
			wantSample:    types.ColumnMissing,
		},
		{
			name:          "Empty header",
			header:        nil,
			wantPhenotype: types.ColumnMissing,
			wantDistance:  types.ColumnMissing,
			wantSample:    types.ColumnMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColumns(tt.header, testPatterns())
			if got.Phenotype != tt.wantPhenotype {
				t.Errorf("Phenotype = %d; want %d", got.Phenotype, tt.wantPhenotype)
			}
			if got.Distance != tt.wantDistance {
				t.Errorf("Distance = %d; want %d", got.Distance, tt.wantDistance)
			}
			if got.Sample != tt.wantSample {
				t.Errorf("Sample = %d; want %d", got.Sample, tt.wantSample)
			}
		})
	}
}

func TestResolveColumnsDistanceHeader(t *testing.T) {
	got := ResolveColumns([]string{"Phenotype", " Distance (microns) "}, testPatterns())
	if got.DistanceHeader != "Distance (microns)" {
		t.Errorf("DistanceHeader = %q; want %q", got.DistanceHeader, "Distance (microns)")
	}
}

func TestCell(t *testing.T) {
	row := []string{" a ", "b"}

	tests := []struct {
		name     string
		idx      int
		expected string
	}{
		{"Trims value", 0, "a"},
		{"In range", 1, "b"},
		{"Short row", 5, ""},
		{"Missing column", types.ColumnMissing, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cell(row, tt.idx); got != tt.expected {
				t.Errorf("Cell(%d) = %q; want %q", tt.idx, got, tt.expected)
			}
		})
	}
}

func TestEmptyRow(t *testing.T) {
	if !EmptyRow([]string{"", "  ", ""}) {
		t.Error("EmptyRow should be true for all-blank cells")
	}
	if EmptyRow([]string{"", "x"}) {
		t.Error("EmptyRow should be false when any cell has content")
	}
}
