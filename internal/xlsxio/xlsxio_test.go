package xlsxio

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWorkbookRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.xlsx")

	wb := NewWorkbook()

	one, err := wb.CreateSheet("One")
	if err != nil {
		t.Fatal(err)
	}
	two, err := wb.CreateSheet("Two")
	if err != nil {
		t.Fatal(err)
	}

	// Interleaved appends across open sheets, as the fanout produces them
	if err := one.AppendRow([]string{"Phenotype", "Distance"}); err != nil {
		t.Fatal(err)
	}
	if err := two.AppendRow([]string{"Phenotype", "Distance"}); err != nil {
		t.Fatal(err)
	}
	if err := one.AppendRow([]string{"CD4+FOXP3+", "50"}); err != nil {
		t.Fatal(err)
	}
	if err := two.AppendRow([]string{"CD4+FOXP3+", "-150"}); err != nil {
		t.Fatal(err)
	}
	if err := one.AppendRow([]string{"CD4+FOXP3+", "80"}); err != nil {
		t.Fatal(err)
	}

	if err := wb.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets (default removed), got %v", sheets)
	}

	rows, err := f.GetRows("One")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("sheet One: expected 3 rows, got %d", len(rows))
	}
	if rows[1][1] != "50" || rows[2][1] != "80" {
		t.Errorf("sheet One rows out of order: %v", rows)
	}

	rows, err = f.GetRows("Two")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("sheet Two: expected 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "-150" {
		t.Errorf("sheet Two data row = %v", rows[1])
	}
}

func TestSourceStreamsRows(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "in.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Data"); err != nil {
		t.Fatal(err)
	}
	rows := [][]interface{}{
		{"Phenotype", "Distance"},
		{"CD4+FOXP3+", 50},
		{"CD8+", 10},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Data", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	sheets := src.Sheets()
	if len(sheets) != 1 || sheets[0] != "Data" {
		t.Fatalf("Sheets() = %v; want [Data]", sheets)
	}

	it, err := src.Rows("Data")
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	var got [][]string
	for it.Next() {
		row, err := it.Row()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, row)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0][0] != "Phenotype" || got[1][1] != "50" || got[2][0] != "CD8+" {
		t.Errorf("unexpected rows: %v", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Error("expected error opening a missing workbook")
	}
}
