package xlsxio

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Source streams rows out of an input workbook. Iteration is forward-only;
// whole sheets are never loaded into memory.
type Source struct {
	f *excelize.File
}

func Open(path string) (*Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Source{f: f}, nil
}

func (s *Source) Sheets() []string {
	return s.f.GetSheetList()
}

// Rows returns a forward-only iterator over one sheet. The caller must
// Close it before opening the next.
func (s *Source) Rows(sheet string) (*RowIter, error) {
	rows, err := s.f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %q: %w", sheet, err)
	}
	return &RowIter{rows: rows}, nil
}

func (s *Source) Close() error {
	return s.f.Close()
}

type RowIter struct {
	rows *excelize.Rows
}

func (it *RowIter) Next() bool {
	return it.rows.Next()
}

// Row returns the current row's cells as formatted strings. Trailing empty
// cells may be absent, so callers index defensively.
func (it *RowIter) Row() ([]string, error) {
	return it.rows.Columns()
}

func (it *RowIter) Close() error {
	return it.rows.Close()
}
