package xlsxio

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"phenosift/internal/sheets"
)

// Workbook is a streaming write target. Each created sheet gets its own
// stream writer, so appends go straight to disk-backed buffers instead of
// an in-memory worksheet. Workbook implements sheets.Sink.
type Workbook struct {
	f       *excelize.File
	writers []*sheetWriter
	names   map[string]bool
}

func NewWorkbook() *Workbook {
	return &Workbook{
		f:     excelize.NewFile(),
		names: make(map[string]bool),
	}
}

func (w *Workbook) CreateSheet(name string) (sheets.Writer, error) {
	if _, err := w.f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	sw, err := w.f.NewStreamWriter(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream writer for %q: %w", name, err)
	}
	writer := &sheetWriter{sw: sw, row: 1}
	w.writers = append(w.writers, writer)
	w.names[name] = true
	return writer, nil
}

// Save flushes every sheet and writes the workbook to path in one shot.
func (w *Workbook) Save(path string) error {
	for _, writer := range w.writers {
		if err := writer.sw.Flush(); err != nil {
			return fmt.Errorf("failed to flush sheet: %w", err)
		}
	}
	// Drop the default sheet excelize creates, unless it is one of ours
	// or the only sheet in the file.
	if len(w.writers) > 0 && !w.names["Sheet1"] {
		if err := w.f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return w.f.Close()
}

type sheetWriter struct {
	sw  *excelize.StreamWriter
	row int
}

func (s *sheetWriter) AppendRow(values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := s.sw.SetRow(cell, cells); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	s.row++
	return nil
}
