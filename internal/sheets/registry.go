package sheets

import (
	"fmt"
	"strings"
)

// MaxNameLen is the longest sheet name Excel accepts.
const MaxNameLen = 31

// Writer appends rows to one output sheet.
type Writer interface {
	AppendRow(values []string) error
}

// Sink creates output sheets and saves the finished workbook.
type Sink interface {
	CreateSheet(name string) (Writer, error)
	Save(path string) error
}

// Registry owns every output sheet for one run. Sheets are created lazily
// on the first row routed to a logical key, named by truncating the key to
// MaxNameLen with a numeric suffix on collision, and never closed or
// reopened until Finalize.
type Registry struct {
	sink      Sink
	byKey     map[string]Writer
	used      map[string]bool
	finalized bool
}

func NewRegistry(sink Sink) *Registry {
	return &Registry{
		sink:  sink,
		byKey: make(map[string]Writer),
		used:  make(map[string]bool),
	}
}

// Append routes one row to the sheet for key, creating it first if needed.
// On creation the header row is written before the data row, so every
// output sheet mirrors its source sheet's columns.
func (r *Registry) Append(key string, header, row []string) error {
	if r.finalized {
		return fmt.Errorf("registry already finalized")
	}
	w, ok := r.byKey[key]
	if !ok {
		name, err := r.uniqueName(key)
		if err != nil {
			return err
		}
		w, err = r.sink.CreateSheet(name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if len(header) > 0 {
			if err := w.AppendRow(header); err != nil {
				return err
			}
		}
		r.byKey[key] = w
	}
	return w.AppendRow(row)
}

// Len returns the number of sheets created so far.
func (r *Registry) Len() int { return len(r.byKey) }

// Finalize saves all sheets. It must be called exactly once, after the
// input stream is exhausted.
func (r *Registry) Finalize(path string) error {
	if r.finalized {
		return fmt.Errorf("registry already finalized")
	}
	r.finalized = true
	return r.sink.Save(path)
}

func (r *Registry) uniqueName(key string) (string, error) {
	base := truncate(sanitizeName(key), MaxNameLen)
	if !r.used[base] {
		r.used[base] = true
		return base, nil
	}
	for i := 2; i < 1000; i++ {
		suffix := fmt.Sprintf("_%d", i)
		name := truncate(base, MaxNameLen-len(suffix)) + suffix
		if !r.used[name] {
			r.used[name] = true
			return name, nil
		}
	}
	return "", fmt.Errorf("unable to create unique sheet name for %q", key)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// sanitizeName replaces the characters Excel forbids in sheet names.
func sanitizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "sheet"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, s)
}
