// Package csvio reads and writes the flat-file formats exchanged between the
// pipeline steps.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Table is a raw CSV file loaded into memory: a header plus string rows.
// The validator works on this representation so schema problems surface as
// check failures rather than parse errors.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named column, or -1 if absent.
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadTable loads an entire CSV file.
func ReadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("%s: empty file", path)
	}
	return Table{Header: records[0], Rows: records[1:]}, nil
}

// writeAll creates the parent directory and writes header plus rows.
func writeAll(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
