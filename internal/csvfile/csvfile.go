// Package csvfile persists one delimited-text collection: a header row
// naming the schema followed by data rows. Rows are addressed by column
// name so an existing file's column order is honoured on read; rewrites
// always use the table's schema order.
package csvfile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Row is one data row keyed by column name.
type Row map[string]string

// Get returns the value of col, or "" when the column is absent.
func (r Row) Get(col string) string {
	return r[col]
}

// Table is a CSV file with a fixed schema.
type Table struct {
	Path   string
	Schema []string
}

// New returns a Table for path with the given header columns.
func New(path string, schema []string) *Table {
	return &Table{Path: path, Schema: schema}
}

// Exists reports whether the backing file is present.
func (t *Table) Exists() (bool, error) {
	_, err := os.Stat(t.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, types.NewStorageError("stat", t.Path, err)
}

// Ensure creates the file with the header and seed rows when it does not
// exist. An existing file is left untouched.
func (t *Table) Ensure(seed []Row) error {
	ok, err := t.Exists()
	if err != nil || ok {
		return err
	}
	if dir := filepath.Dir(t.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return types.NewStorageError("create directory", dir, err)
		}
	}
	f, err := os.OpenFile(t.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return types.NewStorageError("create", t.Path, err)
	}
	if err := t.encode(f, seed, true); err != nil {
		f.Close()
		return types.NewStorageError("write", t.Path, err)
	}
	if err := f.Close(); err != nil {
		return types.NewStorageError("close", t.Path, err)
	}
	return nil
}

// ReadAll parses the whole file. Every schema column is present in every
// returned row; values missing from the file are "". Values are returned
// as stored, without trimming.
func (t *Table) ReadAll() ([]Row, error) {
	f, err := os.Open(t.Path)
	if err != nil {
		return nil, types.NewStorageError("open", t.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewStorageError("parse", t.Path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, types.NewStorageError("parse", t.Path, err)
		}
		row := make(Row, len(t.Schema))
		for _, col := range t.Schema {
			if i, ok := index[col]; ok && i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds one row at the end of the file without reading it. A missing
// or empty file gets the header first.
func (t *Table) Append(row Row) error {
	f, err := os.OpenFile(t.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return types.NewStorageError("open", t.Path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return types.NewStorageError("stat", t.Path, err)
	}
	if err := t.encode(f, []Row{row}, info.Size() == 0); err != nil {
		f.Close()
		return types.NewStorageError("append", t.Path, err)
	}
	if err := f.Close(); err != nil {
		return types.NewStorageError("close", t.Path, err)
	}
	return nil
}

// WriteAll replaces the file with the header and rows using the temp-file,
// fsync, rename pattern. The original file mode is kept.
func (t *Table) WriteAll(rows []Row) error {
	if err := t.writeAll(rows); err != nil {
		return types.NewStorageError("rewrite", t.Path, err)
	}
	return nil
}

func (t *Table) writeAll(rows []Row) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(t.Path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(t.Path)
	tmp, err := os.CreateTemp(dir, ".csv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := t.encode(tmp, rows, true); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, t.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// encode writes rows in schema order, CRLF terminated.
func (t *Table) encode(w io.Writer, rows []Row, header bool) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.UseCRLF = true

	if header {
		if err := cw.Write(t.Schema); err != nil {
			return err
		}
	}
	rec := make([]string, len(t.Schema))
	for _, row := range rows {
		for i, col := range t.Schema {
			rec[i] = row[col]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
