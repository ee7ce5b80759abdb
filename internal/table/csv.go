package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// CSVOptions controls how a delimited source is decoded.
type CSVOptions struct {
	Delimiter rune   // defaults to ','
	Encoding  string // WHATWG encoding label, defaults to "utf-8"

	// Missing lists field values read as missing cells, in addition to the
	// empty field. Cleaned output marks missing cells with a placeholder.
	Missing []string
}

// DefaultCSVOptions returns comma-delimited UTF-8.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', Encoding: "utf-8"}
}

// CheckEncoding reports whether label names a supported encoding.
func CheckEncoding(label string) error {
	if _, err := htmlindex.Get(label); err != nil {
		return fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return nil
}

func (o CSVOptions) reader(r io.Reader) (io.Reader, error) {
	label := strings.ToLower(strings.TrimSpace(o.Encoding))
	if label == "" || label == "utf-8" || label == "utf8" {
		return r, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", o.Encoding, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ReadCSV reads a header row followed by data rows. Empty fields and fields
// equal to one of opts.Missing become missing cells. Every row must have as
// many fields as the header.
func ReadCSV(r io.Reader, name string, opts CSVOptions) (*Table, error) {
	decoded, err := opts.reader(r)
	if err != nil {
		return nil, err
	}

	bufReader := bufio.NewReaderSize(decoded, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	cr := csv.NewReader(bufReader)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: no header row", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	missing := make(map[string]struct{}, len(opts.Missing))
	for _, m := range opts.Missing {
		if m != "" {
			missing[m] = struct{}{}
		}
	}

	t := New(name, header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		row := make(Row, len(rec))
		for i, field := range rec {
			if field == "" {
				continue
			}
			if _, ok := missing[field]; ok {
				continue
			}
			f := field
			row[i] = &f
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path, name string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, name, opts)
}

// WriteCSV writes a header row and every data row; missing cells are empty
// fields. No index column is written.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range rec {
			rec[i] = Deref(row[i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s row: %w", t.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes t to path, creating parent directories as needed.
func WriteCSVFile(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
