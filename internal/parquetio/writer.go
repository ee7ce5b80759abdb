package parquetio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const batchSize = 4096

// Writer streams rows of T into a zstd-compressed Parquet file.
type Writer[T any] struct {
	file   *os.File
	writer *parquet.GenericWriter[T]
	count  int
}

// Create opens path for writing, creating parent directories as needed.
func Create[T any](path string) (*Writer[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}
	writer := parquet.NewGenericWriter[T](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("recstats", "1.0", ""),
	)
	return &Writer[T]{file: file, writer: writer}, nil
}

// Write writes a batch of rows.
func (w *Writer[T]) Write(rows []T) (int, error) {
	n, err := w.writer.Write(rows)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the final row group and closes the file.
func (w *Writer[T]) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the total number of rows written.
func (w *Writer[T]) Count() int {
	return w.count
}

func writeAll[T any](path string, rows []T) error {
	w, err := Create[T](path)
	if err != nil {
		return err
	}
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if _, err := w.Write(rows[start:end]); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
