// Package fileutil writes flattened remittance rows to CSV files that
// may be shared between processes; a sibling .lock file guards each
// target.
package fileutil

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"
)

// CSVAppender appends header-aligned rows to a CSV file. The header is
// written once, on the first append into an empty file; later appends
// align their cells to it and pad columns the row does not carry.
type CSVAppender struct {
	file          *os.File
	bufWriter     *bufio.Writer
	csvWriter     *csv.Writer
	fileLock      *flock.Flock
	header        []string
	headerWritten bool
	mu            sync.Mutex
}

// NewCSVAppender opens filePath for appending, creating it when
// missing. With appendMode false any existing content is truncated.
func NewCSVAppender(filePath string, appendMode bool) (*CSVAppender, error) {
	flags := os.O_RDWR | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat CSV file: %w", err)
	}
	bufWriter := bufio.NewWriter(f)
	return &CSVAppender{
		file:          f,
		bufWriter:     bufWriter,
		csvWriter:     csv.NewWriter(bufWriter),
		fileLock:      flock.New(filePath + ".lock"),
		headerWritten: appendMode && info.Size() > 0,
	}, nil
}

// AppendRows writes rows keyed by column name, in the given column
// order. The first call fixes the header; later calls reuse it and
// ignore their own column ordering.
func (ca *CSVAppender) AppendRows(columns []string, rows []map[string]string) error {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}
	if err := ca.fileLock.Lock(); err != nil {
		return err
	}
	defer func() {
		_ = ca.fileLock.Unlock()
	}()

	if ca.header == nil {
		ca.header = columns
	}
	if !ca.headerWritten {
		if err := ca.csvWriter.Write(ca.header); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		ca.headerWritten = true
	}

	record := make([]string, len(ca.header))
	for _, row := range rows {
		for i, column := range ca.header {
			record[i] = row[column]
		}
		if err := ca.csvWriter.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	ca.csvWriter.Flush()
	if err := ca.csvWriter.Error(); err != nil {
		return fmt.Errorf("csv writer flush error: %w", err)
	}
	return ca.bufWriter.Flush()
}

// Close flushes buffered rows and closes the file.
func (ca *CSVAppender) Close() error {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	ca.csvWriter.Flush()
	if err := ca.csvWriter.Error(); err != nil {
		return err
	}
	if err := ca.bufWriter.Flush(); err != nil {
		return err
	}
	return ca.file.Close()
}
