// Writer implementations for completed run records
package bench

import (
	"encoding/json"
	"fmt"
	"os"
)

// RunWriter receives each run record as it completes.
type RunWriter interface {
	WriteRun(Run) error
}

// StdoutWriter prints run records to STDOUT as JSON lines.
type StdoutWriter struct{}

// WriteRun outputs a single run record.
func (w *StdoutWriter) WriteRun(r Run) error {
	data, _ := json.Marshal(r)
	fmt.Println(string(data))
	return nil
}

// FileWriter appends run records to a JSONL file.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates the runs log, truncating any previous one.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// WriteRun logs a single run record.
func (w *FileWriter) WriteRun(r Run) error {
	return w.enc.Encode(r)
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	return w.file.Close()
}

// MultiWriter fans run records out to multiple writers.
type MultiWriter struct {
	writers []RunWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...RunWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// WriteRun sends a run record to all writers.
func (w *MultiWriter) WriteRun(r Run) error {
	for _, inner := range w.writers {
		if err := inner.WriteRun(r); err != nil {
			return err
		}
	}
	return nil
}
