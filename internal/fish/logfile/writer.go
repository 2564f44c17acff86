package logfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/fishctl/internal/fish"
)

// Writer produces a structured FISH binary log: magic header first, then
// tagged records in the wire format. Boolean records are allowed here even
// though the socket never carries them.
type Writer struct {
	w      io.Writer
	closer io.Closer
}

// Create starts a new log at path, truncating any existing file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("logfile: create %s: %w", path, err)
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewWriter writes the magic header to w and returns a record writer.
func NewWriter(w io.Writer) (*Writer, error) {
	var head [headerLen]byte
	binary.LittleEndian.PutUint32(head[:], uint32(fish.Fishcode))
	if _, err := w.Write(head[:]); err != nil {
		return nil, fmt.Errorf("logfile: write header: %w", err)
	}
	return &Writer{w: w}, nil
}

// Write appends one record.
func (w *Writer) Write(v fish.Value) error {
	buf, err := fish.Encode(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("logfile: write record: %w", err)
	}
	return nil
}

// Close releases the underlying file when the writer owns one.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
