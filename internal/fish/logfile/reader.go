// Package logfile reads and writes structured FISH binary logs: the
// fishcode magic header followed by tagged value records in the wire
// format, with Boolean additionally permitted.
package logfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/fishctl/internal/fish"
	"github.com/danmuck/fishctl/internal/observability"
)

var (
	ErrInvalidFormat = errors.New("logfile: invalid fish binary file")
	ErrEndOfData     = errors.New("logfile: end of data")
)

const headerLen = 4

// Reader decodes records from one .fish log. Reads are sequential; Rewind
// restarts the record sequence without re-validating the header.
type Reader struct {
	src    io.ReadSeeker
	closer io.Closer
}

// Open validates the magic header of the log at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("logfile: open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader validates the magic header of src and positions it at the
// first record.
func NewReader(src io.ReadSeeker) (*Reader, error) {
	var head [headerLen]byte
	if _, err := io.ReadFull(src, head[:]); err != nil {
		return nil, ErrInvalidFormat
	}
	if int32(binary.LittleEndian.Uint32(head[:])) != fish.Fishcode {
		return nil, ErrInvalidFormat
	}
	return &Reader{src: src}, nil
}

// Read decodes the next record. ErrEndOfData marks the clean end of the
// log (the source ended on a record boundary); fish.ErrTruncated means a
// record was begun but never completed, a corrupt file.
func (r *Reader) Read() (fish.Value, error) {
	var tagBuf [4]byte
	if _, err := io.ReadFull(r.src, tagBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEndOfData
		}
		return nil, fmt.Errorf("%w: %v", fish.ErrTruncated, err)
	}
	tag := fish.Tag(int32(binary.LittleEndian.Uint32(tagBuf[:])))
	v, err := fish.DecodePayload(tag, r.src)
	if err != nil {
		return nil, err
	}
	observability.RecordLogRecord(v.Tag())
	return v, nil
}

// Rewind repositions the reader to the first record, just past the header.
func (r *Reader) Rewind() error {
	if _, err := r.src.Seek(headerLen, io.SeekStart); err != nil {
		return fmt.Errorf("logfile: rewind: %w", err)
	}
	return nil
}

// All restarts the log and returns every record in order. The sequence is a
// pure function of the file contents: two calls over an unmodified source
// yield identical lists. A clean end of data terminates the scan; a
// truncated trailing record is surfaced as an error.
func (r *Reader) All() ([]fish.Value, error) {
	if err := r.Rewind(); err != nil {
		return nil, err
	}
	out := make([]fish.Value, 0)
	for {
		v, err := r.Read()
		if errors.Is(err, ErrEndOfData) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Close releases the underlying file when the reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
