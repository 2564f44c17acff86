package logfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danmuck/fishctl/internal/fish"
	"github.com/danmuck/fishctl/internal/testutil/testlog"
)

func writeLog(t *testing.T, values ...fish.Value) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	for _, v := range values {
		if err := w.Write(v); err != nil {
			t.Fatalf("write %v: %v", v, err)
		}
	}
	return bytes.NewReader(buf.Bytes())
}

func TestEndToEndRecordedSession(t *testing.T) {
	testlog.Start(t)

	want := []fish.Value{
		fish.Int(fish.Fishcode),
		fish.Real(3.5),
		fish.Vec3{1.0, 2.0, 3.0},
		fish.String("abc"),
		fish.Bool(true),
	}
	r, err := NewReader(writeLog(t, want...))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	got, err := r.All()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("record mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestAllIsRestartable(t *testing.T) {
	testlog.Start(t)

	r, err := NewReader(writeLog(t, fish.Int(1), fish.String("run"), fish.Vec2{4, 5}))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	first, err := r.All()
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := r.All()
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("passes differ:\nfirst %v\nsecond %v", first, second)
	}
}

func TestInvalidMagicHeader(t *testing.T) {
	testlog.Start(t)

	if _, err := NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := NewReader(bytes.NewReader([]byte{1, 2})); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat for short header, got %v", err)
	}
}

func TestEmptyLogYieldsEmptySequence(t *testing.T) {
	testlog.Start(t)

	r, err := NewReader(writeLog(t))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	got, err := r.All()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty sequence, got %v", got)
	}
	if _, err := r.Read(); !errors.Is(err, ErrEndOfData) {
		t.Fatalf("expected ErrEndOfData, got %v", err)
	}
}

func TestTruncatedTrailingRecord(t *testing.T) {
	testlog.Start(t)

	src := writeLog(t, fish.Int(9), fish.Real(3.5))
	raw := make([]byte, src.Len())
	if _, err := src.Read(raw); err != nil {
		t.Fatalf("drain: %v", err)
	}
	r, err := NewReader(bytes.NewReader(raw[:len(raw)-1]))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if _, err := r.All(); !errors.Is(err, fish.ErrTruncated) {
		t.Fatalf("expected ErrTruncated from All, got %v", err)
	}

	if err := r.Rewind(); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if v, err := r.Read(); err != nil || v != fish.Int(9) {
		t.Fatalf("first record after rewind: v=%v err=%v", v, err)
	}
	if _, err := r.Read(); !errors.Is(err, fish.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestOpenAndCreateOnDisk(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "session.fish")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	records := []fish.Value{fish.String("disk"), fish.Bool(false)}
	for _, v := range records {
		if err := w.Write(v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	got, err := r.All()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("disk round-trip mismatch: got %v want %v", got, records)
	}
}

func TestOpenMissingFile(t *testing.T) {
	testlog.Start(t)

	if _, err := Open(filepath.Join(t.TempDir(), "absent.fish")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
