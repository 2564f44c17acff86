package fish

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestRoundTripEveryVariant(t *testing.T) {
	values := []Value{
		Int(-7),
		Int(Fishcode),
		Real(3.5),
		String("abc"),
		Vec2{1.5, -2.5},
		Vec3{1.0, 2.0, 3.0},
		Bool(true),
		Bool(false),
	}
	for _, in := range values {
		buf, err := Encode(in)
		if err != nil {
			t.Fatalf("encode %v: %v", in, err)
		}
		out, err := Decode(bytes.NewReader(buf))
		if err != nil {
			t.Fatalf("decode %v: %v", in, err)
		}
		if out != in {
			t.Fatalf("round-trip mismatch: in=%v out=%v", in, out)
		}
	}
}

func TestRoundTripStringLengths(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 5, 1000} {
		in := String(strings.Repeat("x", n))
		buf, err := Encode(in)
		if err != nil {
			t.Fatalf("encode len=%d: %v", n, err)
		}
		if want := 8 + PaddedLen(n); len(buf) != want {
			t.Fatalf("encoded size for len=%d: got %d want %d", n, len(buf), want)
		}
		out, err := Decode(bytes.NewReader(buf))
		if err != nil {
			t.Fatalf("decode len=%d: %v", n, err)
		}
		if out != in {
			t.Fatalf("string round-trip mismatch at len=%d", n)
		}
	}
}

func TestPaddedLenLaw(t *testing.T) {
	cases := map[int]int{
		0:    4,
		1:    4,
		3:    4,
		4:    4,
		5:    8,
		8:    8,
		9:    12,
		1000: 1000,
		1001: 1004,
	}
	for n, want := range cases {
		if got := PaddedLen(n); got != want {
			t.Fatalf("PaddedLen(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestEncodeIntWireLayout(t *testing.T) {
	buf, err := Encode(Int(258))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// little-endian tag then little-endian payload
	want := []byte{1, 0, 0, 0, 2, 1, 0, 0}
	if !bytes.Equal(buf, want) {
		t.Fatalf("wire layout mismatch: got % x want % x", buf, want)
	}
}

func TestDecodeOneBytePerReadMatchesUnsplit(t *testing.T) {
	values := []Value{
		Int(42),
		Real(-0.25),
		String("partial delivery"),
		Vec3{9.0, 8.0, 7.0},
	}
	for _, in := range values {
		buf, err := Encode(in)
		if err != nil {
			t.Fatalf("encode %v: %v", in, err)
		}
		out, err := Decode(iotest.OneByteReader(bytes.NewReader(buf)))
		if err != nil {
			t.Fatalf("decode %v over 1-byte reads: %v", in, err)
		}
		if out != in {
			t.Fatalf("split decode mismatch: in=%v out=%v", in, out)
		}
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	// tag 7 has no payload shape
	buf := []byte{7, 0, 0, 0, 1, 2, 3, 4}
	_, err := Decode(bytes.NewReader(buf))
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	buf, err := Encode(Vec3{1, 2, 3})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = Decode(bytes.NewReader(buf[:len(buf)-1]))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	// the read failure that cut the value short stays visible
	if !strings.Contains(err.Error(), "EOF") {
		t.Fatalf("expected underlying cause in error, got %q", err.Error())
	}
}

func TestDecodeNegativeStringLength(t *testing.T) {
	buf := []byte{3, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}
	_, err := Decode(bytes.NewReader(buf))
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestFromGoBridgesLooseValues(t *testing.T) {
	v, err := FromGo([]float64{1.0, 2.0})
	if err != nil {
		t.Fatalf("from go vec2: %v", err)
	}
	if v != (Vec2{1.0, 2.0}) {
		t.Fatalf("unexpected vec2: %v", v)
	}
	v, err = FromGo(7)
	if err != nil {
		t.Fatalf("from go int: %v", err)
	}
	if v != Int(7) {
		t.Fatalf("unexpected int: %v", v)
	}
}

func TestFromGoRejectsBadShapes(t *testing.T) {
	if _, err := FromGo([]float64{1, 2, 3, 4}); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape, got %v", err)
	}
	if _, err := FromGo(map[string]int{"a": 1}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := FromGo(nil); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for nil, got %v", err)
	}
}
