package wire

import (
	"bytes"
	"testing"
)

func TestVarIntCorpus(t *testing.T) {
	cases := []struct {
		value VarInt
		bytes []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if _, err := c.value.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo(%d): %v", c.value, err)
		}
		if !bytes.Equal(buf.Bytes(), c.bytes) {
			t.Fatalf("WriteTo(%d) = % X, want % X", c.value, buf.Bytes(), c.bytes)
		}

		var got VarInt
		n, err := got.ReadFrom(bytes.NewReader(c.bytes))
		if err != nil {
			t.Fatalf("ReadFrom(% X): %v", c.bytes, err)
		}
		if got != c.value {
			t.Fatalf("ReadFrom(% X) = %d, want %d", c.bytes, got, c.value)
		}
		if int(n) != len(c.bytes) {
			t.Fatalf("ReadFrom(% X) consumed %d bytes, want %d", c.bytes, n, len(c.bytes))
		}
	}
}

func TestVarIntByteWidths(t *testing.T) {
	cases := []struct {
		value     VarInt
		wantBytes int
	}{
		{0, 1},
		{63, 1},
		{127, 1},
		{128, 2},
		{8191, 2},
		{1<<14 - 1, 2},
		{1 << 14, 3},
		{1<<20 - 1, 3},
		{1<<21 - 1, 3},
		{1 << 21, 4},
		{1<<27 - 1, 4},
		{1<<28 - 1, 4},
		{1 << 28, 5},
		{1 << 30, 5},
		// Negative values carry all 32 two's-complement bits and always
		// occupy the full five bytes.
		{-1, 5},
		{-64, 5},
		{-2147483648, 5},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if _, err := c.value.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo(%d): %v", c.value, err)
		}
		if buf.Len() != c.wantBytes {
			t.Fatalf("VarInt(%d) encoded to %d bytes, want %d", c.value, buf.Len(), c.wantBytes)
		}
	}
}

func TestVarIntRejectsOverlongEncoding(t *testing.T) {
	// Six continuation bytes: too wide for a 32-bit VarInt.
	overlong := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	var v VarInt
	if _, err := v.ReadFrom(bytes.NewReader(overlong)); err == nil {
		t.Fatalf("ReadFrom accepted a 6-byte VarInt")
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []VarLong{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, v := range values {
		var buf bytes.Buffer
		if _, err := v.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo(%d): %v", v, err)
		}
		var got VarLong
		if _, err := got.ReadFrom(&buf); err != nil {
			t.Fatalf("ReadFrom: %v", err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestVarLongRejectsOverlongEncoding(t *testing.T) {
	overlong := make([]byte, 11)
	for i := range overlong {
		overlong[i] = 0xFF
	}
	overlong[len(overlong)-1] = 0x01
	var v VarLong
	if _, err := v.ReadFrom(bytes.NewReader(overlong)); err == nil {
		t.Fatalf("ReadFrom accepted an 11-byte VarLong")
	}
}

func TestStringRoundTrip(t *testing.T) {
	want := String("hello, world")
	var buf bytes.Buffer
	if _, err := want.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	var got String
	if _, err := got.ReadFrom(&buf); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScalarsRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	wantShort := Short(-12345)
	wantUShort := UnsignedShort(25565)
	wantInt := Int(-2000000000)
	wantLong := Long(0x0123456789ABCDEF)
	wantFloat := Float(3.14159)
	wantDouble := Double(2.71828182845904)

	if _, err := wantShort.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := wantUShort.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := wantInt.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := wantLong.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := wantFloat.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := wantDouble.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	var gotShort Short
	var gotUShort UnsignedShort
	var gotInt Int
	var gotLong Long
	var gotFloat Float
	var gotDouble Double

	if _, err := gotShort.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := gotUShort.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := gotInt.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := gotLong.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := gotFloat.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := gotDouble.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}

	if gotShort != wantShort || gotUShort != wantUShort || gotInt != wantInt || gotLong != wantLong {
		t.Fatalf("integer scalar mismatch")
	}
	if gotFloat != wantFloat || gotDouble != wantDouble {
		t.Fatalf("float scalar mismatch")
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	want := NewUUID()
	var buf bytes.Buffer
	if _, err := want.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	var got UUID
	if _, err := got.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("UUID round trip mismatch: got %v, want %v", got, want)
	}
}
