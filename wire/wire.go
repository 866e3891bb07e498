// Package wire implements the Minecraft Java Edition wire primitives:
// VarInt/VarLong framing integers, length-prefixed strings, big-endian
// scalars and the 128-bit UUID field. Every type implements
// io.WriterTo/io.ReaderFrom so packet fields compose the same way the
// protocol lays them out on the wire, in declared order.
package wire

import (
	"errors"
	"io"
	"math"

	"github.com/google/uuid"
)

// Minecraft packet field types.
type (
	// Boolean is encoded as a single byte (true = 0x01, false = 0x00).
	Boolean bool
	// Byte is a signed 8-bit integer, two's complement.
	Byte int8
	// UnsignedByte is an unsigned 8-bit integer.
	UnsignedByte uint8
	// Short is a signed 16-bit integer, big-endian.
	Short int16
	// UnsignedShort is an unsigned 16-bit integer, big-endian.
	UnsignedShort uint16
	// Int is a signed 32-bit integer, big-endian.
	Int int32
	// Long is a signed 64-bit integer, big-endian.
	Long int64
	// Float is an IEEE-754 32-bit floating point number, big-endian.
	Float float32
	// Double is an IEEE-754 64-bit floating point number, big-endian.
	Double float64
	// String is a VarInt byte-length prefix followed by that many UTF-8 bytes.
	String string

	// VarInt is a signed base-128 LEB encoding of a 32-bit integer, 1 to 5 bytes.
	VarInt int32
	// VarLong is a signed base-128 LEB encoding of a 64-bit integer, 1 to 10 bytes.
	VarLong int64

	// UUID is an unsigned 128-bit integer, written as two big-endian u64 words.
	UUID uuid.UUID
)

// maxVarIntBytes is the widest a VarInt may be on the wire before it is
// rejected as malformed for a 32-bit target.
const maxVarIntBytes = 5

// maxVarLongBytes is the widest a VarLong may be before it is rejected
// for a 64-bit target.
const maxVarLongBytes = 10

func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var v [1]byte
	_, err := io.ReadFull(r, v[:])
	return v[0], err
}

// WriteTo encodes a Boolean.
func (b Boolean) WriteTo(w io.Writer) (int64, error) {
	v := byte(0x00)
	if b {
		v = 0x01
	}
	nn, err := w.Write([]byte{v})
	return int64(nn), err
}

// ReadFrom decodes a Boolean.
func (b *Boolean) ReadFrom(r io.Reader) (int64, error) {
	v, err := readByte(r)
	if err != nil {
		return 0, err
	}
	*b = v != 0
	return 1, nil
}

// WriteTo encodes a Byte.
func (b Byte) WriteTo(w io.Writer) (int64, error) {
	nn, err := w.Write([]byte{byte(b)})
	return int64(nn), err
}

// ReadFrom decodes a Byte.
func (b *Byte) ReadFrom(r io.Reader) (int64, error) {
	v, err := readByte(r)
	if err != nil {
		return 0, err
	}
	*b = Byte(v)
	return 1, nil
}

// WriteTo encodes an UnsignedByte.
func (u UnsignedByte) WriteTo(w io.Writer) (int64, error) {
	nn, err := w.Write([]byte{byte(u)})
	return int64(nn), err
}

// ReadFrom decodes an UnsignedByte.
func (u *UnsignedByte) ReadFrom(r io.Reader) (int64, error) {
	v, err := readByte(r)
	if err != nil {
		return 0, err
	}
	*u = UnsignedByte(v)
	return 1, nil
}

// WriteTo encodes a Short, big-endian.
func (s Short) WriteTo(w io.Writer) (int64, error) {
	n := uint16(s)
	nn, err := w.Write([]byte{byte(n >> 8), byte(n)})
	return int64(nn), err
}

// ReadFrom decodes a Short, big-endian.
func (s *Short) ReadFrom(r io.Reader) (int64, error) {
	var bs [2]byte
	n, err := io.ReadFull(r, bs[:])
	if err != nil {
		return int64(n), err
	}
	*s = Short(int16(bs[0])<<8 | int16(bs[1]))
	return int64(n), nil
}

// WriteTo encodes an UnsignedShort, big-endian.
func (u UnsignedShort) WriteTo(w io.Writer) (int64, error) {
	n := uint16(u)
	nn, err := w.Write([]byte{byte(n >> 8), byte(n)})
	return int64(nn), err
}

// ReadFrom decodes an UnsignedShort, big-endian.
func (u *UnsignedShort) ReadFrom(r io.Reader) (int64, error) {
	var bs [2]byte
	n, err := io.ReadFull(r, bs[:])
	if err != nil {
		return int64(n), err
	}
	*u = UnsignedShort(uint16(bs[0])<<8 | uint16(bs[1]))
	return int64(n), nil
}

// WriteTo encodes an Int, big-endian.
func (i Int) WriteTo(w io.Writer) (int64, error) {
	n := uint32(i)
	nn, err := w.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	return int64(nn), err
}

// ReadFrom decodes an Int, big-endian.
func (i *Int) ReadFrom(r io.Reader) (int64, error) {
	var bs [4]byte
	n, err := io.ReadFull(r, bs[:])
	if err != nil {
		return int64(n), err
	}
	*i = Int(int32(bs[0])<<24 | int32(bs[1])<<16 | int32(bs[2])<<8 | int32(bs[3]))
	return int64(n), nil
}

// WriteTo encodes a Long, big-endian.
func (l Long) WriteTo(w io.Writer) (int64, error) {
	n := uint64(l)
	nn, err := w.Write([]byte{
		byte(n >> 56), byte(n >> 48), byte(n >> 40), byte(n >> 32),
		byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n),
	})
	return int64(nn), err
}

// ReadFrom decodes a Long, big-endian.
func (l *Long) ReadFrom(r io.Reader) (int64, error) {
	var bs [8]byte
	n, err := io.ReadFull(r, bs[:])
	if err != nil {
		return int64(n), err
	}
	*l = Long(int64(bs[0])<<56 | int64(bs[1])<<48 | int64(bs[2])<<40 | int64(bs[3])<<32 |
		int64(bs[4])<<24 | int64(bs[5])<<16 | int64(bs[6])<<8 | int64(bs[7]))
	return int64(n), nil
}

// WriteTo encodes a Float as its big-endian IEEE-754 bit pattern.
func (f Float) WriteTo(w io.Writer) (int64, error) {
	return Int(math.Float32bits(float32(f))).WriteTo(w)
}

// ReadFrom decodes a Float from its big-endian IEEE-754 bit pattern.
func (f *Float) ReadFrom(r io.Reader) (int64, error) {
	var v Int
	n, err := v.ReadFrom(r)
	if err != nil {
		return n, err
	}
	*f = Float(math.Float32frombits(uint32(v)))
	return n, nil
}

// WriteTo encodes a Double as its big-endian IEEE-754 bit pattern.
func (d Double) WriteTo(w io.Writer) (int64, error) {
	return Long(math.Float64bits(float64(d))).WriteTo(w)
}

// ReadFrom decodes a Double from its big-endian IEEE-754 bit pattern.
func (d *Double) ReadFrom(r io.Reader) (int64, error) {
	var v Long
	n, err := v.ReadFrom(r)
	if err != nil {
		return n, err
	}
	*d = Double(math.Float64frombits(uint64(v)))
	return n, nil
}

// WriteTo encodes a VarInt: base-128 LEB, low 7 bits first, continuation
// bit set while higher bits remain.
func (v VarInt) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, maxVarIntBytes)
	num := uint32(v)
	for {
		b := byte(num & 0x7F)
		num >>= 7
		if num != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if num == 0 {
			break
		}
	}
	nn, err := w.Write(buf)
	return int64(nn), err
}

// ReadFrom decodes a VarInt and reports the number of bytes consumed,
// which the framer needs to split the remaining frame payload.
func (v *VarInt) ReadFrom(r io.Reader) (int64, error) {
	var result uint32
	var n int64
	for {
		if n >= maxVarIntBytes {
			return n, errors.New("wire: VarInt is too big")
		}
		b, err := readByte(r)
		if err != nil {
			return n, err
		}
		result |= uint32(b&0x7F) << (7 * uint(n))
		n++
		if b&0x80 == 0 {
			break
		}
	}
	*v = VarInt(result)
	return n, nil
}

// WriteTo encodes a VarLong the same way as VarInt, over 64 bits.
func (v VarLong) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, maxVarLongBytes)
	num := uint64(v)
	for {
		b := byte(num & 0x7F)
		num >>= 7
		if num != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if num == 0 {
			break
		}
	}
	nn, err := w.Write(buf)
	return int64(nn), err
}

// ReadFrom decodes a VarLong and reports the number of bytes consumed.
func (v *VarLong) ReadFrom(r io.Reader) (int64, error) {
	var result uint64
	var n int64
	for {
		if n >= maxVarLongBytes {
			return n, errors.New("wire: VarLong is too big")
		}
		b, err := readByte(r)
		if err != nil {
			return n, err
		}
		result |= uint64(b&0x7F) << (7 * uint(n))
		n++
		if b&0x80 == 0 {
			break
		}
	}
	*v = VarLong(result)
	return n, nil
}

// WriteTo encodes a String as VarInt(byte length) followed by the UTF-8 bytes.
func (s String) WriteTo(w io.Writer) (int64, error) {
	raw := []byte(s)
	n, err := VarInt(len(raw)).WriteTo(w)
	if err != nil {
		return n, err
	}
	nn, err := w.Write(raw)
	return n + int64(nn), err
}

// ReadFrom decodes a String. A declared length that exceeds the
// remaining frame fails the io.ReadFull below, so a corrupt length
// cannot hand back a partially-filled string.
func (s *String) ReadFrom(r io.Reader) (int64, error) {
	var length VarInt
	n, err := length.ReadFrom(r)
	if err != nil {
		return n, err
	}
	if length < 0 {
		return n, errors.New("wire: negative string length")
	}

	buf := make([]byte, length)
	nn, err := io.ReadFull(r, buf)
	n += int64(nn)
	if err != nil {
		return n, err
	}
	*s = String(buf)
	return n, nil
}

// WriteTo encodes a UUID as two big-endian u64 words (most significant first).
func (u UUID) WriteTo(w io.Writer) (int64, error) {
	nn, err := w.Write(u[:])
	return int64(nn), err
}

// ReadFrom decodes a UUID from exactly 16 bytes.
func (u *UUID) ReadFrom(r io.Reader) (int64, error) {
	nn, err := io.ReadFull(r, u[:])
	return int64(nn), err
}

// NewUUID generates a random version-4, variant-2 UUID.
func NewUUID() UUID {
	return UUID(uuid.New())
}
