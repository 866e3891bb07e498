// Package nbt decodes the Named Binary Tag format: the recursive,
// tag-dispatched binary container Minecraft uses for save data,
// schematics and some in-protocol blobs. Every value is an owned,
// immutable node in a discriminated sum over the twelve payload
// shapes; Compound and List own their descendants by value.
package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// TagType is the one-byte tag code that precedes every NBT payload.
type TagType byte

// Tag numeric codes, fixed by the format.
const (
	TagEnd       TagType = 0
	TagByte      TagType = 1
	TagShort     TagType = 2
	TagInt       TagType = 3
	TagLong      TagType = 4
	TagFloat     TagType = 5
	TagDouble    TagType = 6
	TagByteArray TagType = 7
	TagString    TagType = 8
	TagList      TagType = 9
	TagCompound  TagType = 10
	TagIntArray  TagType = 11
	TagLongArray TagType = 12
)

func (t TagType) String() string {
	switch t {
	case TagEnd:
		return "End"
	case TagByte:
		return "Byte"
	case TagShort:
		return "Short"
	case TagInt:
		return "Int"
	case TagLong:
		return "Long"
	case TagFloat:
		return "Float"
	case TagDouble:
		return "Double"
	case TagByteArray:
		return "ByteArray"
	case TagString:
		return "String"
	case TagList:
		return "List"
	case TagCompound:
		return "Compound"
	case TagIntArray:
		return "IntArray"
	case TagLongArray:
		return "LongArray"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(t))
	}
}

// Value is any decoded NBT payload. The concrete type identifies the
// tag: Byte, Short, Int, Long, Float, Double, ByteArray, String,
// *List, *Compound, IntArray or LongArray.
type Value interface {
	Type() TagType
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []int8
	String    string
	IntArray  []int32
	LongArray []int64
)

func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (IntArray) Type() TagType  { return TagIntArray }
func (LongArray) Type() TagType { return TagLongArray }

// List is a homogeneous sequence sharing one element tag. An empty
// list conventionally carries ElemType TagEnd; Encode writes ElemType
// as set and Decode keeps the element tag it reads, even when the list
// is empty.
type List struct {
	ElemType TagType
	Items    []Value
}

func (*List) Type() TagType { return TagList }

// compoundEntry is one (name, value) pair. Compound preserves
// insertion order so re-encoding reproduces the original byte stream.
type compoundEntry struct {
	Name  string
	Value Value
}

// Compound is an ordered mapping from UTF-8 name to tagged value,
// terminated on the wire by a sentinel End tag that never appears
// inside the decoded entries.
type Compound struct {
	entries []compoundEntry
}

func (*Compound) Type() TagType { return TagCompound }

// Set appends or overwrites a named entry, preserving the position of
// an existing key.
func (c *Compound) Set(name string, v Value) {
	for i := range c.entries {
		if c.entries[i].Name == name {
			c.entries[i].Value = v
			return
		}
	}
	c.entries = append(c.entries, compoundEntry{Name: name, Value: v})
}

// Get looks up a named entry.
func (c *Compound) Get(name string) (Value, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether a named entry is present.
func (c *Compound) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns entry names in insertion order.
func (c *Compound) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// Decode reads a whole NBT document: a one-byte Compound tag, its
// (usually empty) name string, then the root Compound value.
func Decode(r io.Reader) (name string, root *Compound, err error) {
	tag, err := readTagByte(r)
	if err != nil {
		return "", nil, err
	}
	if TagType(tag) != TagCompound {
		return "", nil, fmt.Errorf("nbt: root tag must be Compound, got %s", TagType(tag))
	}

	name, err = readString16(r)
	if err != nil {
		return "", nil, err
	}

	value, err := readValue(TagCompound, r)
	if err != nil {
		return "", nil, err
	}
	return name, value.(*Compound), nil
}

func readTagByte(r io.Reader) (TagType, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("nbt: reading tag byte: %w", err)
	}
	return TagType(b[0]), nil
}

func readString16(r io.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", fmt.Errorf("nbt: reading string length: %w", err)
	}
	length := binary.BigEndian.Uint16(lenBuf[:])
	if length == 0 {
		return "", nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("nbt: reading string body: %w", err)
	}
	if !utf8.Valid(buf) {
		return "", errors.New("nbt: malformed UTF-8 string")
	}
	return string(buf), nil
}

func readValue(tag TagType, r io.Reader) (Value, error) {
	switch tag {
	case TagByte:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("nbt: reading Byte: %w", err)
		}
		return Byte(int8(b[0])), nil

	case TagShort:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("nbt: reading Short: %w", err)
		}
		return Short(int16(binary.BigEndian.Uint16(b[:]))), nil

	case TagInt:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("nbt: reading Int: %w", err)
		}
		return Int(int32(binary.BigEndian.Uint32(b[:]))), nil

	case TagLong:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("nbt: reading Long: %w", err)
		}
		return Long(int64(binary.BigEndian.Uint64(b[:]))), nil

	case TagFloat:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("nbt: reading Float: %w", err)
		}
		bits := binary.BigEndian.Uint32(b[:])
		return Float(math.Float32frombits(bits)), nil

	case TagDouble:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("nbt: reading Double: %w", err)
		}
		bits := binary.BigEndian.Uint64(b[:])
		return Double(math.Float64frombits(bits)), nil

	case TagByteArray:
		length, err := readArrayLength(r, "ByteArray")
		if err != nil {
			return nil, err
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("nbt: reading ByteArray body: %w", err)
		}
		arr := make(ByteArray, length)
		for i, b := range buf {
			arr[i] = int8(b)
		}
		return arr, nil

	case TagString:
		s, err := readString16(r)
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case TagList:
		elemTag, err := readTagByte(r)
		if err != nil {
			return nil, fmt.Errorf("nbt: reading List element tag: %w", err)
		}
		length, err := readArrayLength(r, "List")
		if err != nil {
			return nil, err
		}
		list := &List{ElemType: elemTag}
		if length == 0 {
			return list, nil
		}
		list.Items = make([]Value, 0, length)
		for i := 0; i < length; i++ {
			v, err := readValue(elemTag, r)
			if err != nil {
				return nil, fmt.Errorf("nbt: reading List element %d: %w", i, err)
			}
			list.Items = append(list.Items, v)
		}
		return list, nil

	case TagCompound:
		compound := &Compound{}
		for {
			entryTag, err := readTagByte(r)
			if err != nil {
				return nil, fmt.Errorf("nbt: reading Compound entry tag: %w", err)
			}
			if entryTag == TagEnd {
				return compound, nil
			}
			name, err := readString16(r)
			if err != nil {
				return nil, err
			}
			v, err := readValue(entryTag, r)
			if err != nil {
				return nil, fmt.Errorf("nbt: reading Compound entry %q: %w", name, err)
			}
			compound.entries = append(compound.entries, compoundEntry{Name: name, Value: v})
		}

	case TagIntArray:
		length, err := readArrayLength(r, "IntArray")
		if err != nil {
			return nil, err
		}
		arr := make(IntArray, length)
		for i := 0; i < length; i++ {
			var b [4]byte
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return nil, fmt.Errorf("nbt: reading IntArray element %d: %w", i, err)
			}
			arr[i] = int32(binary.BigEndian.Uint32(b[:]))
		}
		return arr, nil

	case TagLongArray:
		length, err := readArrayLength(r, "LongArray")
		if err != nil {
			return nil, err
		}
		arr := make(LongArray, length)
		for i := 0; i < length; i++ {
			var b [8]byte
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return nil, fmt.Errorf("nbt: reading LongArray element %d: %w", i, err)
			}
			arr[i] = int64(binary.BigEndian.Uint64(b[:]))
		}
		return arr, nil

	default:
		return nil, fmt.Errorf("nbt: unknown tag code %d", byte(tag))
	}
}

func readArrayLength(r io.Reader, what string) (int, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("nbt: reading %s length: %w", what, err)
	}
	length := int32(binary.BigEndian.Uint32(b[:]))
	if length < 0 {
		return 0, fmt.Errorf("nbt: negative %s length %d", what, length)
	}
	return int(length), nil
}
