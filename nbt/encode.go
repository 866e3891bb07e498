package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encode writes a whole NBT document: the root Compound's tag byte,
// its name, then the Compound's payload.
func Encode(w io.Writer, name string, root *Compound) error {
	if _, err := w.Write([]byte{byte(TagCompound)}); err != nil {
		return err
	}
	if err := writeString16(w, name); err != nil {
		return err
	}
	return writeValue(w, root)
}

func writeString16(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("nbt: string too long to encode (%d bytes)", len(s))
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeValue(w io.Writer, v Value) error {
	switch t := v.(type) {
	case Byte:
		_, err := w.Write([]byte{byte(t)})
		return err

	case Short:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(t))
		_, err := w.Write(b[:])
		return err

	case Int:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(t))
		_, err := w.Write(b[:])
		return err

	case Long:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(t))
		_, err := w.Write(b[:])
		return err

	case Float:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(float32(t)))
		_, err := w.Write(b[:])
		return err

	case Double:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(float64(t)))
		_, err := w.Write(b[:])
		return err

	case ByteArray:
		if err := writeArrayLength(w, len(t)); err != nil {
			return err
		}
		buf := make([]byte, len(t))
		for i, b := range t {
			buf[i] = byte(b)
		}
		_, err := w.Write(buf)
		return err

	case String:
		return writeString16(w, string(t))

	case *List:
		if _, err := w.Write([]byte{byte(t.ElemType)}); err != nil {
			return err
		}
		if err := writeArrayLength(w, len(t.Items)); err != nil {
			return err
		}
		for _, item := range t.Items {
			if err := writeValue(w, item); err != nil {
				return err
			}
		}
		return nil

	case *Compound:
		for _, entry := range t.entries {
			if _, err := w.Write([]byte{byte(entry.Value.Type())}); err != nil {
				return err
			}
			if err := writeString16(w, entry.Name); err != nil {
				return err
			}
			if err := writeValue(w, entry.Value); err != nil {
				return err
			}
		}
		_, err := w.Write([]byte{byte(TagEnd)})
		return err

	case IntArray:
		if err := writeArrayLength(w, len(t)); err != nil {
			return err
		}
		for _, v := range t {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(v))
			if _, err := w.Write(b[:]); err != nil {
				return err
			}
		}
		return nil

	case LongArray:
		if err := writeArrayLength(w, len(t)); err != nil {
			return err
		}
		for _, v := range t {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(v))
			if _, err := w.Write(b[:]); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("nbt: cannot encode value of type %T", v)
	}
}

func writeArrayLength(w io.Writer, n int) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	_, err := w.Write(b[:])
	return err
}
