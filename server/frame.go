package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jpuleo/mcgate/protocol"
	"github.com/jpuleo/mcgate/wire"
)

// Frame is one length-prefixed packet read off the wire: the packet
// id plus its remaining, not yet field-decoded, payload bytes.
type Frame struct {
	ID      wire.VarInt
	Payload []byte
}

// ErrNegativeFrameLength is returned when the length VarInt decodes to
// a negative value.
var ErrNegativeFrameLength = errors.New("server: negative frame length")

// ReadFrame reads one frame: VarInt(total_length), then the id VarInt,
// noting how many bytes it consumed, then exactly
// total_length-id_bytes further bytes as the payload. A partial read
// on r blocks until enough bytes arrive or the connection errs; this
// is the framer's sole suspension point per direction.
func ReadFrame(r io.Reader) (*Frame, error) {
	var length wire.VarInt
	if _, err := length.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("server: reading frame length: %w", err)
	}
	if length < 0 {
		return nil, ErrNegativeFrameLength
	}

	limited := io.LimitReader(r, int64(length))

	var id wire.VarInt
	idBytes, err := id.ReadFrom(limited)
	if err != nil {
		return nil, fmt.Errorf("server: reading frame packet id: %w", err)
	}

	remaining := int64(length) - idBytes
	if remaining < 0 {
		return nil, fmt.Errorf("server: frame length %d smaller than its %d-byte packet id", length, idBytes)
	}

	payload := make([]byte, remaining)
	if _, err := io.ReadFull(limited, payload); err != nil {
		return nil, fmt.Errorf("server: reading frame payload: %w", err)
	}

	return &Frame{ID: id, Payload: payload}, nil
}

// WritePacket encodes pkt (id then fields, in declared order) and
// writes it prefixed with its VarInt byte length as one unit.
func WritePacket(w io.Writer, pkt protocol.Packet) error {
	var body bytes.Buffer
	if _, err := pkt.ID().WriteTo(&body); err != nil {
		return err
	}
	if err := pkt.Encode(&body); err != nil {
		return err
	}

	var frame bytes.Buffer
	if _, err := wire.VarInt(body.Len()).WriteTo(&frame); err != nil {
		return fmt.Errorf("server: encoding frame length: %w", err)
	}
	frame.Write(body.Bytes())
	if _, err := w.Write(frame.Bytes()); err != nil {
		return fmt.Errorf("server: writing frame: %w", err)
	}
	return nil
}
