package server

import (
	"bytes"
	"testing"

	"github.com/jpuleo/mcgate/protocol"
	"github.com/jpuleo/mcgate/wire"
)

func TestWritePacketThenReadFrame(t *testing.T) {
	pkt := &protocol.LoginStartPacket{Username: "alice"}

	var buf bytes.Buffer
	if err := WritePacket(&buf, pkt); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}

	frame, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.ID != protocol.IDLoginStart {
		t.Fatalf("frame.ID = %d, want %d", frame.ID, protocol.IDLoginStart)
	}

	decoded, err := protocol.Decode(protocol.Login, protocol.Serverbound, frame.ID, frame.Payload)
	if err != nil {
		t.Fatalf("protocol.Decode: %v", err)
	}
	ls, ok := decoded.(*protocol.LoginStartPacket)
	if !ok || ls.Username != "alice" {
		t.Fatalf("decoded = %#v", decoded)
	}
}

func TestReadFrameRejectsNegativeLength(t *testing.T) {
	var buf bytes.Buffer
	wire.VarInt(-1).WriteTo(&buf)
	if _, err := ReadFrame(&buf); err != ErrNegativeFrameLength {
		t.Fatalf("got err %v, want ErrNegativeFrameLength", err)
	}
}

func TestReadFrameRejectsTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	// Declare a length of 10 but only supply 2 bytes total.
	wire.VarInt(10).WriteTo(&buf)
	buf.Write([]byte{0x00, 0x01})
	if _, err := ReadFrame(&buf); err == nil {
		t.Fatalf("ReadFrame accepted a truncated payload")
	}
}

func TestReadFrameMultipleFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePacket(&buf, &protocol.StatusRequestPacket{}); err != nil {
		t.Fatal(err)
	}
	if err := WritePacket(&buf, &protocol.StatusPingPacket{Value: 42}); err != nil {
		t.Fatal(err)
	}

	first, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("first ReadFrame: %v", err)
	}
	if first.ID != protocol.IDStatusRequest {
		t.Fatalf("first.ID = %d", first.ID)
	}

	second, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("second ReadFrame: %v", err)
	}
	if second.ID != protocol.IDStatusPing {
		t.Fatalf("second.ID = %d", second.ID)
	}
}
