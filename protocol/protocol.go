// Package protocol is the typed packet catalog: one record per
// (phase, direction, id), with fixed field lists encoded in declared
// order. This core ships Handshake, Status and Login records; Play is
// declared as a phase but no Play packet body is decoded here.
package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jpuleo/mcgate/chat"
	"github.com/jpuleo/mcgate/wire"
)

// Phase is the connection's current protocol sub-language.
type Phase int

const (
	Handshake Phase = iota
	Status
	Login
	Play
)

func (p Phase) String() string {
	switch p {
	case Handshake:
		return "Handshake"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Play:
		return "Play"
	default:
		return "Unknown"
	}
}

// Direction is which side of the connection a packet travels.
type Direction int

const (
	Serverbound Direction = iota
	Clientbound
)

func (d Direction) String() string {
	if d == Serverbound {
		return "Serverbound"
	}
	return "Clientbound"
}

// Packet identifiers, preserved literally from the wire.
const (
	IDHandshake = 0x00

	IDStatusRequest  = 0x00
	IDStatusPing     = 0x01
	IDStatusResponse = 0x00
	IDStatusPong     = 0x01

	IDLoginStart      = 0x00
	IDLoginDisconnect = 0x00
	IDLoginSuccess    = 0x02
)

// Packet is any decoded or composed packet record.
type Packet interface {
	// ID is this record's packet id within its (phase, direction).
	ID() wire.VarInt
	// Encode writes the record's fields, in declared order, after the
	// id; WritePacket (in package server) handles the id and length prefix.
	Encode(w io.Writer) error
}

// --- Handshake/Serverbound ---

// HandshakePacket is Handshake/Serverbound Handshake(0x00).
type HandshakePacket struct {
	ProtocolVersion wire.VarInt
	ServerAddress   wire.String
	ServerPort      wire.UnsignedShort
	NextState       wire.VarInt
}

func (*HandshakePacket) ID() wire.VarInt { return IDHandshake }

func (p *HandshakePacket) Encode(w io.Writer) error {
	return writeAll(w, p.ProtocolVersion, p.ServerAddress, p.ServerPort, p.NextState)
}

func decodeHandshakePacket(r io.Reader) (*HandshakePacket, error) {
	p := &HandshakePacket{}
	if err := readAll(r, &p.ProtocolVersion, &p.ServerAddress, &p.ServerPort, &p.NextState); err != nil {
		return nil, err
	}
	return p, nil
}

// --- Status/Serverbound ---

// StatusRequestPacket is Status/Serverbound Request(0x00); it has no fields.
type StatusRequestPacket struct{}

func (*StatusRequestPacket) ID() wire.VarInt        { return IDStatusRequest }
func (*StatusRequestPacket) Encode(io.Writer) error { return nil }

func decodeStatusRequestPacket(io.Reader) (*StatusRequestPacket, error) {
	return &StatusRequestPacket{}, nil
}

// StatusPingPacket is Status/Serverbound Ping(0x01).
type StatusPingPacket struct {
	Value wire.Long
}

func (*StatusPingPacket) ID() wire.VarInt { return IDStatusPing }
func (p *StatusPingPacket) Encode(w io.Writer) error {
	return writeAll(w, p.Value)
}

func decodeStatusPingPacket(r io.Reader) (*StatusPingPacket, error) {
	p := &StatusPingPacket{}
	if err := readAll(r, &p.Value); err != nil {
		return nil, err
	}
	return p, nil
}

// --- Status/Clientbound ---

// StatusResponsePacket is Status/Clientbound Response(0x00); Payload
// carries the server-list status JSON document.
type StatusResponsePacket struct {
	Payload wire.String
}

func (*StatusResponsePacket) ID() wire.VarInt { return IDStatusResponse }
func (p *StatusResponsePacket) Encode(w io.Writer) error {
	return writeAll(w, p.Payload)
}

func decodeStatusResponsePacket(r io.Reader) (*StatusResponsePacket, error) {
	p := &StatusResponsePacket{}
	if err := readAll(r, &p.Payload); err != nil {
		return nil, err
	}
	return p, nil
}

// StatusPongPacket is Status/Clientbound Pong(0x01).
type StatusPongPacket struct {
	Value wire.Long
}

func (*StatusPongPacket) ID() wire.VarInt { return IDStatusPong }
func (p *StatusPongPacket) Encode(w io.Writer) error {
	return writeAll(w, p.Value)
}

func decodeStatusPongPacket(r io.Reader) (*StatusPongPacket, error) {
	p := &StatusPongPacket{}
	if err := readAll(r, &p.Value); err != nil {
		return nil, err
	}
	return p, nil
}

// --- Login/Serverbound ---

// LoginStartPacket is Login/Serverbound LoginStart(0x00).
type LoginStartPacket struct {
	Username wire.String
}

func (*LoginStartPacket) ID() wire.VarInt { return IDLoginStart }
func (p *LoginStartPacket) Encode(w io.Writer) error {
	return writeAll(w, p.Username)
}

func decodeLoginStartPacket(r io.Reader) (*LoginStartPacket, error) {
	p := &LoginStartPacket{}
	if err := readAll(r, &p.Username); err != nil {
		return nil, err
	}
	return p, nil
}

// --- Login/Clientbound ---

// DisconnectPacket is Login/Clientbound Disconnect(0x00). Reason
// carries the chat component JSON rendering as a String field.
type DisconnectPacket struct {
	Reason wire.String
}

// NewDisconnectPacket renders reason to JSON and wraps it as the
// packet's String field.
func NewDisconnectPacket(reason chat.Component) (*DisconnectPacket, error) {
	data, err := chat.Encode(reason)
	if err != nil {
		return nil, fmt.Errorf("protocol: encoding disconnect reason: %w", err)
	}
	return &DisconnectPacket{Reason: wire.String(data)}, nil
}

// ReasonComponent decodes Reason back into a chat component tree.
func (p *DisconnectPacket) ReasonComponent() (chat.Component, error) {
	return chat.Decode([]byte(p.Reason))
}

func (*DisconnectPacket) ID() wire.VarInt { return IDLoginDisconnect }
func (p *DisconnectPacket) Encode(w io.Writer) error {
	return writeAll(w, p.Reason)
}

func decodeDisconnectPacket(r io.Reader) (*DisconnectPacket, error) {
	p := &DisconnectPacket{}
	if err := readAll(r, &p.Reason); err != nil {
		return nil, err
	}
	return p, nil
}

// LoginSuccessPacket is Login/Clientbound LoginSuccess(0x02).
type LoginSuccessPacket struct {
	UUID     wire.UUID
	Username wire.String
}

func (*LoginSuccessPacket) ID() wire.VarInt { return IDLoginSuccess }
func (p *LoginSuccessPacket) Encode(w io.Writer) error {
	return writeAll(w, p.UUID, p.Username)
}

func decodeLoginSuccessPacket(r io.Reader) (*LoginSuccessPacket, error) {
	p := &LoginSuccessPacket{}
	if err := readAll(r, &p.UUID, &p.Username); err != nil {
		return nil, err
	}
	return p, nil
}

// fieldWriter is satisfied by every wire primitive type.
type fieldWriter interface {
	WriteTo(io.Writer) (int64, error)
}

// fieldReader is satisfied by every wire primitive type, taken as a
// pointer so ReadFrom can populate it.
type fieldReader interface {
	ReadFrom(io.Reader) (int64, error)
}

func writeAll(w io.Writer, fields ...fieldWriter) error {
	for _, f := range fields {
		if _, err := f.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

func readAll(r io.Reader, fields ...fieldReader) error {
	for _, f := range fields {
		if _, err := f.ReadFrom(r); err != nil {
			return fmt.Errorf("protocol: reading field: %w", err)
		}
	}
	return nil
}

// Decode dispatches on (phase, direction, id) and decodes payload into
// the matching record. Trailing bytes after the last field, or bytes
// missing before one is fully read, are both errors.
func Decode(phase Phase, direction Direction, id wire.VarInt, payload []byte) (Packet, error) {
	r := bytes.NewReader(payload)

	var (
		packet Packet
		err    error
	)

	switch {
	case phase == Handshake && direction == Serverbound && id == IDHandshake:
		packet, err = decodeHandshakePacket(r)
	case phase == Status && direction == Serverbound && id == IDStatusRequest:
		packet, err = decodeStatusRequestPacket(r)
	case phase == Status && direction == Serverbound && id == IDStatusPing:
		packet, err = decodeStatusPingPacket(r)
	case phase == Status && direction == Clientbound && id == IDStatusResponse:
		packet, err = decodeStatusResponsePacket(r)
	case phase == Status && direction == Clientbound && id == IDStatusPong:
		packet, err = decodeStatusPongPacket(r)
	case phase == Login && direction == Serverbound && id == IDLoginStart:
		packet, err = decodeLoginStartPacket(r)
	case phase == Login && direction == Clientbound && id == IDLoginDisconnect:
		packet, err = decodeDisconnectPacket(r)
	case phase == Login && direction == Clientbound && id == IDLoginSuccess:
		packet, err = decodeLoginSuccessPacket(r)
	default:
		return nil, fmt.Errorf("protocol: no packet record for %s/%s id=%d", phase, direction, int32(id))
	}
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("protocol: %d trailing bytes after %s/%s id=%d", r.Len(), phase, direction, int32(id))
	}
	return packet, nil
}
