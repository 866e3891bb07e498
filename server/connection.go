package server

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/jpuleo/mcgate/chat"
	"github.com/jpuleo/mcgate/protocol"
	"github.com/jpuleo/mcgate/wire"
)

// phase tracks the connection's place in the Handshake -> {Status,
// Login} -> Play state machine.
type phase int

const (
	phaseHandshake phase = iota
	phaseStatus
	phaseLogin
	phasePlay
)

func (p phase) String() string {
	switch p {
	case phaseHandshake:
		return "Handshake"
	case phaseStatus:
		return "Status"
	case phaseLogin:
		return "Login"
	case phasePlay:
		return "Play"
	default:
		return "Unknown"
	}
}

// DisconnectReason names why a connection was torn down.
type DisconnectReason string

const (
	ReasonStreamErrored        DisconnectReason = "StreamErrored"
	ReasonDisconnectedByServer DisconnectReason = "DisconnectedByServer"
	ReasonPeerClosed           DisconnectReason = "PeerClosed"
)

// Conn is the per-client state machine: it owns the client's socket,
// buffered input, handshake-declared identity and, once proxying, the
// attached upstream socket.
type Conn struct {
	id       wire.UUID
	netConn  net.Conn
	reader   *bufio.Reader
	listener *Listener
	log      *logrus.Entry

	state           phase
	protocolVersion int32
	username        string

	upstream net.Conn
}

func (l *Listener) serve(netConn net.Conn) {
	c := &Conn{
		id:       wire.NewUUID(),
		netConn:  netConn,
		reader:   bufio.NewReader(netConn),
		listener: l,
		state:    phaseHandshake,
	}
	c.log = logrus.WithFields(logrus.Fields{
		"component":   "connection",
		"remote_addr": netConn.RemoteAddr().String(),
	})

	l.register(c)
	defer l.unregister(c)
	defer c.netConn.Close()

	c.log.Debug("accepted")
	c.run()
}

// handle returns a weak, validate-on-use reference to c.
func (c *Conn) handle() *ClientHandle {
	return &ClientHandle{id: c.id, listener: c.listener}
}

// Username returns the identity declared at LoginStart; empty before
// the Login phase.
func (c *Conn) Username() string { return c.username }

// RemoteAddr returns the client's peer address.
func (c *Conn) RemoteAddr() net.Addr { return c.netConn.RemoteAddr() }

// run drives frames from the client until the stream closes or a
// fatal framer error occurs. Every ReadFrame call is this goroutine's
// suspension point.
func (c *Conn) run() {
	for {
		frame, err := ReadFrame(c.reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.log.WithField("reason", ReasonPeerClosed).Debug("peer closed connection")
			} else {
				c.log.WithError(err).WithField("reason", ReasonStreamErrored).Warn("stream errored, dropping connection")
			}
			return
		}

		if err := c.dispatch(frame); err != nil {
			if errors.Is(err, errDisconnected) {
				c.log.WithField("reason", ReasonDisconnectedByServer).Debug("disconnected")
			} else {
				c.log.WithError(err).Warn("dispatch failed, dropping connection")
			}
			return
		}

		if c.state == phasePlay {
			// Proxy mode: everything past this point is a raw byte
			// pipe: hand off to relay and stop decoding frames.
			c.relay()
			return
		}
	}
}

func (c *Conn) dispatch(frame *Frame) error {
	switch c.state {
	case phaseHandshake:
		return c.handleHandshake(frame)
	case phaseStatus:
		return c.handleStatus(frame)
	case phaseLogin:
		return c.handleLogin(frame)
	default:
		// Play/*: the taxonomy is declared but no record is decoded
		// inside the core; unknown Play IDs are logged and ignored.
		c.log.WithField("packet_id", int32(frame.ID)).Debug("ignoring undecoded Play packet")
		return nil
	}
}

func (c *Conn) handleHandshake(frame *Frame) error {
	pkt, err := protocol.Decode(protocol.Handshake, protocol.Serverbound, frame.ID, frame.Payload)
	if err != nil {
		c.log.WithError(err).Warn("malformed handshake packet, staying in Handshake")
		return nil
	}
	handshake, ok := pkt.(*protocol.HandshakePacket)
	if !ok {
		return nil
	}

	c.protocolVersion = int32(handshake.ProtocolVersion)

	switch handshake.NextState {
	case 1:
		c.state = phaseStatus
	case 2:
		c.state = phaseLogin
	default:
		c.log.WithField("next_state", int32(handshake.NextState)).Warn("invalid handshake next_state, staying in Handshake")
	}
	return nil
}

func (c *Conn) handleStatus(frame *Frame) error {
	pkt, err := protocol.Decode(protocol.Status, protocol.Serverbound, frame.ID, frame.Payload)
	if err != nil {
		c.log.WithError(err).Warn("unknown Status packet, dropped")
		return nil
	}

	switch p := pkt.(type) {
	case *protocol.StatusRequestPacket:
		payload := c.listener.hooks.OnRequestStatus(c.handle())
		if payload.Description == nil {
			payload = defaultStatusPayload(c.protocolVersion)
		}
		body, err := encodeStatusPayload(payload)
		if err != nil {
			return err
		}
		return WritePacket(c.netConn, &protocol.StatusResponsePacket{Payload: wire.String(body)})

	case *protocol.StatusPingPacket:
		return WritePacket(c.netConn, &protocol.StatusPongPacket{Value: p.Value})
	}
	return nil
}

func (c *Conn) handleLogin(frame *Frame) error {
	pkt, err := protocol.Decode(protocol.Login, protocol.Serverbound, frame.ID, frame.Payload)
	if err != nil {
		c.log.WithError(err).Warn("unknown Login packet, dropped")
		return nil
	}
	loginStart, ok := pkt.(*protocol.LoginStartPacket)
	if !ok {
		return nil
	}

	c.username = string(loginStart.Username)
	c.listener.hooks.OnRequestLogin(c.handle(), c.username)

	if c.listener.upstream == nil {
		return c.Disconnect(defaultLoginDisconnectReason())
	}

	if err := c.dialUpstream(*c.listener.upstream); err != nil {
		c.log.WithError(err).Warn("upstream dial failed")
		return c.Disconnect(chat.NewText("Unable to connect to the destination server."))
	}

	// The upstream answers the replayed LoginStart itself; its
	// LoginSuccess reaches the client through the relay.
	c.state = phasePlay
	return nil
}

// defaultLoginDisconnectReason is the friendly message sent when no
// upstream is configured.
func defaultLoginDisconnectReason() chat.Component {
	reason := chat.NewText("It works!")
	reason.Style().Color = chat.NewNamedColor(chat.Green)

	child := chat.NewText(" Good for you :^)")
	child.Style().Color = chat.NewNamedColor(chat.Yellow)
	reason.AppendChild(child)

	return reason
}

// Disconnect sends a Disconnect packet (only well-defined during
// Login) and tears the connection down. Calling it outside Login or
// Play is a programmer error; it is logged and ignored rather than
// aborting the process.
func (c *Conn) Disconnect(reason chat.Component) error {
	switch c.state {
	case phaseLogin:
		pkt, err := protocol.NewDisconnectPacket(reason)
		if err != nil {
			return err
		}
		if err := WritePacket(c.netConn, pkt); err != nil {
			return err
		}
	case phasePlay:
		c.log.Warn("Play-phase disconnect semantics are out of scope for this core")
	default:
		c.log.Errorf("Disconnect called in %v phase, which does not support it", c.state)
		return nil
	}

	data, _ := chat.Encode(reason)
	c.listener.hooks.OnClientDisconnect(c.handle(), string(data))
	return errDisconnected
}

// errDisconnected is returned by Disconnect to signal run() to stop
// dispatching after the Disconnect packet has already been sent.
var errDisconnected = errors.New("server: connection disconnected")
