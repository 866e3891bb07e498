package server

import (
	"fmt"
	"io"
	"net"

	"github.com/jpuleo/mcgate/protocol"
	"github.com/jpuleo/mcgate/wire"
)

// dialUpstream opens a fresh TCP connection to cfg, replays a
// synthesized Handshake (next_state=2) and the client's LoginStart,
// then leaves the socket attached to c for raw relaying.
func (c *Conn) dialUpstream(cfg UpstreamConfig) error {
	if cfg.Method != Unencrypted {
		return ErrConnectionMethodUnsupported
	}

	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	upstream, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: dialing upstream %s: %w", addr, err)
	}

	handshake := &protocol.HandshakePacket{
		ProtocolVersion: wire.VarInt(c.protocolVersion),
		ServerAddress:   wire.String(cfg.Address),
		ServerPort:      wire.UnsignedShort(cfg.Port),
		NextState:       2,
	}
	if err := WritePacket(upstream, handshake); err != nil {
		upstream.Close()
		return fmt.Errorf("server: replaying handshake to upstream: %w", err)
	}

	loginStart := &protocol.LoginStartPacket{Username: wire.String(c.username)}
	if err := WritePacket(upstream, loginStart); err != nil {
		upstream.Close()
		return fmt.Errorf("server: replaying login start to upstream: %w", err)
	}

	c.upstream = upstream
	return nil
}

// relay pipes raw bytes in both directions between the client and the
// upstream connection until either side closes. The core does not
// reinterpret Play packets; this is the only place two suspension
// points exist on the same connection (one per direction), which Go
// expresses as two goroutines each blocked in io.Copy.
func (c *Conn) relay() {
	defer c.upstream.Close()

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(c.upstream, c.reader)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(c.netConn, c.upstream)
		done <- struct{}{}
	}()
	<-done
}
