// Package server implements the connection framer, the per-client
// phase state machine and the listener plus transparent proxy. The
// listener runs one goroutine per accepted connection; each goroutine
// blocks only at its framer reads (the client socket, and the
// upstream socket once proxying), so the runtime schedules across
// these blocking reads the same way an event loop would resume a
// connection object on readability.
package server

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jpuleo/mcgate/wire"
)

// ConnectionMethod names how a proxied session authenticates itself
// to the upstream server. Only Unencrypted has behavior; Velocity and
// BungeeCord are reserved tags.
type ConnectionMethod int

const (
	Unencrypted ConnectionMethod = iota
	Velocity
	BungeeCord
)

// ErrConnectionMethodUnsupported is returned when a proxy dial is
// attempted with a connection method the core does not implement.
var ErrConnectionMethodUnsupported = errors.New("server: connection method not implemented")

// UpstreamConfig describes the optional backend a Login session is
// transparently piped to.
type UpstreamConfig struct {
	Address string
	Port    uint16
	Method  ConnectionMethod
}

// Hooks lets an external collaborator (e.g. a scripting host)
// customize status responses and observe login/disconnect events.
// Hook methods run on the connection's own serving goroutine and must
// not block.
type Hooks interface {
	OnRequestStatus(handle *ClientHandle) StatusPayload
	OnRequestLogin(handle *ClientHandle, username string)
	OnClientDisconnect(handle *ClientHandle, reason string)
}

// noopHooks is used when no Hooks implementation is registered, so
// status requests fall back to the synthesized default payload.
type noopHooks struct{}

func (noopHooks) OnRequestStatus(*ClientHandle) StatusPayload { return StatusPayload{} }
func (noopHooks) OnRequestLogin(*ClientHandle, string)        {}
func (noopHooks) OnClientDisconnect(*ClientHandle, string)    {}

// Listener accepts TCP connections, drives each through the
// Handshake/Status/Login state machine, and owns the registry of live
// connections that ClientHandle resolves against.
type Listener struct {
	addr     string
	upstream *UpstreamConfig
	hooks    Hooks
	log      *logrus.Entry

	registry sync.Map // wire.UUID -> *Conn
}

// DefaultPort is the standard Minecraft Java Edition server port.
const DefaultPort = 25565

// NewListener creates a Listener bound to addr (host:port). An empty
// addr binds every interface on DefaultPort.
func NewListener(addr string) *Listener {
	if addr == "" {
		addr = fmt.Sprintf(":%d", DefaultPort)
	}
	return &Listener{
		addr:  addr,
		hooks: noopHooks{},
		log:   logrus.WithField("component", "listener"),
	}
}

// SetHooks registers the scripting-host collaborator. Passing nil
// restores the built-in default behavior.
func (l *Listener) SetHooks(h Hooks) {
	if h == nil {
		h = noopHooks{}
	}
	l.hooks = h
}

// SetUpstream configures proxy mode: once a client's LoginStart is
// received, the session is dialed through to this backend and from
// then on relayed as a raw byte pipe.
func (l *Listener) SetUpstream(cfg UpstreamConfig) {
	l.upstream = &cfg
}

// ListenAndServe binds addr and accepts connections. It returns an
// error only if binding fails; accept errors are logged and accepting
// continues.
func (l *Listener) ListenAndServe() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", l.addr, err)
	}
	defer ln.Close()

	l.log.WithField("addr", l.addr).Info("listening")

	for {
		netConn, err := ln.Accept()
		if err != nil {
			l.log.WithError(err).Warn("accept failed")
			continue
		}
		go l.serve(netConn)
	}
}

// ClientHandle is a non-owning, validate-on-use reference to a
// connection. Hooks receive a handle rather than a raw *Conn so they
// cannot extend a disconnected connection's lifetime by holding onto
// it.
type ClientHandle struct {
	id       wire.UUID
	listener *Listener
}

// Resolve looks the handle up in the listener's registry. It returns
// (nil, false) once the connection has disconnected.
func (h *ClientHandle) Resolve() (*Conn, bool) {
	v, ok := h.listener.registry.Load(h.id)
	if !ok {
		return nil, false
	}
	return v.(*Conn), true
}

func (l *Listener) register(c *Conn) {
	l.registry.Store(c.id, c)
}

// unregister removes c from the registry. Callers must only invoke it
// from c's own serving goroutine, after that goroutine is done
// dispatching for c; no other goroutine touches c's registry entry,
// so removal cannot race a handler still running for c.
func (l *Listener) unregister(c *Conn) {
	l.registry.Delete(c.id)
}
