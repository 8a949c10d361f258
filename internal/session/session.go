// Package session runs the request/response protocol for one open
// serial port. A session moves through a fixed set of states:
//
//	AwaitingPort -> Handshaking -> Serving -> Faulted -> AwaitingPort
//
// AwaitingPort and the return edge belong to the Runner, which owns
// port acquisition; a Session covers the life of one port from
// handshake to fatal error. Error classification is the load-bearing
// contract here: transport failures are fatal and cost the port,
// while garbled or unrecognised messages are logged and absorbed
// without leaving Serving.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/gaugesim/internal/gauges"
	"github.com/banshee-data/gaugesim/internal/monitoring"
	"github.com/banshee-data/gaugesim/internal/protocol"
	"github.com/banshee-data/gaugesim/internal/serialport"
	"github.com/banshee-data/gaugesim/internal/wire"
)

// State identifies a session's position in its lifecycle.
type State int

const (
	AwaitingPort State = iota
	Handshaking
	Serving
	Faulted
)

func (s State) String() string {
	switch s {
	case AwaitingPort:
		return "AwaitingPort"
	case Handshaking:
		return "Handshaking"
	case Serving:
		return "Serving"
	case Faulted:
		return "Faulted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session owns one open port exclusively from handshake to fatal
// error. It is single-threaded: one blocking read, then one blocking
// write, never overlapped.
type Session struct {
	id      string
	port    serialport.Porter
	reader  *wire.MessageReader
	handler *gauges.Handler
	state   State
}

// New wraps an acquired port in a session ready to handshake.
func New(port serialport.Porter, handler *gauges.Handler) *Session {
	return &Session{
		id:      uuid.New().String(),
		port:    port,
		reader:  wire.NewMessageReader(port),
		handler: handler,
		state:   Handshaking,
	}
}

// ID returns the session's correlation ID for logs.
func (s *Session) ID() string { return s.id }

// State returns the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// Handshake pushes the initial configuration to the display. The
// display never sends a hello, so the session synthesizes a single
// NeedGaugeConfig without touching the transport and answers it as if
// it had arrived on the wire. On success the session is Serving.
func (s *Session) Handshake() error {
	if s.state != Handshaking {
		return fmt.Errorf("handshake attempted in state %s", s.state)
	}
	if err := s.respond(protocol.NeedGaugeConfig{}); err != nil {
		return err
	}
	s.state = Serving
	return nil
}

// ServeOne handles one inbound frame: read, decode, dispatch, and
// write the reply if the request takes one. Garbled frames and
// unrecognised messages are logged and absorbed — the wire is intact,
// only the message was bad. A non-nil return always means a transport
// fault.
func (s *Session) ServeOne() error {
	payload, err := s.reader.ReadMessage()
	if err != nil {
		if wire.IsFatal(err) {
			return err
		}
		monitoring.Logf("session %s: dropping frame: %v", s.id, err)
		return nil
	}

	req, err := protocol.DecodeInMessage(payload)
	if err != nil {
		monitoring.Logf("session %s: dropping message: %v", s.id, err)
		return nil
	}

	monitoring.Logf("session %s: received %s", s.id, req)
	return s.respond(req)
}

// Run drives the session until the transport fails. The port is
// closed and must not be reused afterwards; the caller acquires a
// fresh one.
func (s *Session) Run() error {
	if err := s.Handshake(); err != nil {
		return s.fault(err)
	}
	for {
		if err := s.ServeOne(); err != nil {
			return s.fault(err)
		}
	}
}

// respond dispatches a request and writes the reply, if any. A nil
// reply means the request takes none; that is not an error and
// nothing is written.
func (s *Session) respond(req protocol.InMessage) error {
	out := s.handler.Handle(req)
	if out == nil {
		return nil
	}

	payload, err := protocol.EncodeOutMessage(out)
	if err != nil {
		// Our own structs failed to serialise; the wire is fine, so
		// drop the reply rather than the port.
		monitoring.Logf("session %s: dropping reply: %v", s.id, err)
		return nil
	}

	monitoring.Logf("session %s: sending %s", s.id, payload)
	return wire.WriteMessage(s.port, payload)
}

// fault transitions to Faulted and discards the port unconditionally.
func (s *Session) fault(err error) error {
	s.state = Faulted
	monitoring.Logf("session %s: %v; abandoning port", s.id, err)
	if cerr := s.port.Close(); cerr != nil {
		monitoring.Logf("session %s: error closing port: %v", s.id, cerr)
	}
	return err
}
