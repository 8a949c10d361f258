// Package wire implements the newline-delimited message framing used
// on the serial link to the gauge display. A single reserved byte
// brackets every message: the first delimiter seen in a read cycle
// opens the frame, the next one closes it, and anything in between is
// the payload. Bytes arriving before the opening delimiter are
// discarded, which resynchronises the stream after a garbled or
// partial message.
package wire

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Delimiter is the reserved byte marking message boundaries.
const Delimiter byte = '\n'

// TransportError wraps an I/O failure on the underlying stream. It is
// fatal: the port that produced it must be abandoned.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// EncodingError reports a complete frame whose payload is not valid
// UTF-8. It is transient: the frame is dropped and the session keeps
// serving. Raw holds the offending bytes for diagnostics.
type EncodingError struct {
	Raw []byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("payload is not valid UTF-8: %q", e.Raw)
}

// IsFatal reports whether err requires abandoning the port. Only
// transport failures qualify; framing and decode errors are handled in
// place by the caller.
func IsFatal(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// MessageReader extracts delimiter-framed payloads from a byte
// stream. It carries unconsumed bytes between calls, so the transport
// may chunk reads however it likes; one byte per read and a whole
// message per read behave identically.
type MessageReader struct {
	r       io.Reader
	pending []byte
	chunk   []byte
}

// NewMessageReader returns a MessageReader framing messages from r.
func NewMessageReader(r io.Reader) *MessageReader {
	return &MessageReader{
		r:     r,
		chunk: make([]byte, 256),
	}
}

// ReadMessage blocks until one complete frame has been consumed and
// returns its payload. A read returning zero bytes (a transport
// timeout) is not end-of-stream; the reader keeps waiting. Failure
// modes: *TransportError on any I/O error, *EncodingError when the
// payload is not valid text.
func (m *MessageReader) ReadMessage() (string, error) {
	var payload []byte
	started := false

	for {
		for len(m.pending) > 0 {
			b := m.pending[0]
			m.pending = m.pending[1:]

			if b == Delimiter {
				if !started {
					started = true
					continue
				}
				if !utf8.Valid(payload) {
					return "", &EncodingError{Raw: payload}
				}
				return string(payload), nil
			}

			if started {
				payload = append(payload, b)
			}
			// bytes before the opening delimiter are discarded
		}

		n, err := m.r.Read(m.chunk)
		if err != nil {
			return "", &TransportError{Err: err}
		}
		m.pending = append(m.pending[:0], m.chunk[:n]...)
	}
}

// WriteMessage writes payload bracketed by delimiters on both sides,
// in a single write. The leading delimiter lets the peer's reader
// resynchronise even if the previous message was truncated. The
// payload must not contain the delimiter byte; the protocol codec
// emits compact JSON so this holds by construction.
func WriteMessage(w io.Writer, payload string) error {
	buf := make([]byte, 0, len(payload)+2)
	buf = append(buf, Delimiter)
	buf = append(buf, payload...)
	buf = append(buf, Delimiter)

	if _, err := w.Write(buf); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}
