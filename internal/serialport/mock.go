package serialport

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

// TestablePort implements Porter with scripted behaviour for tests.
// Reads consume scripted chunks one per call, which gives tests full
// control over how the transport fragments the byte stream; an empty
// chunk models a timed-out read. Once the script is exhausted, Read
// reports ReadErr, or io.EOF when none is set.
type TestablePort struct {
	mu sync.Mutex

	reads    [][]byte
	writeBuf bytes.Buffer

	// ReadErr is returned by Read after the scripted chunks run out.
	ReadErr error

	// WriteErr is returned by every Write call while set.
	WriteErr error

	// CloseErr is returned by Close.
	CloseErr error

	// Closed reports whether Close was called.
	Closed bool

	// DTR records the last SetDTR value; DTRSet whether it was called.
	DTR    bool
	DTRSet bool

	// ReadTimeout records the last SetReadTimeout value.
	ReadTimeout time.Duration

	// ReadCalls and WriteCalls count invocations.
	ReadCalls  int
	WriteCalls int
}

// NewTestablePort returns an empty TestablePort; script reads with
// AddRead before use.
func NewTestablePort() *TestablePort {
	return &TestablePort{}
}

// AddRead appends one chunk to the read script. An empty chunk makes
// the corresponding Read return zero bytes without error.
func (t *TestablePort) AddRead(chunk []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reads = append(t.reads, chunk)
}

// AddReadBytes appends each byte of data as its own chunk, forcing
// one-byte-per-read framing.
func (t *TestablePort) AddReadBytes(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, b := range data {
		t.reads = append(t.reads, []byte{b})
	}
}

func (t *TestablePort) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ReadCalls++

	if t.Closed {
		return 0, errors.New("serial port closed")
	}
	if len(t.reads) == 0 {
		if t.ReadErr != nil {
			return 0, t.ReadErr
		}
		return 0, io.EOF
	}

	chunk := t.reads[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		t.reads[0] = chunk[n:]
	} else {
		t.reads = t.reads[1:]
	}
	return n, nil
}

func (t *TestablePort) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteCalls++

	if t.Closed {
		return 0, errors.New("serial port closed")
	}
	if t.WriteErr != nil {
		return 0, t.WriteErr
	}
	return t.writeBuf.Write(p)
}

func (t *TestablePort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Closed = true
	return t.CloseErr
}

// SetDTR records the requested DTR state.
func (t *TestablePort) SetDTR(dtr bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.DTR = dtr
	t.DTRSet = true
	return nil
}

// SetReadTimeout records the requested timeout.
func (t *TestablePort) SetReadTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ReadTimeout = timeout
	return nil
}

// Written returns everything written to the port so far.
func (t *TestablePort) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]byte, t.writeBuf.Len())
	copy(out, t.writeBuf.Bytes())
	return out
}
