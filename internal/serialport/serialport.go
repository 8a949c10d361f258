// Package serialport manages discovery and lifecycle of the serial
// link to the gauge display. A Manager enumerates ports, opens the
// first one it finds, and hands the session exclusive ownership; once
// a session faults the port is discarded and a fresh acquisition
// starts over. Port reuse is never attempted.
package serialport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/banshee-data/gaugesim/internal/monitoring"
)

// Porter is the minimal surface a session needs from a serial port.
// go.bug.st/serial.Port satisfies it; tests substitute a TestablePort.
type Porter interface {
	io.ReadWriteCloser
	// SetDTR raises or drops the data-terminal-ready signal. The
	// display sleeps until DTR is asserted.
	SetDTR(bool) error
	// SetReadTimeout bounds blocking reads. A timed-out read returns
	// zero bytes with no error.
	SetReadTimeout(time.Duration) error
}

// Options describes the serial connection parameters used when opening
// a port. The display link is 8N1 at a fixed rate, so only the rate
// and read timeout vary.
type Options struct {
	BaudRate    int
	ReadTimeout time.Duration
}

// DefaultOptions returns the parameters the display firmware expects.
func DefaultOptions() Options {
	return Options{
		BaudRate:    115200,
		ReadTimeout: 1000 * time.Millisecond,
	}
}

func (o Options) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: o.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Manager acquires serial ports for sessions. The enumeration and
// open functions are injectable so acquisition logic can be tested
// without hardware.
type Manager struct {
	path string // fixed port path; empty means take the first enumerated
	opts Options

	list func() ([]string, error)
	open func(path string, mode *serial.Mode) (Porter, error)
}

// NewManager returns a Manager opening the given path with opts. An
// empty path enumerates the system's serial ports and opens the first
// one found.
func NewManager(path string, opts Options) *Manager {
	return &Manager{
		path: path,
		opts: opts,
		list: serial.GetPortsList,
		open: func(path string, mode *serial.Mode) (Porter, error) {
			return serial.Open(path, mode)
		},
	}
}

// Acquire opens a port ready for a session: opened at the configured
// rate, read timeout applied, DTR asserted to wake the display. It
// returns (nil, nil) when no port is present yet; the caller backs off
// and retries.
func (m *Manager) Acquire() (Porter, error) {
	path := m.path
	if path == "" {
		ports, err := m.list()
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
		}
		if len(ports) == 0 {
			return nil, nil
		}
		for _, p := range ports {
			monitoring.Logf("found serial port %s", p)
		}
		path = ports[0]
	}

	port, err := m.open(path, m.opts.mode())
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", path, err)
	}

	if err := port.SetReadTimeout(m.opts.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", path, err)
	}
	if err := port.SetDTR(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to assert DTR on %s: %w", path, err)
	}

	monitoring.Logf("port %s opened", path)
	return port, nil
}
