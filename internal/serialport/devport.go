package serialport

import (
	"io"
	"time"
)

// devRequestInterval is how often the loopback port asks for fresh
// gauge data in dev mode.
const devRequestInterval = 500 * time.Millisecond

type devPort struct {
	r *io.PipeReader
}

// NewDevPort returns a loopback port for bench runs without hardware.
// It behaves like a display that requests a data snapshot twice a
// second and silently accepts every reply.
func NewDevPort() Porter {
	r, w := io.Pipe()

	go func() {
		defer w.Close()
		ticker := time.NewTicker(devRequestInterval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := w.Write([]byte("\n{\"type\":2}\n")); err != nil {
				return
			}
		}
	}()

	return &devPort{r: r}
}

func (d *devPort) Read(p []byte) (int, error) { return d.r.Read(p) }

// Write discards the reply, as a real display consumes it silently.
func (d *devPort) Write(p []byte) (int, error) { return len(p), nil }

func (d *devPort) Close() error { return d.r.Close() }

func (d *devPort) SetDTR(bool) error { return nil }

func (d *devPort) SetReadTimeout(time.Duration) error { return nil }
