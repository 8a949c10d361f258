package session

import (
	"context"
	"fmt"

	"github.com/banshee-data/gaugesim/internal/gauges"
	"github.com/banshee-data/gaugesim/internal/monitoring"
	"github.com/banshee-data/gaugesim/internal/serialport"
)

// PortSource yields ports for sessions to consume.
// *serialport.Manager is the production implementation.
type PortSource interface {
	// Acquire returns an open port, or (nil, nil) when none is
	// available yet.
	Acquire() (serialport.Porter, error)
}

// Runner is the AwaitingPort side of the state machine: it acquires a
// port, hands it to a session, and once the session faults backs off
// and starts over. One port, one session at a time.
type Runner struct {
	Source  PortSource
	Backoff serialport.Backoff
	Handler *gauges.Handler
}

// Run cycles acquisition and sessions until ctx is cancelled or the
// backoff's attempt budget runs out.
func (r *Runner) Run(ctx context.Context) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		port, err := r.Source.Acquire()
		if port == nil {
			if err != nil {
				monitoring.Logf("port acquisition failed: %v", err)
			} else {
				monitoring.Logf("waiting for port...")
			}
			attempt++
			if !r.Backoff.Wait(ctx, attempt) {
				if err := ctx.Err(); err != nil {
					return err
				}
				return fmt.Errorf("no serial port after %d attempts", attempt)
			}
			continue
		}
		attempt = 0

		sess := New(port, r.Handler)
		monitoring.Logf("session %s: starting", sess.ID())

		// Blocking reads are only released by the transport, so close
		// the port on cancellation to let the session fault out.
		stop := context.AfterFunc(ctx, func() { port.Close() })
		if err := sess.Run(); err != nil {
			monitoring.Logf("session %s: ended: %v", sess.ID(), err)
		}
		stop()
	}
}
