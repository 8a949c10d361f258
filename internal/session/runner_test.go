package session

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gaugesim/internal/gauges"
	"github.com/banshee-data/gaugesim/internal/serialport"
)

// scriptedSource yields a fixed sequence of ports, then none.
type scriptedSource struct {
	ports    []*serialport.TestablePort
	acquired int
}

func (s *scriptedSource) Acquire() (serialport.Porter, error) {
	if s.acquired >= len(s.ports) {
		return nil, nil
	}
	p := s.ports[s.acquired]
	s.acquired++
	return p, nil
}

func newTestRunner(source PortSource, backoff serialport.Backoff) *Runner {
	return &Runner{
		Source:  source,
		Backoff: backoff,
		Handler: gauges.NewHandler(rand.New(rand.NewSource(1))),
	}
}

func TestRunnerReacquiresAfterFault(t *testing.T) {
	first := serialport.NewTestablePort()
	second := serialport.NewTestablePort()
	source := &scriptedSource{ports: []*serialport.TestablePort{first, second}}

	r := newTestRunner(source, serialport.Backoff{Interval: time.Millisecond, MaxAttempts: 1})

	// Both ports fault immediately after the handshake (the default
	// exhausted-script read error), so the runner should burn through
	// both and then run out of acquisition attempts.
	err := r.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2, source.acquired)
	assert.True(t, first.Closed)
	assert.True(t, second.Closed)

	// Each session pushed its own handshake configuration.
	assert.Equal(t, wantConfiguration, string(first.Written()))
	assert.Equal(t, wantConfiguration, string(second.Written()))
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRunner(&scriptedSource{}, serialport.DefaultBackoff())
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
}

func TestRunnerBacksOffWhileAwaitingPort(t *testing.T) {
	source := &scriptedSource{}
	r := newTestRunner(source, serialport.Backoff{Interval: time.Millisecond, MaxAttempts: 3})

	start := time.Now()
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
}
