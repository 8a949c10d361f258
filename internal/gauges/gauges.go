// Package gauges produces the gauge configuration and simulated
// readings served to the display. The bench deployment is fixed:
// coolant temperature on display1, oil pressure on display2, display3
// unused.
package gauges

import (
	"math/rand"
	"time"

	"github.com/banshee-data/gaugesim/internal/monitoring"
	"github.com/banshee-data/gaugesim/internal/protocol"
)

// Peak simulated readings. Both gauges are driven from one shared
// random factor per snapshot, so they move in lockstep; this is a
// deliberate simplification, not a sensor model.
const (
	coolantPeakC = 77.0
	oilPeakBar   = 6.5
)

// Handler maps display requests to replies. It is pure apart from
// logging and the random source used for data snapshots.
type Handler struct {
	rng *rand.Rand
}

// NewHandler returns a Handler drawing simulated readings from rng. A
// nil rng gets a time-seeded source; tests pass a fixed seed for
// reproducible values.
func NewHandler(rng *rand.Rand) *Handler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Handler{rng: rng}
}

// Handle answers one request. A nil result means the request takes no
// reply; callers must treat that as "nothing to write", not as an
// error.
func (h *Handler) Handle(m protocol.InMessage) protocol.OutMessage {
	switch v := m.(type) {
	case protocol.NeedGaugeConfig:
		return &protocol.ConfigurationMessage{Message: Configuration()}
	case protocol.NeedGaugeData:
		factor := h.rng.Float32()
		return &protocol.DataMessage{Message: protocol.Data{
			Display1: protocol.DisplayData{Gauges: []protocol.GaugeData{
				{CurrentValue: coolantPeakC * factor},
			}},
			Display2: protocol.DisplayData{Gauges: []protocol.GaugeData{
				{CurrentValue: oilPeakBar * factor},
			}},
			Display3: protocol.DisplayData{Gauges: []protocol.GaugeData{}},
		}}
	case protocol.Debug:
		monitoring.Logf("debug from display: %s", v.Message)
		return nil
	}
	return nil
}

// Configuration returns the static bench setup. It is identical for
// the lifetime of the process; the display infers its schema from it
// once, so data snapshots must keep the same display and gauge arity.
func Configuration() protocol.Configuration {
	return protocol.Configuration{
		Theme: protocol.DefaultTheme(),
		Display1: protocol.DisplayConfiguration{Gauges: []protocol.GaugeConfig{
			{
				Name:      "COOLANT",
				Units:     "C",
				Format:    "%.0f",
				Min:       0,
				Max:       130,
				LowValue:  60,
				HighValue: 100,
			},
		}},
		Display2: protocol.DisplayConfiguration{Gauges: []protocol.GaugeConfig{
			{
				Name:      "OIL",
				Units:     "bar",
				Format:    "%.2f",
				Min:       0,
				Max:       10,
				LowValue:  1,
				HighValue: 8,
			},
		}},
		Display3: protocol.DisplayConfiguration{Gauges: []protocol.GaugeConfig{}},
	}
}
