// Package protocol defines the JSON messages exchanged with the gauge
// display and the envelope codec that moves them on and off the wire.
//
// Every message travels as a compact JSON object with an integer
// "type" discriminant. Inbound: 1 requests the gauge configuration,
// 2 requests fresh gauge data, 3 is an informational debug line that
// receives no reply. Outbound: 1 is a Configuration, 2 is a Data
// snapshot. Member ordering on outbound messages is fixed so the
// display can rely on byte-stable configuration payloads.
package protocol

import (
	"fmt"
	"math"
)

// RGB565 packed colors understood by the display firmware.
const (
	ColorBlack   uint16 = 0x0000
	ColorBlue    uint16 = 0x001F
	ColorRed     uint16 = 0xF800
	ColorGreen   uint16 = 0x07E0
	ColorCyan    uint16 = 0x07FF
	ColorMagenta uint16 = 0xF81F
	ColorYellow  uint16 = 0xFFE0
	ColorWarm    uint16 = 0xFC00
	ColorWhite   uint16 = 0xFFFF
)

// OfflineValue marks a gauge whose sensor is not reporting. Reserved
// on the wire; nothing emits it yet.
const OfflineValue float32 = math.MaxFloat32

// Theme holds the four colors a display applies to every gauge.
type Theme struct {
	OkColor    uint16 `json:"ok_color"`
	LowColor   uint16 `json:"low_color"`
	HighColor  uint16 `json:"high_color"`
	AlertColor uint16 `json:"alert_color"`
}

// DefaultTheme is the theme shipped to every display.
func DefaultTheme() Theme {
	return Theme{
		OkColor:    ColorWarm,
		LowColor:   ColorBlue,
		HighColor:  ColorRed,
		AlertColor: ColorRed,
	}
}

// GaugeConfig describes one gauge: label, units, printf-style value
// format, range, and the thresholds between the low/ok/high bands.
type GaugeConfig struct {
	Name      string  `json:"name"`
	Units     string  `json:"units"`
	Format    string  `json:"format"`
	Min       float32 `json:"min"`
	Max       float32 `json:"max"`
	LowValue  float32 `json:"low_value"`
	HighValue float32 `json:"high_value"`
}

// GaugeData carries the current reading for one gauge.
type GaugeData struct {
	CurrentValue float32 `json:"current_value"`
}

// DisplayConfiguration lists the gauges hosted on one display, in
// render order. The slice must be non-nil so an empty display
// serialises as [] rather than null.
type DisplayConfiguration struct {
	Gauges []GaugeConfig `json:"gauges"`
}

// DisplayData mirrors DisplayConfiguration with one reading per
// configured gauge, in the same order.
type DisplayData struct {
	Gauges []GaugeData `json:"gauges"`
}

// Configuration is the full static setup for the three displays. The
// deployment always has exactly three; unused ones carry no gauges.
type Configuration struct {
	Theme    Theme                `json:"theme"`
	Display1 DisplayConfiguration `json:"display1"`
	Display2 DisplayConfiguration `json:"display2"`
	Display3 DisplayConfiguration `json:"display3"`
}

// Data is one snapshot of readings for the three displays. Its
// display and gauge arity must match the most recently sent
// Configuration; the display infers its schema once at configuration
// time.
type Data struct {
	Display1 DisplayData `json:"display1"`
	Display2 DisplayData `json:"display2"`
	Display3 DisplayData `json:"display3"`
}

// InMessage is the closed set of requests a display can send. The
// unexported method keeps the set sealed so dispatch switches stay
// exhaustive.
type InMessage interface {
	fmt.Stringer
	inMessage()
}

// NeedGaugeConfig asks for the static gauge configuration.
type NeedGaugeConfig struct{}

func (NeedGaugeConfig) inMessage()     {}
func (NeedGaugeConfig) String() string { return "NeedGaugeConfig" }

// NeedGaugeData asks for a fresh data snapshot.
type NeedGaugeData struct{}

func (NeedGaugeData) inMessage()     {}
func (NeedGaugeData) String() string { return "NeedGaugeData" }

// Debug carries a free-text diagnostic line from the display. It is
// informational and never answered.
type Debug struct {
	Message string
}

func (Debug) inMessage()       {}
func (d Debug) String() string { return fmt.Sprintf("Debug(%s)", d.Message) }

// OutMessage is the closed set of replies the simulator can send.
type OutMessage interface {
	outMessage()
}

// ConfigurationMessage wraps a Configuration for the wire.
type ConfigurationMessage struct {
	Message Configuration
}

func (*ConfigurationMessage) outMessage() {}

// DataMessage wraps a Data snapshot for the wire.
type DataMessage struct {
	Message Data
}

func (*DataMessage) outMessage() {}
