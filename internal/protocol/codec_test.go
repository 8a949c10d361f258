package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInMessage(t *testing.T) {
	t.Parallel()

	t.Run("decodes gauge config request", func(t *testing.T) {
		t.Parallel()
		m, err := DecodeInMessage(`{"type":1}`)
		require.NoError(t, err)
		assert.Equal(t, NeedGaugeConfig{}, m)
	})

	t.Run("decodes gauge data request", func(t *testing.T) {
		t.Parallel()
		m, err := DecodeInMessage(`{"type":2}`)
		require.NoError(t, err)
		assert.Equal(t, NeedGaugeData{}, m)
	})

	t.Run("decodes debug message", func(t *testing.T) {
		t.Parallel()
		m, err := DecodeInMessage(`{"type":3,"message":"booting v1.2"}`)
		require.NoError(t, err)
		assert.Equal(t, Debug{Message: "booting v1.2"}, m)
	})

	t.Run("rejects unknown discriminant without panicking", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeInMessage(`{"type":9}`)
		require.Error(t, err)

		var pe *ProtocolError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, `{"type":9}`, pe.Source)
		assert.Contains(t, err.Error(), "unsupported message type 9")
	})

	t.Run("rejects missing discriminant", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeInMessage(`{}`)
		var pe *ProtocolError
		require.ErrorAs(t, err, &pe)
	})

	t.Run("rejects malformed JSON with source preserved", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeInMessage(`not json at all`)
		var pe *ProtocolError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "not json at all", pe.Source)
	})

	t.Run("rejects non-integer discriminant", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeInMessage(`{"type":"config"}`)
		var pe *ProtocolError
		require.ErrorAs(t, err, &pe)
	})
}

func TestEncodeOutMessage(t *testing.T) {
	t.Parallel()

	t.Run("configuration envelope with fixed field order", func(t *testing.T) {
		t.Parallel()
		m := &ConfigurationMessage{Message: Configuration{
			Theme: DefaultTheme(),
			Display1: DisplayConfiguration{Gauges: []GaugeConfig{
				{Name: "RPM", Units: "x1000", Format: "%.1f", Min: 0, Max: 9, LowValue: 1, HighValue: 7},
			}},
			Display2: DisplayConfiguration{Gauges: []GaugeConfig{}},
			Display3: DisplayConfiguration{Gauges: []GaugeConfig{}},
		}}

		got, err := EncodeOutMessage(m)
		require.NoError(t, err)
		assert.Equal(t,
			`{"type":1,"message":{"theme":{"ok_color":64512,"low_color":31,"high_color":63488,"alert_color":63488},`+
				`"display1":{"gauges":[{"name":"RPM","units":"x1000","format":"%.1f","min":0,"max":9,"low_value":1,"high_value":7}]},`+
				`"display2":{"gauges":[]},"display3":{"gauges":[]}}}`,
			got)
	})

	t.Run("data envelope serialises empty displays as empty arrays", func(t *testing.T) {
		t.Parallel()
		m := &DataMessage{Message: Data{
			Display1: DisplayData{Gauges: []GaugeData{{CurrentValue: 42.5}}},
			Display2: DisplayData{Gauges: []GaugeData{}},
			Display3: DisplayData{Gauges: []GaugeData{}},
		}}

		got, err := EncodeOutMessage(m)
		require.NoError(t, err)
		assert.Equal(t,
			`{"type":2,"message":{"display1":{"gauges":[{"current_value":42.5}]},`+
				`"display2":{"gauges":[]},"display3":{"gauges":[]}}}`,
			got)
	})

	t.Run("encoding is deterministic", func(t *testing.T) {
		t.Parallel()
		m := &ConfigurationMessage{Message: Configuration{
			Theme:    DefaultTheme(),
			Display1: DisplayConfiguration{Gauges: []GaugeConfig{}},
			Display2: DisplayConfiguration{Gauges: []GaugeConfig{}},
			Display3: DisplayConfiguration{Gauges: []GaugeConfig{}},
		}}

		first, err := EncodeOutMessage(m)
		require.NoError(t, err)
		second, err := EncodeOutMessage(m)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("payload carries no embedded delimiter", func(t *testing.T) {
		t.Parallel()
		m := &DataMessage{Message: Data{
			Display1: DisplayData{Gauges: []GaugeData{}},
			Display2: DisplayData{Gauges: []GaugeData{}},
			Display3: DisplayData{Gauges: []GaugeData{}},
		}}
		got, err := EncodeOutMessage(m)
		require.NoError(t, err)
		assert.NotContains(t, got, "\n")
	})
}

func TestProtocolErrorUnwraps(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	err := &ProtocolError{Source: "src", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "src")
}
