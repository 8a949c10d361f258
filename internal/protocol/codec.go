package protocol

import (
	"encoding/json"
	"fmt"
)

// Wire discriminants for the JSON "type" field.
const (
	inTypeNeedGaugeConfig = 1
	inTypeNeedGaugeData   = 2
	inTypeDebug           = 3

	outTypeConfiguration = 1
	outTypeData          = 2
)

// ProtocolError reports a frame that decoded as text but not as a
// known message: malformed JSON, a missing discriminant, or an
// unrecognised one. It is transient; the message is dropped and the
// session keeps serving. Source preserves the offending text so the
// peer can be diagnosed from logs.
type ProtocolError struct {
	Source string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v; source string: %s", e.Err, e.Source)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

type inEnvelope struct {
	Type    *int   `json:"type"`
	Message string `json:"message"`
}

type outEnvelope struct {
	Type    int `json:"type"`
	Message any `json:"message"`
}

// DecodeInMessage parses one framed payload into a request. An
// out-of-range discriminant is a local, typed failure rather than a
// process-terminating one.
func DecodeInMessage(payload string) (InMessage, error) {
	var env inEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, &ProtocolError{Source: payload, Err: err}
	}
	if env.Type == nil {
		return nil, &ProtocolError{Source: payload, Err: fmt.Errorf("missing message type")}
	}

	switch *env.Type {
	case inTypeNeedGaugeConfig:
		return NeedGaugeConfig{}, nil
	case inTypeNeedGaugeData:
		return NeedGaugeData{}, nil
	case inTypeDebug:
		return Debug{Message: env.Message}, nil
	default:
		return nil, &ProtocolError{Source: payload, Err: fmt.Errorf("unsupported message type %d", *env.Type)}
	}
}

// EncodeOutMessage serialises a reply to compact JSON with its
// discriminant. Field order follows struct declaration order, so
// repeated encodings of the same message are byte-identical.
func EncodeOutMessage(m OutMessage) (string, error) {
	var env outEnvelope
	switch v := m.(type) {
	case *ConfigurationMessage:
		env = outEnvelope{Type: outTypeConfiguration, Message: v.Message}
	case *DataMessage:
		env = outEnvelope{Type: outTypeData, Message: v.Message}
	default:
		return "", fmt.Errorf("unencodable message %T", m)
	}

	b, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to encode %T: %w", m, err)
	}
	return string(b), nil
}
