package climate

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors matched by DecodeError via errors.Is.
var (
	ErrInvalidTemperature = errors.New("invalid temperature")
	ErrInvalidStatus      = errors.New("invalid status")
)

// DecodeKind identifies which part of the contract a payload violated.
type DecodeKind int

const (
	// InvalidTemperature means the temperature could not be coerced to a
	// finite number.
	InvalidTemperature DecodeKind = iota + 1
	// InvalidStatusContract means the status/message pair is malformed.
	InvalidStatusContract
)

func (k DecodeKind) String() string {
	switch k {
	case InvalidTemperature:
		return "InvalidTemperature"
	case InvalidStatusContract:
		return "InvalidStatusContract"
	default:
		return "Unknown"
	}
}

// DecodeError is returned by Decode when a payload cannot be turned into a
// TemperatureResponse.
type DecodeError struct {
	Kind   DecodeKind
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	msg := e.Unwrap().Error()
	if e.Reason != "" {
		msg += ": " + e.Field + " " + e.Reason
	}
	return msg
}

// Unwrap returns ErrInvalidTemperature or ErrInvalidStatus.
func (e *DecodeError) Unwrap() error {
	if e.Kind == InvalidTemperature {
		return ErrInvalidTemperature
	}
	return ErrInvalidStatus
}

// DecodeJSON parses raw response bytes and decodes them with Decode.
// Bytes that are not JSON at all fail as an invalid temperature, since no
// field of the payload can be read.
func DecodeJSON(data []byte) (*TemperatureResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, &DecodeError{Kind: InvalidTemperature, Field: "payload", Reason: "is not valid JSON"}
	}
	return Decode(payload)
}

// Decode validates an untyped payload and normalizes it into a
// TemperatureResponse.
//
// Each field has its own policy: temperature is coerced to a finite number,
// status and message are checked strictly, and timestamp, humidity and
// sensorId fall back to nil instead of failing.
func Decode(payload any) (*TemperatureResponse, error) {
	fields, _ := payload.(map[string]any)

	temperature, err := decodeTemperature(fields["temperature"])
	if err != nil {
		return nil, err
	}

	status, message, err := decodeStatusContract(fields["status"], fields["message"])
	if err != nil {
		return nil, err
	}

	return &TemperatureResponse{
		Temperature: temperature,
		Humidity:    optionalNumber(fields["humidity"]),
		Timestamp:   optionalTimestamp(fields["timestamp"]),
		SensorID:    optionalString(fields["sensorId"]),
		Status:      status,
		Message:     message,
	}, nil
}

// decodeTemperature coerces numbers and numeric strings. Anything that does
// not end up finite is rejected. null, "" and booleans are rejected rather
// than read as 0 or 1.
func decodeTemperature(v any) (float64, error) {
	f, ok := coerceNumber(v)
	if !ok {
		return 0, &DecodeError{Kind: InvalidTemperature, Field: "temperature", Reason: "is not a number"}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &DecodeError{Kind: InvalidTemperature, Field: "temperature", Reason: "is not finite"}
	}
	return f, nil
}

// decodeStatusContract checks the status literal and its message as a unit.
func decodeStatusContract(rawStatus, rawMessage any) (Status, string, error) {
	s, ok := rawStatus.(string)
	if !ok {
		return StatusUnknown, "", &DecodeError{Kind: InvalidStatusContract, Field: "status", Reason: "is missing"}
	}
	status, err := ParseStatus(s)
	if err != nil {
		return StatusUnknown, "", &DecodeError{Kind: InvalidStatusContract, Field: "status", Reason: "is not recognized"}
	}
	message, ok := rawMessage.(string)
	if !ok {
		return StatusUnknown, "", &DecodeError{Kind: InvalidStatusContract, Field: "message", Reason: "is not a string"}
	}
	return status, message, nil
}

func coerceNumber(v any) (float64, bool) {
	if f, ok := numberValue(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numberValue accepts values that are already numeric. Strings are not.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func optionalNumber(v any) *float64 {
	f, ok := numberValue(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// maxEpochMillis is the ECMAScript Date range, ±100,000,000 days.
const maxEpochMillis = 8.64e15

// optionalTimestamp parses ISO-8601 strings and epoch milliseconds. Anything
// else, including unparseable strings, yields nil.
func optionalTimestamp(v any) *time.Time {
	var t time.Time
	switch raw := v.(type) {
	case string:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		parsed, ok := parseTimestamp(raw)
		if !ok {
			return nil
		}
		t = parsed
	default:
		ms, ok := numberValue(v)
		if !ok || ms == 0 || math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
			return nil
		}
		t = time.UnixMilli(int64(ms))
	}
	return normalizeTime(&t)
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
