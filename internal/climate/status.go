// Package climate classifies temperature readings against a comfort threshold
// and defines the wire contract served to the temperature widget.
package climate

import (
	"errors"
	"fmt"
)

// Status is the comfort classification of a temperature reading.
// The zero value is not a valid status.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusTooCold
	StatusTooWarm
	StatusJustRight
)

// Wire literals for each status. These are the only strings accepted or
// produced on the wire.
const (
	WireTooCold   = "too cold"
	WireTooWarm   = "too warm"
	WireJustRight = "just right"
)

// ErrUnknownStatus is returned when a string is not one of the wire literals.
var ErrUnknownStatus = errors.New("unknown status")

// Statuses lists every valid status.
var Statuses = []Status{StatusTooCold, StatusTooWarm, StatusJustRight}

// String returns the wire literal for the status.
func (s Status) String() string {
	switch s {
	case StatusTooCold:
		return WireTooCold
	case StatusTooWarm:
		return WireTooWarm
	case StatusJustRight:
		return WireJustRight
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the three classifications.
func (s Status) Valid() bool {
	return s == StatusTooCold || s == StatusTooWarm || s == StatusJustRight
}

// ParseStatus maps a wire literal to a Status. Matching is exact and
// case-sensitive.
func ParseStatus(v string) (Status, error) {
	switch v {
	case WireTooCold:
		return StatusTooCold, nil
	case WireTooWarm:
		return StatusTooWarm, nil
	case WireJustRight:
		return StatusJustRight, nil
	default:
		return StatusUnknown, fmt.Errorf("%w: %q", ErrUnknownStatus, v)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
