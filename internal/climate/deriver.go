package climate

import "math"

// DefaultThreshold is the comfort point in degrees Celsius.
const DefaultThreshold = 18.0

// Messages shown to the user for each classification.
const (
	MessageInvalidReading = "Invalid temperature reading."
	MessageTooCold        = "It is too cold, you should turn on the heater."
	MessageTooWarm        = "It is too warm, you should turn off the heater."
	MessageJustRight      = "Temperature is just right."
)

// Result is a classification together with its user-facing message.
type Result struct {
	Status  Status
	Message string
}

// DeriveStatus classifies temperature against threshold.
//
// A NaN reading is reported as too cold so the widget always has an
// actionable status; it is never an error. Equality is exact, with no
// tolerance, and ties are just right.
func DeriveStatus(temperature, threshold float64) Result {
	switch {
	case math.IsNaN(temperature):
		return Result{Status: StatusTooCold, Message: MessageInvalidReading}
	case temperature < threshold:
		return Result{Status: StatusTooCold, Message: MessageTooCold}
	case temperature > threshold:
		return Result{Status: StatusTooWarm, Message: MessageTooWarm}
	default:
		return Result{Status: StatusJustRight, Message: MessageJustRight}
	}
}

// Deriver classifies readings against a fixed threshold.
type Deriver struct {
	threshold float64
}

// NewDeriver creates a Deriver for the given threshold.
func NewDeriver(threshold float64) *Deriver {
	return &Deriver{threshold: threshold}
}

// Threshold returns the configured comfort point.
func (d *Deriver) Threshold() float64 {
	return d.threshold
}

// Derive classifies temperature against the configured threshold.
func (d *Deriver) Derive(temperature float64) Result {
	return DeriveStatus(temperature, d.threshold)
}
