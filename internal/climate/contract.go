package climate

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the wire format of TemperatureResponse.Timestamp:
// ISO-8601, millisecond precision, always UTC with a Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// TemperatureResponse is the payload served by GET /api/temperature and
// reconstructed by Decode on the client side.
//
// Values built by NewTemperatureResponse or Decode never carry a non-finite
// temperature, an unknown status or an unparseable timestamp.
type TemperatureResponse struct {
	Temperature float64
	Humidity    *float64
	Timestamp   *time.Time
	SensorID    *string
	Status      Status
	Message     string
}

type wireResponse struct {
	Temperature float64  `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Timestamp   *string  `json:"timestamp"`
	SensorID    *string  `json:"sensorId"`
	Status      Status   `json:"status"`
	Message     string   `json:"message"`
}

// NewTemperatureResponse assembles a response from reading fields and the
// derived classification. The timestamp is normalized to UTC at millisecond
// precision so that it survives a round trip through the wire format.
func NewTemperatureResponse(temperature float64, humidity *float64, ts *time.Time, sensorID *string, result Result) *TemperatureResponse {
	return &TemperatureResponse{
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   normalizeTime(ts),
		SensorID:    sensorID,
		Status:      result.Status,
		Message:     result.Message,
	}
}

// MarshalJSON implements json.Marshaler using the wire field names.
func (r TemperatureResponse) MarshalJSON() ([]byte, error) {
	w := wireResponse{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		SensorID:    r.SensorID,
		Status:      r.Status,
		Message:     r.Message,
	}
	if r.Timestamp != nil {
		s := r.Timestamp.UTC().Format(TimestampLayout)
		w.Timestamp = &s
	}
	return json.Marshal(w)
}

// normalizeTime returns ts in UTC at millisecond precision, or nil when it
// cannot be written as a four-digit-year ISO-8601 timestamp.
func normalizeTime(ts *time.Time) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.UTC().Truncate(time.Millisecond)
	if t.Year() < 0 || t.Year() > 9999 {
		return nil
	}
	return &t
}
