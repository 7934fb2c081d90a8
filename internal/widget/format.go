package widget

import (
	"strconv"
	"strings"

	"github.com/cosyhome/cosy/internal/climate"
)

// Format renders a reading as the widget shows it, for example
// "18°C, just right: Temperature is just right. (humidity 62%, sensor
// cosy-homeoffice, at 2024-10-01T11:15:00Z)".
func Format(r *climate.TemperatureResponse) string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(r.Temperature, 'f', -1, 64))
	b.WriteString("°C, ")
	b.WriteString(r.Status.String())
	b.WriteString(": ")
	b.WriteString(r.Message)

	var extra []string
	if r.Humidity != nil {
		extra = append(extra, "humidity "+strconv.FormatFloat(*r.Humidity, 'f', -1, 64)+"%")
	}
	if r.SensorID != nil && *r.SensorID != "" {
		extra = append(extra, "sensor "+*r.SensorID)
	}
	if r.Timestamp != nil {
		extra = append(extra, "at "+r.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"))
	}
	if len(extra) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(extra, ", "))
		b.WriteString(")")
	}
	return b.String()
}
