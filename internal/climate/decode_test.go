package climate_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosyhome/cosy/internal/climate"
)

func ptr[T any](v T) *T { return &v }

func requireDecodeKind(t *testing.T, err error, kind climate.DecodeKind) {
	t.Helper()
	var decErr *climate.DecodeError
	require.True(t, errors.As(err, &decErr), "expected *climate.DecodeError, got %T", err)
	assert.Equal(t, kind, decErr.Kind)
}

func TestDecode_ValidPayload(t *testing.T) {
	got, err := climate.Decode(map[string]any{
		"temperature": 17.9,
		"humidity":    65.0,
		"timestamp":   "2024-10-01T12:45:00Z",
		"sensorId":    "cosy-homeoffice",
		"status":      "too cold",
		"message":     "It is too cold, you should turn on the heater.",
	})
	require.NoError(t, err)

	assert.Equal(t, 17.9, got.Temperature)
	require.NotNil(t, got.Humidity)
	assert.Equal(t, 65.0, *got.Humidity)
	require.NotNil(t, got.Timestamp)
	assert.True(t, got.Timestamp.Equal(time.Date(2024, 10, 1, 12, 45, 0, 0, time.UTC)))
	assert.Equal(t, ptr("cosy-homeoffice"), got.SensorID)
	assert.Equal(t, climate.StatusTooCold, got.Status)
	assert.Equal(t, "It is too cold, you should turn on the heater.", got.Message)
}

func TestDecode_MissingTemperature(t *testing.T) {
	_, err := climate.Decode(map[string]any{"status": "too cold", "message": "x"})

	requireDecodeKind(t, err, climate.InvalidTemperature)
	assert.ErrorIs(t, err, climate.ErrInvalidTemperature)
}

func TestDecode_InvalidTemperatureValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"non-numeric string", "warm"},
		{"empty string", ""},
		{"percent string", "21%"},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"Infinity string", "Infinity"},
		{"NaN string", "NaN"},
		{"bool", true},
		{"object", map[string]any{"value": 21}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := climate.Decode(map[string]any{
				"temperature": tc.value,
				"status":      "too cold",
				"message":     "m",
			})
			requireDecodeKind(t, err, climate.InvalidTemperature)
		})
	}
}

func TestDecode_TemperatureIsCoerced(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float", 22.1, 22.1},
		{"int", 20, 20},
		{"numeric string", "22.1", 22.1},
		{"padded string", " 18 ", 18},
		{"negative string", "-3.5", -3.5},
		{"json number", json.Number("19.25"), 19.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := climate.Decode(map[string]any{
				"temperature": tc.value,
				"status":      "just right",
				"message":     "m",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Temperature)
		})
	}
}

func TestDecode_MissingStatus(t *testing.T) {
	_, err := climate.Decode(map[string]any{"temperature": 20, "message": "x"})

	requireDecodeKind(t, err, climate.InvalidStatusContract)
	assert.ErrorIs(t, err, climate.ErrInvalidStatus)
}

func TestDecode_UnrecognizedStatus(t *testing.T) {
	for _, status := range []any{"too_cold", "Too Cold", "hot", 1, nil} {
		_, err := climate.Decode(map[string]any{"temperature": 20, "status": status, "message": "x"})
		requireDecodeKind(t, err, climate.InvalidStatusContract)
	}
}

func TestDecode_MessageMustBeString(t *testing.T) {
	for _, message := range []any{nil, 42, []any{"a"}} {
		_, err := climate.Decode(map[string]any{"temperature": 20, "status": "too warm", "message": message})
		requireDecodeKind(t, err, climate.InvalidStatusContract)
		assert.ErrorIs(t, err, climate.ErrInvalidStatus)
	}
}

func TestDecode_TemperatureCheckedBeforeStatus(t *testing.T) {
	_, err := climate.Decode(map[string]any{"temperature": "nope", "status": "nope"})
	requireDecodeKind(t, err, climate.InvalidTemperature)
}

func TestDecode_MalformedTimestampBecomesNil(t *testing.T) {
	got, err := climate.Decode(map[string]any{
		"temperature": "22.1",
		"status":      "too warm",
		"message":     "m",
		"timestamp":   "not-a-date",
	})
	require.NoError(t, err)

	assert.Equal(t, &climate.TemperatureResponse{
		Temperature: 22.1,
		Status:      climate.StatusTooWarm,
		Message:     "m",
	}, got)
}

func TestDecode_TimestampForms(t *testing.T) {
	want := time.Date(2024, 10, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  *time.Time
	}{
		{"utc", "2024-10-01T10:30:00Z", &want},
		{"millis", "2024-10-01T10:30:00.000Z", &want},
		{"offset", "2024-10-01T12:30:00+02:00", &want},
		{"epoch millis", float64(want.UnixMilli()), &want},
		{"date only", "2024-10-01", ptr(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))},
		{"empty", "", nil},
		{"zero", 0, nil},
		{"missing", nil, nil},
		{"bool", true, nil},
		{"garbage", "yesterday", nil},
		{"epoch beyond date range", 1e20, nil},
		{"epoch past year 9999", 3e14, nil},
		{"negative epoch beyond date range", -1e20, nil},
		{"offset shifts before year 0", "0000-01-01T00:30:00+01:00", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := climate.Decode(map[string]any{
				"temperature": 18,
				"status":      "just right",
				"message":     "m",
				"timestamp":   tc.value,
			})
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, got.Timestamp)
				return
			}
			require.NotNil(t, got.Timestamp)
			assert.True(t, tc.want.Equal(*got.Timestamp), "got %v", got.Timestamp)
			assert.Equal(t, time.UTC, got.Timestamp.Location())
		})
	}
}

func TestDecode_NonNumericHumidityDropped(t *testing.T) {
	got, err := climate.Decode(map[string]any{
		"temperature": 15,
		"status":      "too cold",
		"message":     "m",
		"humidity":    "62%",
	})
	require.NoError(t, err)

	assert.Nil(t, got.Humidity)
	assert.Equal(t, 15.0, got.Temperature)
}

func TestDecode_OptionalFieldsNotCoerced(t *testing.T) {
	got, err := climate.Decode(map[string]any{
		"temperature": 15,
		"status":      "too cold",
		"message":     "m",
		"humidity":    "62",
		"sensorId":    42,
	})
	require.NoError(t, err)

	assert.Nil(t, got.Humidity)
	assert.Nil(t, got.SensorID)
}

func TestDecode_NonFiniteHumidityDropped(t *testing.T) {
	got, err := climate.Decode(map[string]any{
		"temperature": 15,
		"status":      "too cold",
		"message":     "m",
		"humidity":    math.NaN(),
	})
	require.NoError(t, err)
	assert.Nil(t, got.Humidity)
}

func TestDecode_NonObjectPayload(t *testing.T) {
	for _, payload := range []any{nil, "text", 21.5, []any{1, 2}} {
		_, err := climate.Decode(payload)
		requireDecodeKind(t, err, climate.InvalidTemperature)
	}
}

func TestDecodeJSON(t *testing.T) {
	got, err := climate.DecodeJSON([]byte(`{
		"temperature": 27.8,
		"humidity": 55,
		"timestamp": "2024-10-01T10:30:00.000Z",
		"sensorId": null,
		"status": "too warm",
		"message": "It is too warm, you should turn off the heater."
	}`))
	require.NoError(t, err)

	assert.Equal(t, 27.8, got.Temperature)
	assert.Equal(t, ptr(55.0), got.Humidity)
	assert.Nil(t, got.SensorID)
	assert.Equal(t, climate.StatusTooWarm, got.Status)
}

func TestDecodeJSON_NotJSON(t *testing.T) {
	_, err := climate.DecodeJSON([]byte(`<html>bad gateway</html>`))
	requireDecodeKind(t, err, climate.InvalidTemperature)
}

func TestDecode_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 10, 1, 12, 45, 0, 0, time.UTC)
	original := climate.NewTemperatureResponse(
		17.9,
		ptr(65.0),
		&ts,
		ptr("cosy-homeoffice"),
		climate.DeriveStatus(17.9, climate.DefaultThreshold),
	)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := climate.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestDecode_RoundTripWithNulls(t *testing.T) {
	original := climate.NewTemperatureResponse(18, nil, nil, nil, climate.DeriveStatus(18, 18))

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"temperature": 18,
		"humidity": null,
		"timestamp": null,
		"sensorId": null,
		"status": "just right",
		"message": "Temperature is just right."
	}`, string(data))

	decoded, err := climate.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecode_OutOfRangeTimestampRoundTrip(t *testing.T) {
	for _, raw := range []float64{1e20, 3e14, 253402300799999} {
		decoded, err := climate.Decode(map[string]any{
			"temperature": 18,
			"status":      "just right",
			"message":     "m",
			"timestamp":   raw,
		})
		require.NoError(t, err)

		data, err := json.Marshal(decoded)
		require.NoError(t, err)

		again, err := climate.DecodeJSON(data)
		require.NoError(t, err)
		assert.Equal(t, decoded, again, "timestamp %v", raw)
	}
}
