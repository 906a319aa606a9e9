// FilePath: internal/models/models.reading.go
package models

import (
	"time"

	"github.com/agrisense/farmwatch/internal/errors"
)

// Reading represents a single sensor measurement. SensorID is the sensor
// the value is attributed to at query time; SourceSensorID is captured at
// insertion time and never changes, so historical aggregation stays stable
// when a sensor is later moved between zones or farms.
type Reading struct {
	ID             string    `json:"id" db:"id"`
	SensorID       string    `json:"sensor_object_id" db:"sensor_id"`
	SourceSensorID string    `json:"source_sensor_object_id" db:"source_sensor_id"`
	DataType       DataType  `json:"data_type" db:"data_type"`
	Value          float64   `json:"value" db:"value"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}

// AggregateBucket is one bucket of a time-windowed average.
type AggregateBucket struct {
	Timestamp time.Time `json:"timestamp" db:"bucket"`
	Average   float64   `json:"average" db:"average"`
}

// Interval is a time-truncation granularity used to group readings for
// averaging.
type Interval string

const (
	IntervalMinute Interval = "minute"
	IntervalHour   Interval = "hour"
	IntervalDay    Interval = "day"
)

// ParseInterval validates a caller-supplied interval string. Anything
// outside the three recognized buckets is a caller error.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalMinute, IntervalHour, IntervalDay:
		return Interval(s), nil
	}
	return "", errors.NewValidationError("invalid interval, use minute, hour, or day", nil)
}

// Truncate normalizes t to the start of its bucket. All three granularities
// share this one truncation function; the bucket key is just a timestamp.
func (i Interval) Truncate(t time.Time) time.Time {
	switch i {
	case IntervalMinute:
		return t.Truncate(time.Minute)
	case IntervalHour:
		return t.Truncate(time.Hour)
	case IntervalDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return t
}
