// FilePath: internal/farmservice/farmservice.readings.go
package farmservice

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

// AddReading stores one reading. The source sensor reference is captured
// here, at insertion time, and never rewritten afterwards. The timestamp
// defaults to now when the caller omits it.
func (s *FarmService) AddReading(ctx context.Context, reading *models.Reading) error {
	if reading.SensorID == "" {
		return errors.NewValidationError("sensor_object_id is required", nil)
	}
	if !models.IsValidDataType(reading.DataType) {
		return errors.NewValidationError("unknown data type: "+string(reading.DataType), nil)
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = s.now()
	}
	reading.SourceSensorID = reading.SensorID

	return s.Readings.InsertReading(ctx, reading)
}

// AddReadingsBulk stores a batch of readings for historical backfill. The
// batch shape has already been checked at the request boundary; rows that
// fail persistence are skipped, and the caller gets the count of rows
// actually inserted.
func (s *FarmService) AddReadingsBulk(ctx context.Context, readings []*models.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, errors.NewValidationError("request body must be a non-empty array", nil)
	}
	for _, reading := range readings {
		reading.SourceSensorID = reading.SensorID
	}

	inserted, err := s.Readings.InsertReadings(ctx, readings)
	if err != nil {
		return 0, err
	}
	if inserted < len(readings) {
		nuts.L.Warnf("[FarmService] Bulk insert stored %d of %d readings", inserted, len(readings))
	}
	return inserted, nil
}

// LatestReadings is the live view: at most one reading per (sensor, data
// type) pair within the trailing window, restricted to the caller's
// authorized sensors and to sensors that are currently active.
func (s *FarmService) LatestReadings(ctx context.Context, userID string, filters models.ReadingFilters) ([]*models.Reading, error) {
	sensorIDs, err := s.resolveSensorIDs(ctx, userID, filters)
	if err != nil {
		return nil, err
	}
	if len(sensorIDs) == 0 {
		return []*models.Reading{}, nil
	}

	var dataTypes []models.DataType
	for _, t := range filters.DataTypes {
		dataTypes = append(dataTypes, models.DataType(t))
	}

	since := s.now().Add(-s.latestWindow)
	readings, err := s.Readings.LatestPerGroup(ctx, sensorIDs, dataTypes, since)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return []*models.Reading{}, nil
	}

	// A sensor deactivated after the window may still appear in raw data;
	// the live view drops it.
	ids := make([]string, len(readings))
	for i, reading := range readings {
		ids[i] = reading.SensorID
	}
	activeSet, err := s.Sensors.ActiveIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	filtered := readings[:0]
	for _, reading := range readings {
		if activeSet[reading.SensorID] {
			filtered = append(filtered, reading)
		}
	}
	return filtered, nil
}
