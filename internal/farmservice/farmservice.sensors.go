// FilePath: internal/farmservice/farmservice.sensors.go
package farmservice

import (
	"context"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

// PublicSensor is the trimmed directory entry served to external
// generators.
type PublicSensor struct {
	ID         string   `json:"id"`
	SensorID   string   `json:"sensor_id"`
	SensorName string   `json:"sensor_name"`
	DataTypes  []string `json:"data_types"`
}

// ActiveSensors returns the unauthenticated directory of active sensors,
// trimmed to what a generator needs.
func (s *FarmService) ActiveSensors(ctx context.Context) ([]PublicSensor, error) {
	sensors, err := s.Sensors.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]PublicSensor, len(sensors))
	for i, sensor := range sensors {
		result[i] = PublicSensor{
			ID:         sensor.ID,
			SensorID:   sensor.SensorID,
			SensorName: sensor.SensorName,
			DataTypes:  sensor.DataTypes,
		}
	}
	return result, nil
}

// CreateSensor registers a sensor in the directory after checking its farm
// and zone line up. Directory management is mostly external; this path
// exists for seeding and tests.
func (s *FarmService) CreateSensor(ctx context.Context, sensor *models.Sensor) error {
	farm, err := s.Farms.Get(ctx, sensor.FarmID)
	if err != nil {
		return err
	}
	zone, err := s.Zones.Get(ctx, sensor.ZoneID)
	if err != nil {
		return err
	}
	if zone.FarmID != farm.ID {
		return errors.NewValidationError("zone does not belong to the selected farm", nil)
	}

	if sensor.ID == "" {
		sensor.ID = nuts.NID("sn", 12)
	}
	if sensor.SensorID == "" {
		sensor.SensorID = nuts.NID("SN", 8)
	}
	now := s.now()
	sensor.CreatedAt = now
	sensor.UpdatedAt = now

	return s.Sensors.Create(ctx, sensor)
}

// DeleteSensor removes a sensor and all of its readings.
func (s *FarmService) DeleteSensor(ctx context.Context, id string) error {
	if _, err := s.Sensors.Get(ctx, id); err != nil {
		return err
	}
	return s.Cleanup.DeleteSensor(ctx, id)
}
