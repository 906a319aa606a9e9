// FilePath: internal/cleanup/cleanup.go
package cleanup

import (
	"context"
	"fmt"

	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/internal/models"
	"github.com/agrisense/farmwatch/internal/repository"
)

// CleanupService coordinates deletion of hierarchical data. Readings are
// never mutated in place; they are only deleted in bulk when their owning
// sensor, zone, or farm goes away.
type CleanupService struct {
	farms    repository.FarmRepository
	zones    repository.ZoneRepository
	sensors  repository.SensorRepository
	readings repository.ReadingRepository
	events   *nuts.EventEmitter
}

// New creates a new CleanupService
func New(
	farms repository.FarmRepository,
	zones repository.ZoneRepository,
	sensors repository.SensorRepository,
	readings repository.ReadingRepository,
) *CleanupService {
	return &CleanupService{
		farms:    farms,
		zones:    zones,
		sensors:  sensors,
		readings: readings,
		events:   nuts.NewEventEmitter(),
	}
}

// DeleteSensor deletes a sensor and all its readings.
func (s *CleanupService) DeleteSensor(ctx context.Context, sensorID string) error {
	if err := s.readings.DeleteBySensorIDs(ctx, []string{sensorID}); err != nil {
		return fmt.Errorf("failed to delete sensor readings: %w", err)
	}
	if err := s.sensors.Delete(ctx, sensorID, nil); err != nil {
		return fmt.Errorf("failed to delete sensor: %w", err)
	}

	s.events.Emit("sensor.deleted", sensorID)
	return nil
}

// DeleteFarm deletes a farm with all its zones, sensors, and readings.
func (s *CleanupService) DeleteFarm(ctx context.Context, farmID string) error {
	sensors, err := s.sensors.ListByScope(ctx, models.SensorScope{FarmIDs: []string{farmID}})
	if err != nil {
		return fmt.Errorf("failed to list farm sensors: %w", err)
	}

	sensorIDs := make([]string, len(sensors))
	for i, sensor := range sensors {
		sensorIDs[i] = sensor.ID
	}

	// Readings live in a separate store, so the cascade runs there first;
	// a crash between the two deletes leaves orphaned reference rows, not
	// orphaned readings.
	if err := s.readings.DeleteBySensorIDs(ctx, sensorIDs); err != nil {
		return fmt.Errorf("failed to delete farm readings: %w", err)
	}
	s.events.Emit("farm.readings_deleted", farmID)

	tx, err := s.farms.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	for _, sensor := range sensors {
		if err := s.sensors.Delete(ctx, sensor.ID, tx); err != nil {
			return fmt.Errorf("failed to delete sensor: %w", err)
		}
	}
	if err := s.zones.DeleteByFarm(ctx, farmID, tx); err != nil {
		return fmt.Errorf("failed to delete zones: %w", err)
	}
	if err := s.farms.Delete(ctx, farmID, tx); err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, sensor := range sensors {
		s.events.Emit("sensor.deleted", sensor.ID)
	}
	s.events.Emit("farm.deleted", farmID)
	return nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.events.On(event, "cleanup_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
