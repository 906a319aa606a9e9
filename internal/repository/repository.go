// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// FarmRepository provides farm and membership reference data. Farms are
// consumed read-mostly; create/delete exist for seeding and cascade.
type FarmRepository interface {
	database.Repository
	Create(ctx context.Context, farm *models.Farm, members []models.FarmMember) error
	Get(ctx context.Context, id string) (*models.Farm, error)
	Delete(ctx context.Context, id string, tx database.Transaction) error
	// FindIDsByPattern resolves case-insensitive literal substring matches
	// on the farm code and display name to farm object ids.
	FindIDsByPattern(ctx context.Context, idPattern, namePattern string) ([]string, error)
	Members(ctx context.Context, farmID string) ([]models.FarmMember, error)
	// MembershipsForUser returns every (farm, role) pair the user holds.
	MembershipsForUser(ctx context.Context, userID string) ([]models.FarmMember, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Farm, error)
}

// ZoneRepository provides zone reference data.
type ZoneRepository interface {
	database.Repository
	Create(ctx context.Context, zone *models.Zone) error
	Get(ctx context.Context, id string) (*models.Zone, error)
	DeleteByFarm(ctx context.Context, farmID string, tx database.Transaction) error
	FindIDsByPattern(ctx context.Context, idPattern, namePattern string) ([]string, error)
}

// SensorRepository is the sensor directory.
type SensorRepository interface {
	database.Repository
	Create(ctx context.Context, sensor *models.Sensor) error
	Get(ctx context.Context, id string) (*models.Sensor, error)
	Update(ctx context.Context, sensor *models.Sensor) error
	Delete(ctx context.Context, id string, tx database.Transaction) error
	// ListByScope resolves the final matching sensor set for a fully built
	// search scope. An empty FarmIDs slice means "no farm constraint".
	ListByScope(ctx context.Context, scope models.SensorScope) ([]*models.Sensor, error)
	// ListActive returns every active sensor, for the public simulator
	// directory.
	ListActive(ctx context.Context) ([]*models.Sensor, error)
	// ActiveIDs filters ids down to those of currently active sensors.
	ActiveIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// ReadingRepository is the time-series store for sensor readings.
type ReadingRepository interface {
	database.Repository
	InsertReading(ctx context.Context, reading *models.Reading) error
	// InsertReadings inserts each row independently and returns the number
	// of successful inserts; a failed row never aborts the batch.
	InsertReadings(ctx context.Context, readings []*models.Reading) (int, error)
	// LatestPerGroup returns at most one reading per (sensor, data type)
	// pair, the one with the maximum timestamp at or after since. An empty
	// dataTypes slice means all data types.
	LatestPerGroup(ctx context.Context, sensorIDs []string, dataTypes []models.DataType, since time.Time) ([]*models.Reading, error)
	// BucketedAverages groups readings by source sensor attribution into
	// interval buckets over the half-open range [start, end) and returns
	// the unweighted mean per bucket, ascending. Nil bounds are open.
	BucketedAverages(ctx context.Context, sourceSensorIDs []string, dataType models.DataType, interval models.Interval, start, end *time.Time) ([]models.AggregateBucket, error)
	DeleteBySensorIDs(ctx context.Context, sensorIDs []string) error
}
