// FilePath: internal/repository/postgres/postgres.sensor.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

type SensorRepo struct {
	PostgresBaseRepo
}

func NewSensorRepository(db database.DB) *SensorRepo {
	return &SensorRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

// Create inserts a sensor after enforcing the directory invariants.
func (r *SensorRepo) Create(ctx context.Context, sensor *models.Sensor) error {
	if err := sensor.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO sensors (
			id, sensor_id, sensor_name, data_types, is_active,
			farm_object_id, zone_object_id, created_at, updated_at
		) VALUES (
			:id, :sensor_id, :sensor_name, :data_types, :is_active,
			:farm_object_id, :zone_object_id, :created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, sensor)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("sensor id already exists", err)
		}
		return errors.NewDatabaseError("failed to create sensor", err)
	}
	return nil
}

func (r *SensorRepo) Get(ctx context.Context, id string) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	query := `SELECT * FROM sensors WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, sensor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sensor not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return sensor, nil
}

// Update rewrites the mutable sensor fields. The same invariants as on
// create apply; the sensor code is immutable.
func (r *SensorRepo) Update(ctx context.Context, sensor *models.Sensor) error {
	if err := sensor.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE sensors SET
			sensor_name = :sensor_name,
			data_types = :data_types,
			is_active = :is_active,
			farm_object_id = :farm_object_id,
			zone_object_id = :zone_object_id,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, sensor)
	if err != nil {
		return errors.NewDatabaseError("failed to update sensor", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	return nil
}

func (r *SensorRepo) Delete(ctx context.Context, id string, tx database.Transaction) error {
	result, err := r.execIn(ctx, tx, `DELETE FROM sensors WHERE id = $1`, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete sensor", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	return nil
}

func (r *SensorRepo) ListByScope(ctx context.Context, scope models.SensorScope) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT * FROM sensors WHERE 1=1`
	args := []interface{}{}

	if len(scope.FarmIDs) > 0 {
		args = append(args, pq.Array(scope.FarmIDs))
		query += fmt.Sprintf(` AND farm_object_id = ANY($%d)`, len(args))
	}
	if len(scope.ZoneIDs) > 0 {
		args = append(args, pq.Array(scope.ZoneIDs))
		query += fmt.Sprintf(` AND zone_object_id = ANY($%d)`, len(args))
	}
	if scope.SensorID != "" {
		args = append(args, likePattern(scope.SensorID))
		query += fmt.Sprintf(` AND sensor_id ILIKE $%d ESCAPE '\'`, len(args))
	}
	if scope.SensorName != "" {
		args = append(args, likePattern(scope.SensorName))
		query += fmt.Sprintf(` AND sensor_name ILIKE $%d ESCAPE '\'`, len(args))
	}
	if len(scope.DataTypes) > 0 {
		types := make([]string, len(scope.DataTypes))
		for i, t := range scope.DataTypes {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		query += fmt.Sprintf(` AND data_types && $%d`, len(args))
	}
	if scope.ActiveOnly != nil {
		args = append(args, *scope.ActiveOnly)
		query += fmt.Sprintf(` AND is_active = $%d`, len(args))
	}
	query += ` ORDER BY sensor_name ASC`

	err := r.db.GetDB().SelectContext(ctx, &sensors, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}
	return sensors, nil
}

func (r *SensorRepo) ListActive(ctx context.Context) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT * FROM sensors WHERE is_active = TRUE ORDER BY sensor_name ASC`

	err := r.db.GetDB().SelectContext(ctx, &sensors, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list active sensors", err)
	}
	return sensors, nil
}

func (r *SensorRepo) ActiveIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	activeIDs := []string{}
	query := `SELECT id FROM sensors WHERE id = ANY($1) AND is_active = TRUE`

	err := r.db.GetDB().SelectContext(ctx, &activeIDs, query, pq.Array(ids))
	if err != nil {
		return nil, errors.NewDatabaseError("failed to resolve active sensors", err)
	}

	result := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		result[id] = true
	}
	return result, nil
}
