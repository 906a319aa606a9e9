// FilePath: internal/repository/timescale/timescale.readings.go
package timescale

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

type ReadingRepo struct {
	db database.DB
}

func NewReadingRepository(db database.DB) (*ReadingRepo, error) {
	repo := &ReadingRepo{db: db}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ReadingRepo) initializeSchema() error {
	// Hypertable for sensor readings. source_sensor_id is captured at
	// insertion time and never rewritten; the two indexes back the two
	// access paths (live view by current sensor, history by source sensor).
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sensor_readings (
			id TEXT NOT NULL,
			sensor_id TEXT NOT NULL,
			source_sensor_id TEXT NOT NULL,
			data_type TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`SELECT create_hypertable('sensor_readings', 'timestamp',
			chunk_time_interval => INTERVAL '1 day',
			if_not_exists => TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_sensor_type_ts
			ON sensor_readings(sensor_id, data_type, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_source_type_ts
			ON sensor_readings(source_sensor_id, data_type, timestamp DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize readings schema", err)
		}
	}
	return nil
}

func (r *ReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *ReadingRepo) InsertReading(ctx context.Context, reading *models.Reading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("sr", 12)
	}
	if reading.SourceSensorID == "" {
		reading.SourceSensorID = reading.SensorID
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO sensor_readings (id, sensor_id, source_sensor_id, data_type, value, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.GetDB().ExecContext(ctx, query,
		reading.ID, reading.SensorID, reading.SourceSensorID,
		reading.DataType, reading.Value, reading.Timestamp)
	if err != nil {
		return errors.NewDatabaseError("failed to insert sensor reading", err)
	}
	return nil
}

// InsertReadings inserts rows independently; one bad row never aborts the
// batch. Failures are logged and reflected only in the returned count.
func (r *ReadingRepo) InsertReadings(ctx context.Context, readings []*models.Reading) (int, error) {
	inserted := 0
	for _, reading := range readings {
		if err := r.InsertReading(ctx, reading); err != nil {
			nuts.L.Warnf("[ReadingRepo] Skipping reading for sensor %s: %v", reading.SensorID, err)
			continue
		}
		inserted++
	}
	return inserted, nil
}

// LatestPerGroup returns the most recent reading per (sensor, data type)
// pair at or after since, using a window function over the sensor index.
// Semantics match models.LatestReadingPerGroup over the same rows.
func (r *ReadingRepo) LatestPerGroup(ctx context.Context, sensorIDs []string, dataTypes []models.DataType, since time.Time) ([]*models.Reading, error) {
	if len(sensorIDs) == 0 {
		return []*models.Reading{}, nil
	}

	query := `
		WITH ranked_readings AS (
			SELECT id, sensor_id, source_sensor_id, data_type, value, timestamp,
				ROW_NUMBER() OVER (
					PARTITION BY sensor_id, data_type
					ORDER BY timestamp DESC
				) AS rn
			FROM sensor_readings
			WHERE sensor_id = ANY($1) AND timestamp >= $2`
	args := []interface{}{pq.Array(sensorIDs), since}

	if len(dataTypes) > 0 {
		types := make([]string, len(dataTypes))
		for i, t := range dataTypes {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		query += ` AND data_type = ANY($3)`
	}
	query += `
		)
		SELECT id, sensor_id, source_sensor_id, data_type, value, timestamp
		FROM ranked_readings
		WHERE rn = 1`

	readings := []*models.Reading{}
	if err := r.db.GetDB().SelectContext(ctx, &readings, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to get latest readings", err)
	}
	return readings, nil
}

// BucketedAverages computes the unweighted mean per truncated-timestamp
// bucket over the half-open range [start, end), grouped on the source
// sensor attribution. Buckets with no readings are absent. Semantics match
// models.BucketAverages over the same rows.
func (r *ReadingRepo) BucketedAverages(ctx context.Context, sourceSensorIDs []string, dataType models.DataType, interval models.Interval, start, end *time.Time) ([]models.AggregateBucket, error) {
	if len(sourceSensorIDs) == 0 {
		return []models.AggregateBucket{}, nil
	}

	// interval is validated against the closed set before it reaches SQL
	if _, err := models.ParseInterval(string(interval)); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT date_trunc('%s', timestamp) AS bucket, AVG(value) AS average
		FROM sensor_readings
		WHERE source_sensor_id = ANY($1) AND data_type = $2`, interval)
	args := []interface{}{pq.Array(sourceSensorIDs), string(dataType)}

	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(` AND timestamp >= $%d`, len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(` AND timestamp < $%d`, len(args))
	}
	query += `
		GROUP BY bucket
		ORDER BY bucket ASC`

	buckets := []models.AggregateBucket{}
	if err := r.db.GetDB().SelectContext(ctx, &buckets, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to aggregate readings", err)
	}
	return buckets, nil
}

func (r *ReadingRepo) DeleteBySensorIDs(ctx context.Context, sensorIDs []string) error {
	if len(sensorIDs) == 0 {
		return nil
	}

	query := `DELETE FROM sensor_readings WHERE sensor_id = ANY($1) OR source_sensor_id = ANY($1)`

	result, err := r.db.GetDB().ExecContext(ctx, query, pq.Array(sensorIDs))
	if err != nil {
		return errors.NewDatabaseError("failed to delete sensor readings", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[ReadingRepo] Deleted %d readings for %d sensors", rows, len(sensorIDs))
	return nil
}
