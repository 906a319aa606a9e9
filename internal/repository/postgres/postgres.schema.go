// FilePath: internal/repository/postgres/postgres.schema.go
package postgres

import (
	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/errors"
)

// InitSchema creates the reference data tables if they do not exist.
func InitSchema(db database.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS farms (
			id TEXT PRIMARY KEY,
			farm_id TEXT NOT NULL UNIQUE,
			farm_name TEXT NOT NULL UNIQUE,
			location TEXT NOT NULL,
			access_code TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS farm_members (
			farm_id TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			PRIMARY KEY (farm_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS zones (
			id TEXT PRIMARY KEY,
			zone_id TEXT NOT NULL UNIQUE,
			zone_name TEXT NOT NULL,
			description TEXT NOT NULL,
			farm_object_id TEXT NOT NULL REFERENCES farms(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sensors (
			id TEXT PRIMARY KEY,
			sensor_id TEXT NOT NULL UNIQUE,
			sensor_name TEXT NOT NULL,
			data_types TEXT[] NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			farm_object_id TEXT,
			zone_object_id TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_farm_members_user ON farm_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_zones_farm ON zones(farm_object_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sensors_farm ON sensors(farm_object_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sensors_zone ON sensors(zone_object_id)`,
	}

	for _, query := range queries {
		if _, err := db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize app schema", err)
		}
	}
	return nil
}
