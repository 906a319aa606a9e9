// FilePath: internal/repository/postgres/postgres.zone.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

type ZoneRepo struct {
	PostgresBaseRepo
}

func NewZoneRepository(db database.DB) *ZoneRepo {
	return &ZoneRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *ZoneRepo) Create(ctx context.Context, zone *models.Zone) error {
	query := `
		INSERT INTO zones (id, zone_id, zone_name, description, farm_object_id, created_at, updated_at)
		VALUES (:id, :zone_id, :zone_name, :description, :farm_object_id, :created_at, :updated_at)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, zone)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("zone id already exists", err)
		}
		return errors.NewDatabaseError("failed to create zone", err)
	}
	return nil
}

func (r *ZoneRepo) Get(ctx context.Context, id string) (*models.Zone, error) {
	zone := &models.Zone{}
	query := `SELECT * FROM zones WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, zone, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("zone not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get zone", err)
	}
	return zone, nil
}

func (r *ZoneRepo) DeleteByFarm(ctx context.Context, farmID string, tx database.Transaction) error {
	_, err := r.execIn(ctx, tx, `DELETE FROM zones WHERE farm_object_id = $1`, farmID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete zones", err)
	}
	return nil
}

func (r *ZoneRepo) FindIDsByPattern(ctx context.Context, idPattern, namePattern string) ([]string, error) {
	ids := []string{}
	query := `SELECT id FROM zones WHERE 1=1`
	args := []interface{}{}

	if idPattern != "" {
		args = append(args, likePattern(idPattern))
		query += fmt.Sprintf(` AND zone_id ILIKE $%d ESCAPE '\'`, len(args))
	}
	if namePattern != "" {
		args = append(args, likePattern(namePattern))
		query += fmt.Sprintf(` AND zone_name ILIKE $%d ESCAPE '\'`, len(args))
	}

	err := r.db.GetDB().SelectContext(ctx, &ids, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to match zones", err)
	}
	return ids, nil
}
