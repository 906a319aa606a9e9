// FilePath: internal/repository/postgres/postgres.farm.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agrisense/farmwatch/internal/database"
	"github.com/agrisense/farmwatch/internal/errors"
	"github.com/agrisense/farmwatch/internal/models"
)

type FarmRepo struct {
	PostgresBaseRepo
}

func NewFarmRepository(db database.DB) *FarmRepo {
	return &FarmRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *FarmRepo) Create(ctx context.Context, farm *models.Farm, members []models.FarmMember) error {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO farms (id, farm_id, farm_name, location, access_code, created_at, updated_at)
		VALUES (:id, :farm_id, :farm_name, :location, :access_code, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, query, farm); err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("farm id or name already exists", err)
		}
		return errors.NewDatabaseError("failed to create farm", err)
	}

	for i := range members {
		members[i].FarmID = farm.ID
		_, err := tx.ExecContext(ctx,
			`INSERT INTO farm_members (farm_id, user_id, role) VALUES ($1, $2, $3)`,
			members[i].FarmID, members[i].UserID, members[i].Role)
		if err != nil {
			if isUniqueViolation(err) {
				return errors.NewConflictError("duplicate user in farm members", err)
			}
			return errors.NewDatabaseError("failed to add farm member", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}
	return nil
}

func (r *FarmRepo) Get(ctx context.Context, id string) (*models.Farm, error) {
	farm := &models.Farm{}
	query := `SELECT * FROM farms WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, farm, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("farm not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get farm", err)
	}
	return farm, nil
}

func (r *FarmRepo) Delete(ctx context.Context, id string, tx database.Transaction) error {
	result, err := r.execIn(ctx, tx, `DELETE FROM farms WHERE id = $1`, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete farm", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("farm not found", nil)
	}
	return nil
}

func (r *FarmRepo) FindIDsByPattern(ctx context.Context, idPattern, namePattern string) ([]string, error) {
	ids := []string{}
	query := `SELECT id FROM farms WHERE 1=1`
	args := []interface{}{}

	if idPattern != "" {
		args = append(args, likePattern(idPattern))
		query += fmt.Sprintf(` AND farm_id ILIKE $%d ESCAPE '\'`, len(args))
	}
	if namePattern != "" {
		args = append(args, likePattern(namePattern))
		query += fmt.Sprintf(` AND farm_name ILIKE $%d ESCAPE '\'`, len(args))
	}

	err := r.db.GetDB().SelectContext(ctx, &ids, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to match farms", err)
	}
	return ids, nil
}

func (r *FarmRepo) Members(ctx context.Context, farmID string) ([]models.FarmMember, error) {
	members := []models.FarmMember{}
	query := `SELECT farm_id, user_id, role FROM farm_members WHERE farm_id = $1`

	err := r.db.GetDB().SelectContext(ctx, &members, query, farmID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list farm members", err)
	}
	return members, nil
}

func (r *FarmRepo) MembershipsForUser(ctx context.Context, userID string) ([]models.FarmMember, error) {
	memberships := []models.FarmMember{}
	query := `SELECT farm_id, user_id, role FROM farm_members WHERE user_id = $1`

	err := r.db.GetDB().SelectContext(ctx, &memberships, query, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list user memberships", err)
	}
	return memberships, nil
}

func (r *FarmRepo) ListForUser(ctx context.Context, userID string) ([]*models.Farm, error) {
	farms := []*models.Farm{}
	query := `
		SELECT f.* FROM farms f
		JOIN farm_members m ON m.farm_id = f.id
		WHERE m.user_id = $1
		ORDER BY f.farm_name ASC`

	err := r.db.GetDB().SelectContext(ctx, &farms, query, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list user farms", err)
	}
	return farms, nil
}
