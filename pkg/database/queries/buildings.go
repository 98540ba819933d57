package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

var ErrBuildingNotFound = errors.New("building not found")

type BuildingRepository struct {
	db *sql.DB
}

func NewBuildingRepository(db *sql.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

func (r *BuildingRepository) GetAll(ctx context.Context) ([]*models.Building, error) {
	query := `
		SELECT id, name, region, status, topology, created_at, updated_at
		FROM buildings
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buildings []*models.Building
	for rows.Next() {
		building, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		buildings = append(buildings, building)
	}

	return buildings, rows.Err()
}

func (r *BuildingRepository) GetByID(ctx context.Context, id string) (*models.Building, error) {
	query := `
		SELECT id, name, region, status, topology, created_at, updated_at
		FROM buildings
		WHERE id = $1`

	building, err := scanBuilding(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuildingNotFound
	}
	return building, err
}

func (r *BuildingRepository) GetByName(ctx context.Context, name string) (*models.Building, error) {
	query := `
		SELECT id, name, region, status, topology, created_at, updated_at
		FROM buildings
		WHERE name = $1`

	building, err := scanBuilding(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuildingNotFound
	}
	return building, err
}

func (r *BuildingRepository) Create(ctx context.Context, building *models.Building) error {
	topoJSON, err := building.TopologyJSON()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO buildings (id, name, region, status, topology, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		building.ID,
		building.Name,
		building.Region,
		building.Status,
		topoJSON,
		building.CreatedAt,
		building.UpdatedAt,
	)
	return err
}

func (r *BuildingRepository) Update(ctx context.Context, building *models.Building) error {
	topoJSON, err := building.TopologyJSON()
	if err != nil {
		return err
	}

	query := `
		UPDATE buildings
		SET name = $2, region = $3, status = $4, topology = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		building.ID,
		building.Name,
		building.Region,
		building.Status,
		topoJSON,
		time.Now(),
	)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

func (r *BuildingRepository) UpdateStatus(ctx context.Context, id string, status models.BuildingStatus) error {
	query := `UPDATE buildings SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *BuildingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBuildingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBuilding(row rowScanner) (*models.Building, error) {
	var building models.Building
	var topoJSON []byte

	err := row.Scan(
		&building.ID,
		&building.Name,
		&building.Region,
		&building.Status,
		&topoJSON,
		&building.CreatedAt,
		&building.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := building.ParseTopology(topoJSON); err != nil {
		return nil, err
	}
	return &building, nil
}
