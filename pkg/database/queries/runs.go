package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

var ErrRunNotFound = errors.New("optimization run not found")

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Insert(ctx context.Context, run *models.OptimizationRun) error {
	metricsJSON, err := json.Marshal(run.Metrics)
	if err != nil {
		return err
	}
	annualJSON, err := json.Marshal(run.AnnualProjection)
	if err != nil {
		return err
	}

	var windowJSON []byte
	if run.BestWindow != nil {
		windowJSON, err = json.Marshal(run.BestWindow)
		if err != nil {
			return err
		}
	}

	var resultsJSON []byte
	if len(run.ActionResults) > 0 {
		resultsJSON, err = json.Marshal(run.ActionResults)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO optimization_runs
			(id, building_id, run_at, baseline_kw, optimized_kw, realized_savings_kwh,
			 metrics, annual_projection, best_window, action_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.BuildingID,
		run.Timestamp,
		run.BaselineKW,
		run.OptimizedKW,
		run.RealizedSavingsKWh,
		metricsJSON,
		annualJSON,
		windowJSON,
		resultsJSON,
	)
	return err
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.OptimizationRun, error) {
	query := `
		SELECT id, building_id, run_at, baseline_kw, optimized_kw, realized_savings_kwh,
		       metrics, annual_projection, best_window, action_results
		FROM optimization_runs
		WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

func (r *RunRepository) GetHistory(ctx context.Context, buildingID string, since time.Time, limit int) ([]*models.OptimizationRun, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, building_id, run_at, baseline_kw, optimized_kw, realized_savings_kwh,
		       metrics, annual_projection, best_window, action_results
		FROM optimization_runs
		WHERE building_id = $1 AND run_at >= $2
		ORDER BY run_at DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, buildingID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.OptimizationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// TotalSavings sums realized savings over a window, for fleet dashboards.
func (r *RunRepository) TotalSavings(ctx context.Context, buildingID string, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(realized_savings_kwh), 0)
		FROM optimization_runs
		WHERE building_id = $1 AND run_at >= $2`

	var total float64
	err := r.db.QueryRowContext(ctx, query, buildingID, since).Scan(&total)
	return total, err
}

func (r *RunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM optimization_runs WHERE run_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanRun(row rowScanner) (*models.OptimizationRun, error) {
	var run models.OptimizationRun
	var metricsJSON, annualJSON, windowJSON, resultsJSON []byte

	err := row.Scan(
		&run.ID,
		&run.BuildingID,
		&run.Timestamp,
		&run.BaselineKW,
		&run.OptimizedKW,
		&run.RealizedSavingsKWh,
		&metricsJSON,
		&annualJSON,
		&windowJSON,
		&resultsJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(metricsJSON, &run.Metrics); err != nil {
		return nil, err
	}
	if len(annualJSON) > 0 {
		if err := json.Unmarshal(annualJSON, &run.AnnualProjection); err != nil {
			return nil, err
		}
	}
	if len(windowJSON) > 0 {
		run.BestWindow = &models.ScoredWindow{}
		if err := json.Unmarshal(windowJSON, run.BestWindow); err != nil {
			return nil, err
		}
	}
	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &run.ActionResults); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
