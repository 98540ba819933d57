package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Insert(ctx context.Context, event *models.Event) error {
	var dataJSON []byte
	if event.Data != nil {
		var err error
		dataJSON, err = json.Marshal(event.Data)
		if err != nil {
			return err
		}
	}

	var buildingID interface{}
	if event.BuildingID != "" {
		buildingID = event.BuildingID
	}

	query := `
		INSERT INTO events (id, event_type, severity, building_id, occurred_at, message, data, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Type,
		event.Severity,
		buildingID,
		event.Timestamp,
		event.Message,
		dataJSON,
		event.TraceID,
	)
	return err
}

func (r *EventRepository) GetRecent(ctx context.Context, buildingID string, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, event_type, severity, building_id, occurred_at, message, data, trace_id
		FROM events
		WHERE ($1 = '' OR building_id = $1::uuid)
		ORDER BY occurred_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, buildingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *EventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanEvent(rows *sql.Rows) (*models.Event, error) {
	var event models.Event
	var buildingID sql.NullString
	var traceID sql.NullString
	var dataJSON []byte

	err := rows.Scan(
		&event.ID,
		&event.Type,
		&event.Severity,
		&buildingID,
		&event.Timestamp,
		&event.Message,
		&dataJSON,
		&traceID,
	)
	if err != nil {
		return nil, err
	}

	event.BuildingID = buildingID.String
	event.TraceID = traceID.String
	if len(dataJSON) > 0 {
		var data interface{}
		if err := json.Unmarshal(dataJSON, &data); err == nil {
			event.Data = data
		}
	}
	return &event, nil
}
