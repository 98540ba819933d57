package events

import (
	"context"

	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/pkg/database"
	"github.com/gridpulse/energy-optimizer/pkg/database/queries"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// EventLogger drains a bus subscription, mirrors every event into the
// structured log and persists run completions and alerts.
type EventLogger struct {
	events    *queries.EventRepository
	runs      *queries.RunRepository
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEventLogger(db *database.DB, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		events:    queries.NewEventRepository(db.DB),
		runs:      queries.NewRunRepository(db.DB),
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

func (l *EventLogger) Stop() {
	l.cancel()
}

func (l *EventLogger) run() {
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type":  event.Type,
		"building_id": event.BuildingID,
		"severity":    event.Severity,
		"trace_id":    event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	switch event.Type {
	case models.EventTypeRunCompleted:
		l.persistRun(event)
	case models.EventTypeAlert, models.EventTypeError:
		l.persistEvent(event)
	}
}

func (l *EventLogger) persistRun(event *models.Event) {
	run, ok := event.Data.(*models.OptimizationRun)
	if !ok {
		return
	}

	if err := l.runs.Insert(l.ctx, run); err != nil {
		logger.Errorf("Failed to persist optimization run: %v", err)
	}
}

func (l *EventLogger) persistEvent(event *models.Event) {
	if err := l.events.Insert(l.ctx, event); err != nil {
		logger.Errorf("Failed to persist event: %v", err)
	}
}
