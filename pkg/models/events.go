package models

import "time"

type EventType string

const (
	EventTypeStateSimulated EventType = "state_simulated"
	EventTypeWindowsRanked  EventType = "windows_ranked"
	EventTypeActionsPlanned EventType = "actions_planned"
	EventTypeImpactApplied  EventType = "impact_applied"
	EventTypeRunCompleted   EventType = "run_completed"
	EventTypeAlert          EventType = "alert"
	EventTypeError          EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID         string        `json:"id"`
	Type       EventType     `json:"type"`
	Severity   EventSeverity `json:"severity"`
	BuildingID string        `json:"building_id,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Message    string        `json:"message"`
	Data       interface{}   `json:"data,omitempty"`
	TraceID    string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, buildingID, message string) *Event {
	return &Event{
		ID:         NewUUID(),
		Type:       eventType,
		Severity:   SeverityInfo,
		BuildingID: buildingID,
		Timestamp:  time.Now(),
		Message:    message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

// AllEventTypes lists every event type the bus can carry.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeStateSimulated,
		EventTypeWindowsRanked,
		EventTypeActionsPlanned,
		EventTypeImpactApplied,
		EventTypeRunCompleted,
		EventTypeAlert,
		EventTypeError,
	}
}
