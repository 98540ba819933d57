package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// EventBridge forwards orchestrator events to WebSocket clients.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	wsMessage := b.convertToWSMessage(event)
	if wsMessage == nil {
		return
	}

	data, err := json.Marshal(wsMessage)
	if err != nil {
		logger.Errorf("Failed to marshal WebSocket message: %v", err)
		return
	}

	b.hub.BroadcastToBuilding(event.BuildingID, data)
}

// WebSocketEvent is the message format sent to WebSocket clients.
type WebSocketEvent struct {
	Type       string      `json:"type"`
	BuildingID string      `json:"building_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Severity   string      `json:"severity,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func (b *EventBridge) convertToWSMessage(event *models.Event) *WebSocketEvent {
	wsType := mapEventType(event.Type)
	if wsType == "" {
		return nil
	}

	return &WebSocketEvent{
		Type:       wsType,
		BuildingID: event.BuildingID,
		Timestamp:  event.Timestamp,
		Severity:   string(event.Severity),
		Message:    event.Message,
		Data:       event.Data,
	}
}

func mapEventType(eventType models.EventType) string {
	switch eventType {
	case models.EventTypeStateSimulated:
		return "state"
	case models.EventTypeWindowsRanked:
		return "windows"
	case models.EventTypeActionsPlanned:
		return "actions"
	case models.EventTypeImpactApplied:
		return "impact"
	case models.EventTypeRunCompleted:
		return "run_completed"
	case models.EventTypeAlert:
		return "alert"
	case models.EventTypeError:
		return "error"
	default:
		return ""
	}
}
