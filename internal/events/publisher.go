package events

import (
	"fmt"

	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// Publisher builds and publishes the domain events of one optimization
// pipeline. WithTraceID returns a derived publisher stamping every event
// with the cycle's trace.
type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{bus: p.bus, traceID: traceID}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) StateSimulated(buildingID string, state *models.BuildingState) {
	msg := fmt.Sprintf("State simulated: %.1f kW", state.TotalConsumptionKW())
	p.publish(models.NewEvent(models.EventTypeStateSimulated, buildingID, msg).WithData(state))
}

func (p *Publisher) WindowsRanked(buildingID string, best []models.ScoredWindow, sustained *models.SustainedWindow) {
	msg := "Windows ranked"
	if len(best) > 0 {
		msg = fmt.Sprintf("Windows ranked: top score %.1f (%s)", best[0].Score, best[0].Recommendation)
	}
	event := models.NewEvent(models.EventTypeWindowsRanked, buildingID, msg).
		WithData(map[string]interface{}{
			"best":      best,
			"sustained": sustained,
		})
	p.publish(event)
}

func (p *Publisher) ActionsPlanned(buildingID string, actions []models.OptimizationAction) {
	msg := fmt.Sprintf("Actions planned: %d", len(actions))
	p.publish(models.NewEvent(models.EventTypeActionsPlanned, buildingID, msg).WithData(actions))
}

func (p *Publisher) ImpactApplied(buildingID string, savingsKWh float64, results []models.ActionResult) {
	msg := fmt.Sprintf("Impact applied: %.1f kWh saved", savingsKWh)
	event := models.NewEvent(models.EventTypeImpactApplied, buildingID, msg).
		WithData(map[string]interface{}{
			"savings_kwh": savingsKWh,
			"results":     results,
		})
	p.publish(event)
}

func (p *Publisher) RunCompleted(run *models.OptimizationRun) {
	msg := fmt.Sprintf("Run completed: %.1f kW -> %.1f kW", run.BaselineKW, run.OptimizedKW)
	p.publish(models.NewEvent(models.EventTypeRunCompleted, run.BuildingID, msg).WithData(run))
}

func (p *Publisher) Alert(buildingID string, severity models.EventSeverity, message string, data interface{}) {
	event := models.NewEvent(models.EventTypeAlert, buildingID, message).
		WithSeverity(severity).
		WithData(data)
	p.publish(event)
}

func (p *Publisher) Error(buildingID string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, buildingID, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
