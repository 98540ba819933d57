package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/gridpulse/energy-optimizer/internal/events"
	"github.com/gridpulse/energy-optimizer/internal/impact"
	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/internal/planner"
	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/internal/simulator"
	"github.com/gridpulse/energy-optimizer/internal/windows"
	"github.com/gridpulse/energy-optimizer/pkg/cache"
	"github.com/gridpulse/energy-optimizer/pkg/config"
	"github.com/gridpulse/energy-optimizer/pkg/database"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// Orchestrator owns one optimization pipeline per building plus the
// shared scoring, impact and event machinery all pipelines fan into.
type Orchestrator struct {
	config      *config.Config
	db          *database.DB
	snapshots   cache.Service
	eventBus    *events.EventBus
	eventLogger *events.EventLogger
	kafkaSink   *events.KafkaSink

	scorer     *windows.Scorer
	impactSim  *impact.Simulator
	aggregator *impact.Aggregator

	pipelines map[string]*Pipeline
	mu        sync.RWMutex
}

func New(cfg *config.Config, db *database.DB, snapshots cache.Service) (*Orchestrator, error) {
	scorer, err := windows.NewScorer(
		windows.Weights{
			Renewable: cfg.Engine.Weights.Renewable,
			Carbon:    cfg.Engine.Weights.Carbon,
			Price:     cfg.Engine.Weights.Price,
			Secondary: cfg.Engine.Weights.Secondary,
		},
		windows.References{
			PricePerMWh:    cfg.Engine.References.PricePerMWh,
			SecondaryPrice: cfg.Engine.References.SecondaryPrice,
			CarbonCeiling:  cfg.Engine.References.CarbonCeiling,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("building window scorer: %w", err)
	}

	eventBus := events.NewEventBus(cfg.Events.BufferSize)
	eventLogger := events.NewEventLogger(db, eventBus.SubscribeAll())

	var kafkaSink *events.KafkaSink
	if cfg.Events.Kafka.Enabled {
		kafkaSink = events.NewKafkaSink(events.KafkaSinkConfig{
			Brokers: cfg.Events.Kafka.Brokers,
			Topic:   cfg.Events.Kafka.Topic,
		}, eventBus.SubscribeAll())
	}

	return &Orchestrator{
		config:      cfg,
		db:          db,
		snapshots:   snapshots,
		eventBus:    eventBus,
		eventLogger: eventLogger,
		kafkaSink:   kafkaSink,
		scorer:      scorer,
		impactSim:   impact.New(impact.DefaultPolicy()),
		aggregator:  impact.NewAggregator(cfg.Impact.PricePerKWh, cfg.Impact.CarbonIntensity),
		pipelines:   make(map[string]*Pipeline),
	}, nil
}

func (o *Orchestrator) Start() error {
	logger.Info("Orchestrator starting")
	o.eventLogger.Start()
	if o.kafkaSink != nil {
		o.kafkaSink.Start()
	}
	return nil
}

func (o *Orchestrator) Stop() {
	logger.Info("Orchestrator stopping")

	o.mu.Lock()
	for buildingID, pipeline := range o.pipelines {
		logger.Infof("Stopping pipeline for building %s", buildingID)
		pipeline.Stop()
	}
	o.mu.Unlock()

	o.eventLogger.Stop()
	if o.kafkaSink != nil {
		o.kafkaSink.Stop()
	}
	o.eventBus.Close()

	logger.Info("Orchestrator stopped")
}

// StartBuilding spins up a pipeline for the building using the supplied
// feed providers. The caller picks the providers so the API layer can
// decide between the live feed and the synthetic one.
func (o *Orchestrator) StartBuilding(building *models.Building, forecasts provider.ForecastProvider, weather provider.WeatherProvider) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.pipelines[building.ID]; exists {
		return fmt.Errorf("pipeline already exists for building %s", building.ID)
	}
	if building.Topology == nil {
		return fmt.Errorf("building %s has no topology", building.ID)
	}

	pipeline := NewPipeline(PipelineConfig{
		Building:       building,
		Interval:       o.config.Engine.Interval,
		ForecastSlots:  o.config.Engine.ForecastSlots,
		SlotLength:     o.config.Engine.SlotLength,
		TopN:           o.config.Engine.TopN,
		BottomN:        o.config.Engine.BottomN,
		SustainedSlots: o.config.Engine.SustainedSlots,
		Forecasts:      forecasts,
		Weather:        weather,
		Simulator: simulator.New(simulator.Config{
			SetpointC: o.config.Simulator.SetpointC,
			Seed:      o.config.Simulator.Seed,
		}),
		Scorer: o.scorer,
		Planner: planner.NewEngine(planner.Config{
			CooldownPeriod:        o.config.Planner.CooldownPeriod,
			HVACHighThreshold:     o.config.Planner.HVACHighThreshold,
			LightingHighThreshold: o.config.Planner.LightingHighThreshold,
			ComputeWindowMinScore: o.config.Planner.ComputeWindowMinScore,
		}),
		Impact:     o.impactSim,
		Aggregator: o.aggregator,
		Publisher:  events.NewPublisher(o.eventBus),
		Snapshots:  o.snapshots,
	})

	if err := pipeline.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}

	o.pipelines[building.ID] = pipeline
	logger.WithBuilding(building.ID).Info("Building pipeline started")

	return nil
}

func (o *Orchestrator) StopBuilding(buildingID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	pipeline, exists := o.pipelines[buildingID]
	if !exists {
		return fmt.Errorf("no pipeline found for building %s", buildingID)
	}

	pipeline.Stop()
	delete(o.pipelines, buildingID)
	logger.WithBuilding(buildingID).Info("Building pipeline stopped")

	return nil
}

func (o *Orchestrator) GetBuildingStatus(buildingID string) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	pipeline, exists := o.pipelines[buildingID]
	if !exists {
		return false, fmt.Errorf("no pipeline found for building %s", buildingID)
	}
	return pipeline.IsRunning(), nil
}

// RunBuildingOnce triggers an immediate cycle outside the pipeline's
// regular schedule.
func (o *Orchestrator) RunBuildingOnce(ctx context.Context, buildingID string) (*models.OptimizationRun, error) {
	o.mu.RLock()
	pipeline, exists := o.pipelines[buildingID]
	o.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no pipeline found for building %s", buildingID)
	}
	return pipeline.RunOnce(ctx)
}

func (o *Orchestrator) GetPipeline(buildingID string) (*Pipeline, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	pipeline, exists := o.pipelines[buildingID]
	return pipeline, exists
}

func (o *Orchestrator) ListRunningBuildings() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := make([]string, 0, len(o.pipelines))
	for buildingID, pipeline := range o.pipelines {
		if pipeline.IsRunning() {
			ids = append(ids, buildingID)
		}
	}
	return ids
}

func (o *Orchestrator) SubscribeEvents(eventType models.EventType) <-chan *models.Event {
	return o.eventBus.Subscribe(eventType)
}

func (o *Orchestrator) SubscribeAllEvents() <-chan *models.Event {
	return o.eventBus.SubscribeAll()
}
