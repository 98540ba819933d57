package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/gridpulse/energy-optimizer/internal/events"
	"github.com/gridpulse/energy-optimizer/internal/impact"
	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/internal/metrics"
	"github.com/gridpulse/energy-optimizer/internal/planner"
	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/internal/simulator"
	"github.com/gridpulse/energy-optimizer/internal/windows"
	"github.com/gridpulse/energy-optimizer/pkg/cache"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// hoursPerYear scales one hourly run out to an annual projection.
const hoursPerYear = 8760

type PipelineConfig struct {
	Building       *models.Building
	Interval       time.Duration
	ForecastSlots  int
	SlotLength     time.Duration
	TopN           int
	BottomN        int
	SustainedSlots int

	Forecasts  provider.ForecastProvider
	Weather    provider.WeatherProvider
	Simulator  *simulator.Simulator
	Scorer     *windows.Scorer
	Planner    *planner.Engine
	Impact     *impact.Simulator
	Aggregator *impact.Aggregator
	Publisher  *events.Publisher
	Snapshots  cache.Service
}

// Pipeline drives the optimization loop for one building: forecast,
// simulate, rank, plan, apply, report.
type Pipeline struct {
	config  PipelineConfig
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Interval == 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.ForecastSlots == 0 {
		cfg.ForecastSlots = 24
	}
	if cfg.SlotLength == 0 {
		cfg.SlotLength = time.Hour
	}
	if cfg.TopN == 0 {
		cfg.TopN = 5
	}
	if cfg.BottomN == 0 {
		cfg.BottomN = 3
	}
	if cfg.SustainedSlots == 0 {
		cfg.SustainedSlots = 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	p.running = true
	p.wg.Add(1)
	go p.run()

	logger.WithBuilding(p.config.Building.ID).Info("Pipeline started")
	return nil
}

func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()

	logger.WithBuilding(p.config.Building.ID).Info("Pipeline stopped")
}

func (p *Pipeline) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Pipeline) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.runCycle()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runCycle()
		}
	}
}

// RunOnce executes a single cycle outside the ticker, used by the API's
// on-demand run endpoint.
func (p *Pipeline) RunOnce(ctx context.Context) (*models.OptimizationRun, error) {
	return p.cycle(ctx)
}

func (p *Pipeline) runCycle() {
	ctx, cancel := context.WithTimeout(p.ctx, p.config.Interval)
	defer cancel()

	started := time.Now()
	run, err := p.cycle(ctx)
	if err != nil {
		return
	}

	metrics.CycleDuration.WithLabelValues(run.BuildingID).Observe(time.Since(started).Seconds())
}

func (p *Pipeline) cycle(ctx context.Context) (*models.OptimizationRun, error) {
	building := p.config.Building
	traceID := models.NewUUID()
	pub := p.config.Publisher.WithTraceID(traceID)
	now := time.Now()

	// Step 1: fetch the forecast and the outdoor environment.
	series, err := p.config.Forecasts.Forecast(ctx, building.Region, now.Truncate(p.config.SlotLength), p.config.ForecastSlots, p.config.SlotLength)
	if err != nil {
		return nil, p.fail(pub, "forecast", "Forecast fetch failed", err)
	}

	env, err := p.config.Weather.Weather(ctx, building.Region, now)
	if err != nil {
		return nil, p.fail(pub, "weather", "Weather fetch failed", err)
	}

	// Step 2: simulate the building's current load.
	state, err := p.config.Simulator.SimulateState(building.Topology, building.Topology.TypicalOccupancy, now.Hour(), env)
	if err != nil {
		return nil, p.fail(pub, "simulate", "Load simulation failed", err)
	}
	pub.StateSimulated(building.ID, state)

	// Step 3: rank the forecast windows.
	best, _, err := p.config.Scorer.RankWindows(ctx, series, p.config.TopN, p.config.BottomN)
	if err != nil {
		return nil, p.fail(pub, "rank", "Window ranking failed", err)
	}

	sustained, err := p.config.Scorer.BestSustainedWindow(series, p.config.SustainedSlots)
	if err != nil {
		return nil, p.fail(pub, "rank", "Sustained window search failed", err)
	}
	pub.WindowsRanked(building.ID, best, sustained)

	// Step 4: plan and apply actions.
	actions := p.config.Planner.Plan(state, sustained)
	pub.ActionsPlanned(building.ID, actions)

	optimized, savings, results, err := p.config.Impact.ApplyActions(state, actions)
	if err != nil {
		return nil, p.fail(pub, "impact", "Action application failed", err)
	}
	pub.ImpactApplied(building.ID, savings, results)

	// Step 5: aggregate and project.
	runMetrics := p.config.Aggregator.Aggregate(savings)
	annual, err := impact.Scale(runMetrics, hoursPerYear)
	if err != nil {
		return nil, p.fail(pub, "aggregate", "Projection failed", err)
	}

	run := &models.OptimizationRun{
		ID:                 models.NewUUID(),
		BuildingID:         building.ID,
		Timestamp:          now,
		BaselineKW:         state.TotalConsumptionKW(),
		OptimizedKW:        optimized.TotalConsumptionKW(),
		RealizedSavingsKWh: savings,
		Metrics:            runMetrics,
		AnnualProjection:   annual,
		ActionResults:      results,
	}
	if len(best) > 0 {
		run.BestWindow = &best[0]
	}

	pub.RunCompleted(run)
	p.recordMetrics(run)
	p.cacheSnapshot(ctx, run)

	return run, nil
}

func (p *Pipeline) fail(pub *events.Publisher, stage, message string, err error) error {
	buildingID := p.config.Building.ID
	logger.WithBuilding(buildingID).Errorf("%s: %v", message, err)
	pub.Error(buildingID, message, err)
	metrics.RunErrors.WithLabelValues(buildingID, stage).Inc()
	return err
}

func (p *Pipeline) recordMetrics(run *models.OptimizationRun) {
	metrics.RunsTotal.WithLabelValues(run.BuildingID).Inc()
	metrics.RealizedSavingsKWh.WithLabelValues(run.BuildingID).Set(run.RealizedSavingsKWh)
	metrics.BaselineKW.WithLabelValues(run.BuildingID).Set(run.BaselineKW)
	if run.BestWindow != nil {
		metrics.BestWindowScore.WithLabelValues(run.BuildingID).Set(run.BestWindow.Score)
	}
}

func (p *Pipeline) cacheSnapshot(ctx context.Context, run *models.OptimizationRun) {
	if p.config.Snapshots == nil {
		return
	}
	if err := p.config.Snapshots.Set(ctx, "run:"+run.BuildingID, run, 0); err != nil {
		logger.WithBuilding(run.BuildingID).Warnf("Failed to cache run snapshot: %v", err)
	}
}
