package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpulse/energy-optimizer/internal/events"
	"github.com/gridpulse/energy-optimizer/internal/impact"
	"github.com/gridpulse/energy-optimizer/internal/planner"
	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/internal/simulator"
	"github.com/gridpulse/energy-optimizer/internal/windows"
	"github.com/gridpulse/energy-optimizer/pkg/cache"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

func testBuilding() *models.Building {
	return models.NewBuilding("hq-tower", "NSW1", &models.Topology{
		FloorAreaSqm:     12000,
		MaxOccupancy:     400,
		TypicalOccupancy: 250,
		Subsystems: []models.Subsystem{
			{ID: "hvac-1", Type: models.SubsystemHVAC, MaxCapacityKW: 800, Controllable: true},
			{ID: "light-1", Type: models.SubsystemLighting, MaxCapacityKW: 200, Controllable: true},
			{ID: "batch-1", Type: models.SubsystemCompute, MaxCapacityKW: 150, Controllable: true},
			{ID: "dc-1", Type: models.SubsystemCompute, MaxCapacityKW: 500, Controllable: false},
		},
	})
}

func testPipeline(t *testing.T, bus *events.EventBus) *Pipeline {
	t.Helper()

	scorer, err := windows.NewScorer(windows.DefaultWeights(), windows.DefaultReferences())
	require.NoError(t, err)

	mock := provider.NewMockProvider(provider.MockProviderConfig{Regions: []string{"NSW1"}, Seed: 42})

	return NewPipeline(PipelineConfig{
		Building:   testBuilding(),
		Forecasts:  mock,
		Weather:    mock,
		Simulator:  simulator.New(simulator.Config{Seed: 42}),
		Scorer:     scorer,
		Planner:    planner.NewEngine(planner.Config{}),
		Impact:     impact.New(impact.DefaultPolicy()),
		Aggregator: impact.NewAggregator(0, 0),
		Publisher:  events.NewPublisher(bus),
		Snapshots:  cache.NewMemoryCache(time.Minute),
	})
}

func TestRunOnceProducesCompleteRun(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	p := testPipeline(t, bus)

	run, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, p.config.Building.ID, run.BuildingID)
	assert.Greater(t, run.BaselineKW, 0.0)
	assert.LessOrEqual(t, run.OptimizedKW, run.BaselineKW)
	assert.GreaterOrEqual(t, run.RealizedSavingsKWh, 0.0)
	require.NotNil(t, run.BestWindow)
	assert.GreaterOrEqual(t, run.BestWindow.Score, 0.0)
	assert.LessOrEqual(t, run.BestWindow.Score, 100.0)

	// The annual projection scales the per-run figures linearly.
	assert.InDelta(t, run.Metrics.EnergyKWh*hoursPerYear, run.AnnualProjection.EnergyKWh, 1e-6)
}

func TestRunOncePublishesLifecycleEvents(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	completed := bus.Subscribe(models.EventTypeRunCompleted)
	simulated := bus.Subscribe(models.EventTypeStateSimulated)

	p := testPipeline(t, bus)

	run, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	select {
	case ev := <-completed:
		got, ok := ev.Data.(*models.OptimizationRun)
		require.True(t, ok)
		assert.Equal(t, run.ID, got.ID)
	default:
		t.Fatal("expected a run_completed event")
	}

	select {
	case ev := <-simulated:
		assert.Equal(t, run.BuildingID, ev.BuildingID)
	default:
		t.Fatal("expected a state_simulated event")
	}
}

func TestRunOnceCachesSnapshot(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	p := testPipeline(t, bus)

	run, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	var cached models.OptimizationRun
	require.NoError(t, p.config.Snapshots.Get(context.Background(), "run:"+run.BuildingID, &cached))
	assert.Equal(t, run.ID, cached.ID)
}

func TestRunOnceFailsOnProviderError(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	errorEvents := bus.Subscribe(models.EventTypeError)

	p := testPipeline(t, bus)
	p.config.Building.Region = "NOWHERE"

	_, err := p.RunOnce(context.Background())
	require.ErrorIs(t, err, provider.ErrRegionNotFound)

	select {
	case ev := <-errorEvents:
		assert.Equal(t, models.SeverityCritical, ev.Severity)
	default:
		t.Fatal("expected an error event")
	}
}

func TestPipelineStartStop(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()

	p := testPipeline(t, bus)
	p.config.Interval = time.Hour

	require.NoError(t, p.Start())
	assert.True(t, p.IsRunning())
	require.NoError(t, p.Start())

	p.Stop()
	assert.False(t, p.IsRunning())
	p.Stop()
}
