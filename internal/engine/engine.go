// Package engine provides the day-stepping simulation driver. It owns the
// run's random source, sequences every per-tick mutation of the farm state,
// and accumulates the daily log. One Farm per run; nothing is shared between
// runs and nothing survives the run.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/verdantworks/agrosim/internal/decision"
	"github.com/verdantworks/agrosim/internal/farm"
	"github.com/verdantworks/agrosim/internal/report"
	"github.com/verdantworks/agrosim/internal/sensors"
	"github.com/verdantworks/agrosim/internal/weather"
)

// DailyLogEntry is an immutable per-tick snapshot. Counters are cumulative.
type DailyLogEntry struct {
	Day               int     `json:"day"`
	SoilMoistureAvg   float64 `json:"soil_moisture"`
	SoilN             float64 `json:"soil_n"`
	PestPressure      float64 `json:"pest_pressure"`
	CropGrowth        float64 `json:"crop_growth"`
	WaterUsed         float64 `json:"water_used"`
	IrrigationApplied float64 `json:"irrigation"`
	FertilizerApplied float64 `json:"fertilizer"`
}

// Farm is the handle for one simulation run.
type Farm struct {
	cfg     farm.Config
	rng     *rand.Rand
	state   *farm.State
	profile weather.Profile
	network *sensors.Network
	log     []DailyLogEntry
}

// New validates the configuration and assembles a run: random source seeded
// from cfg.Seed, initial state, precomputed weather horizon, sensor fleet.
func New(cfg farm.Config) (*Farm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("create farm: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Int63()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	f := &Farm{
		cfg:     cfg,
		rng:     rng,
		state:   farm.NewState(cfg, rng),
		profile: weather.Generate(rng, cfg.Days, string(cfg.Crop)),
	}
	f.network = sensors.NewNetwork(rng, f.state)

	slog.Debug("farm created",
		"size_ha", cfg.SizeHectares,
		"crop", cfg.Crop,
		"soil", cfg.Soil,
		"days", cfg.Days,
		"seed", cfg.Seed,
		"sensors", len(f.network.Nodes()),
	)
	return f, nil
}

// NewWithProfile is New with an explicit weather profile, for consumers that
// replay recorded weather or run forced scenarios. The profile must cover
// the configured horizon.
func NewWithProfile(cfg farm.Config, profile weather.Profile) (*Farm, error) {
	f, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if profile.Len() < cfg.Days {
		return nil, fmt.Errorf("create farm: profile covers %d of %d days", profile.Len(), cfg.Days)
	}
	f.profile = profile
	return f, nil
}

// Config returns the run configuration, with the effective seed filled in.
func (f *Farm) Config() farm.Config { return f.cfg }

// State exposes the farm state for read access (reports, dashboards).
func (f *Farm) State() *farm.State { return f.state }

// Weather returns the precomputed weather profile for the run.
func (f *Farm) Weather() weather.Profile { return f.profile }

// Uptime returns the current sensor fleet uptime percentage.
func (f *Farm) Uptime() float64 { return f.network.Uptime() }

// Log returns the daily log accumulated so far.
func (f *Farm) Log() []DailyLogEntry { return f.log }

// AdvanceDay runs one tick: farm physics for today's weather, sensor
// collection, decision, action application, economics, then the clock.
// Returns true while more days remain. At the terminal state it returns
// false without touching anything, so extra calls are harmless.
func (f *Farm) AdvanceDay() bool {
	if f.state.Day >= f.cfg.Days {
		return false
	}

	wx := f.profile.Day(f.state.Day)

	matured := f.state.Matured()
	f.state.UpdateSoilMoisture(f.rng, wx)
	f.state.UpdateCropGrowth(wx)
	f.state.UptakeNutrients()
	f.state.UpdatePestPressure(wx)
	if !matured && f.state.Matured() {
		slog.Info("crop reached maturity", "day", f.state.Day+1, "yield_kg", f.state.YieldKg)
	}

	obs := f.network.Collect()
	acts := decision.Decide(obs, wx, f.state.GrowthStage)
	f.apply(acts)

	f.state.AccrueCosts()
	if f.state.Day == f.cfg.Days-1 {
		f.state.CloseRevenue()
	}

	f.state.Day++
	f.state.Date = f.state.Date.AddDate(0, 0, 1)

	f.log = append(f.log, DailyLogEntry{
		Day:               f.state.Day,
		SoilMoistureAvg:   f.state.AvgMoisture(),
		SoilN:             f.state.Nutrients.N,
		PestPressure:      f.state.PestPressure,
		CropGrowth:        f.state.GrowthStage,
		WaterUsed:         f.state.WaterUsed,
		IrrigationApplied: f.state.IrrigationApplied,
		FertilizerApplied: f.state.FertilizerApplied,
	})

	return f.state.Day < f.cfg.Days
}

// apply executes the day's actions against the state.
func (f *Farm) apply(a decision.Actions) {
	if a.Irrigate {
		f.state.ApplyIrrigation(a.IrrigationMM)
	}
	if a.Fertilize {
		f.state.ApplyFertilizer(a.FertilizerKg)
	}
	if a.ApplyPesticide {
		f.state.ApplyPesticide()
	}
}

// RunToCompletion advances through every remaining day and returns the final
// report with the full daily log.
func (f *Farm) RunToCompletion() (report.Report, []DailyLogEntry) {
	for f.AdvanceDay() {
	}
	return f.Report(), f.log
}

// Report builds the summary for the run so far. Callable at any point.
func (f *Farm) Report() report.Report {
	return report.Build(f.state, f.network.Uptime())
}
