// Package farm holds the mutable simulation state and its per-tick physics.
// The day-step driver in internal/engine is the sole sequencer of mutations;
// everything else reads the state through non-owning references.
package farm

import (
	"math"
	"math/rand"
	"time"

	"github.com/verdantworks/agrosim/internal/weather"
)

// MoistureBands is the number of soil depth bands tracked per field.
const MoistureBands = 3

// MaturityThreshold is the growth stage at which yield is locked in.
const MaturityThreshold = 0.95

// Nutrients tracks soil macronutrient levels in ppm.
type Nutrients struct {
	N float64 `json:"n"`
	P float64 `json:"p"`
	K float64 `json:"k"`
}

// Costs accumulates spend per category.
type Costs struct {
	System     float64 `json:"system"`
	Water      float64 `json:"water"`
	Fertilizer float64 `json:"fertilizer"`
	Labor      float64 `json:"labor"`
}

// Total sums all cost categories.
func (c Costs) Total() float64 {
	return c.System + c.Water + c.Fertilizer + c.Labor
}

// State is the complete mutable farm state for one run.
type State struct {
	Size float64
	Crop CropType
	Soil SoilType
	Days int

	Day  int       // Tick counter, 0..Days.
	Date time.Time // Calendar date of the current day.

	SoilMoisture []float64 // One entry per depth band, always >= 0.
	Nutrients    Nutrients
	PestPressure float64 // In [0,1].
	GrowthStage  float64 // In [0,1], non-decreasing.

	WaterUsed         float64
	IrrigationApplied float64
	FertilizerApplied float64
	YieldKg           float64
	Costs             Costs
	Revenue           float64

	yieldSet bool
}

// NewState creates the initial farm state. Initial moisture depends on soil
// type; every band is drawn independently from rng.
func NewState(cfg Config, rng *rand.Rand) *State {
	var lo, hi float64
	switch cfg.Soil {
	case SoilSandy:
		lo, hi = 15, 25
	case SoilClay:
		lo, hi = 30, 40
	default:
		lo, hi = 20, 30
	}

	moisture := make([]float64, MoistureBands)
	for i := range moisture {
		moisture[i] = lo + rng.Float64()*(hi-lo)
	}

	return &State{
		Size:         cfg.SizeHectares,
		Crop:         cfg.Crop,
		Soil:         cfg.Soil,
		Days:         cfg.Days,
		Date:         cfg.StartDate,
		SoilMoisture: moisture,
		Nutrients:    Nutrients{N: 50, P: 30, K: 40},
		PestPressure: 0.1,
	}
}

// AvgMoisture returns the mean soil moisture across depth bands.
func (s *State) AvgMoisture() float64 {
	sum := 0.0
	for _, m := range s.SoilMoisture {
		sum += m
	}
	return sum / float64(len(s.SoilMoisture))
}

// Matured reports whether the yield has been locked in.
func (s *State) Matured() bool { return s.yieldSet }

// UpdateSoilMoisture applies evapotranspiration-driven depletion and the
// rainfall recharge for the day. Depletion is accumulated into WaterUsed.
func (s *State) UpdateSoilMoisture(rng *rand.Rand, wx weather.Day) {
	depletion := 0.7*wx.Evapotranspiration + rng.NormFloat64()*0.2
	recharge := 0.6 * wx.Rainfall
	for i := range s.SoilMoisture {
		s.SoilMoisture[i] = math.Max(0, s.SoilMoisture[i]-depletion+recharge)
	}
	s.WaterUsed += depletion
}

// UpdateCropGrowth advances the growth stage. Growth scales with capped
// temperature and average moisture, and is attenuated under heat or drought
// stress. The first time the stage crosses the maturity threshold, yield is
// computed once with a heat-stress penalty and never recomputed.
func (s *State) UpdateCropGrowth(wx weather.Day) {
	growth := 0.008 * math.Min(wx.Temperature, 30) / 30
	growth *= s.AvgMoisture() / 30
	if wx.Temperature > 32 {
		growth *= 0.7
	}
	if s.AvgMoisture() < 15 {
		growth *= 0.5
	}
	s.GrowthStage = math.Min(1.0, s.GrowthStage+growth)

	if s.GrowthStage >= MaturityThreshold && !s.yieldSet {
		stress := 1 - math.Max(0, wx.Temperature-30)/20
		s.YieldKg = s.Size * 5000 * math.Max(0, stress)
		s.yieldSet = true
	}
}

// UptakeNutrients depletes soil nitrogen in proportion to crop growth.
func (s *State) UptakeNutrients() {
	s.Nutrients.N = math.Max(0, s.Nutrients.N-0.3*s.GrowthStage)
}

// UpdatePestPressure grows pest pressure with temperature, amplified in wet
// conditions, then applies the fixed daily decay. Always clamped to [0,1].
func (s *State) UpdatePestPressure(wx weather.Day) {
	humidity := 1.0
	if wx.Rainfall > 5 {
		humidity = 1.3
	}
	p := s.PestPressure * (1 + 0.05*wx.Temperature/25) * humidity
	p = math.Min(1.0, p) * 0.95
	s.PestPressure = math.Min(1, math.Max(0, p))
}

// ApplyIrrigation adds water to every depth band at 80% efficiency and
// accounts for the full applied amount.
func (s *State) ApplyIrrigation(amount float64) {
	for i := range s.SoilMoisture {
		s.SoilMoisture[i] += amount * 0.8
	}
	s.IrrigationApplied += amount
	s.WaterUsed += amount
}

// ApplyFertilizer adds nitrogen at 70% efficiency.
func (s *State) ApplyFertilizer(amount float64) {
	s.Nutrients.N += amount * 0.7
	s.FertilizerApplied += amount
}

// ApplyPesticide knocks pest pressure down to 30% of its current level.
func (s *State) ApplyPesticide() {
	s.PestPressure *= 0.3
}

// AccrueCosts charges the day's costs: water and fertilizer in proportion to
// the cumulative amounts applied, a daily labor share, and a flat amortized
// system cost.
func (s *State) AccrueCosts() {
	s.Costs.Water += s.IrrigationApplied * 0.05
	s.Costs.Fertilizer += s.FertilizerApplied * 1.2
	s.Costs.Labor += 20 / float64(s.Days)
	s.Costs.System = 3500 / (365.0 * 5)
}

// CloseRevenue books the harvest revenue at unit price. Called once, on the
// final tick.
func (s *State) CloseRevenue() {
	s.Revenue = s.YieldKg * 0.3
}
