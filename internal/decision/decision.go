// Package decision holds the automated control rules. Decide is a pure
// function over the day's sensor observation and weather: no randomness, no
// state mutation. The driver applies its output immediately.
package decision

import (
	"github.com/verdantworks/agrosim/internal/sensors"
	"github.com/verdantworks/agrosim/internal/weather"
)

// Actions is the control decision for one day.
type Actions struct {
	Irrigate       bool
	IrrigationMM   float64
	Fertilize      bool
	FertilizerKg   float64
	ApplyPesticide bool
}

// Rule thresholds.
const (
	moistureTarget   = 25 // Target average soil moisture.
	moistureDeadband = 5  // Deficit below which irrigation stays off.
	irrigationCapMM  = 10

	nitrogenTarget  = 40 // ppm
	fertilizerCapKg = 20

	pestThreshold = 0.4
)

// CropCoefficient returns the stage-dependent crop water-use coefficient:
// low in establishment, peaking mid-season, tapering toward maturity.
func CropCoefficient(stage float64) float64 {
	switch {
	case stage < 0.3:
		return 0.3
	case stage < 0.7:
		return 1.2
	default:
		return 0.6
	}
}

// ReferenceDemand is the crop's reference water demand for the day
// (coefficient × evapotranspiration). Informational: irrigation triggers on
// observed moisture deficit, not on demand.
func ReferenceDemand(stage float64, wx weather.Day) float64 {
	return CropCoefficient(stage) * wx.Evapotranspiration
}

// Decide maps the day's observation, weather, and growth stage to actions.
func Decide(obs sensors.Observation, wx weather.Day, stage float64) Actions {
	var a Actions

	deficit := moistureTarget - obs.SoilMoistureAvg
	if deficit > moistureDeadband {
		a.Irrigate = true
		a.IrrigationMM = min(deficit*1.2, irrigationCapMM)
	}

	nDeficit := (nitrogenTarget - obs.SoilN) * stage
	if nDeficit > 5 && stage > 0.2 && stage < 0.8 {
		a.Fertilize = true
		a.FertilizerKg = min(nDeficit*2, fertilizerCapKg)
	}

	if obs.PestPressure > pestThreshold {
		a.ApplyPesticide = true
	}

	return a
}
