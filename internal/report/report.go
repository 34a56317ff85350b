// Package report reduces a farm state into the run summary. Build is a pure
// read: it can be called mid-run for a partial picture or at the end for the
// final report.
package report

import (
	"math"

	"github.com/verdantworks/agrosim/internal/farm"
)

// Baselines for the savings calculations, per hectare over a full season.
const (
	baselineWaterPerHa      = 600  // liters equivalent
	baselineFertilizerPerHa = 150  // kg
	baselineYieldPerHa      = 4000 // kg
)

// Report is the run summary. One unified shape carries both the economic
// summary and the final-state fields.
type Report struct {
	TotalDays         int     `json:"total_days"`
	FinalCropGrowth   float64 `json:"final_crop_growth"`
	FinalSoilN        float64 `json:"final_soil_n_ppm"`
	FinalPestPressure float64 `json:"final_pest_pressure"`

	WaterUsedM3          float64 `json:"water_used_m3"`
	WaterSavingsPct      float64 `json:"water_savings_pct"`
	FertilizerUsedKg     float64 `json:"fertilizer_used_kg"`
	FertilizerSavingsPct float64 `json:"fertilizer_savings_pct"`
	YieldKg              float64 `json:"yield_kg"`
	YieldIncreasePct     float64 `json:"yield_increase_pct"`

	TotalCost       float64 `json:"total_cost"`
	Revenue         float64 `json:"revenue"`
	ROIPct          float64 `json:"roi_pct"`
	SensorUptimePct float64 `json:"sensor_uptime_pct"`
}

// Build computes the summary from the state plus the sensor fleet's uptime.
func Build(st *farm.State, sensorUptime float64) Report {
	waterSavings := 1 - st.WaterUsed/(st.Size*baselineWaterPerHa)
	fertSavings := 1 - st.FertilizerApplied/(st.Size*baselineFertilizerPerHa)

	totalCost := st.Costs.Total() * float64(st.Days)

	return Report{
		TotalDays:         st.Day,
		FinalCropGrowth:   round2(st.GrowthStage),
		FinalSoilN:        round2(st.Nutrients.N),
		FinalPestPressure: round2(st.PestPressure),

		WaterUsedM3:          round1(st.WaterUsed * st.Size * 10),
		WaterSavingsPct:      round1(waterSavings * 100),
		FertilizerUsedKg:     round1(st.FertilizerApplied),
		FertilizerSavingsPct: round1(fertSavings * 100),
		YieldKg:              round1(st.YieldKg),
		YieldIncreasePct:     round1((st.YieldKg/(st.Size*baselineYieldPerHa) - 1) * 100),

		TotalCost:       round2(totalCost),
		Revenue:         round2(st.Revenue),
		ROIPct:          round1(roi(st.Revenue, totalCost)),
		SensorUptimePct: round1(sensorUptime),
	}
}

// roi returns the net benefit over total cost as a percentage. Defined as 0
// when nothing was spent, so a zero-cost run never divides by zero.
func roi(revenue, totalCost float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	return (revenue - totalCost) / totalCost * 100
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
