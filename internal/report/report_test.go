package report

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/verdantworks/agrosim/internal/farm"
)

func testState(t *testing.T) *farm.State {
	t.Helper()
	cfg := farm.Config{
		SizeHectares: 10,
		Crop:         farm.CropWheat,
		Soil:         farm.SoilLoam,
		Days:         120,
		StartDate:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	return farm.NewState(cfg, rand.New(rand.NewSource(1)))
}

func TestROIZeroWhenNoCost(t *testing.T) {
	st := testState(t)
	st.Revenue = 5000 // Even with revenue booked, zero cost means ROI 0.

	rep := Build(st, 100)
	if rep.ROIPct != 0 {
		t.Errorf("ROI = %v, want 0 for zero total cost", rep.ROIPct)
	}
	if rep.TotalCost != 0 {
		t.Errorf("total cost = %v, want 0", rep.TotalCost)
	}
}

func TestROIComputation(t *testing.T) {
	st := testState(t)
	st.Costs.Labor = 1 // ×120 days = 120 total
	st.Revenue = 300

	rep := Build(st, 100)
	// (300 - 120) / 120 × 100 = 150%
	if rep.ROIPct != 150 {
		t.Errorf("ROI = %v, want 150", rep.ROIPct)
	}
}

func TestSavingsBaselines(t *testing.T) {
	st := testState(t)
	st.WaterUsed = 3000        // Half of the 10 ha × 600 baseline.
	st.FertilizerApplied = 750 // Half of the 10 ha × 150 baseline.

	rep := Build(st, 100)
	if rep.WaterSavingsPct != 50 {
		t.Errorf("water savings = %v, want 50", rep.WaterSavingsPct)
	}
	if rep.FertilizerSavingsPct != 50 {
		t.Errorf("fertilizer savings = %v, want 50", rep.FertilizerSavingsPct)
	}
	if rep.WaterUsedM3 != 3000*10*10 {
		t.Errorf("water used m3 = %v, want %v", rep.WaterUsedM3, 3000*10*10)
	}
}

func TestYieldIncrease(t *testing.T) {
	st := testState(t)
	st.YieldKg = 44000 // Baseline is 10 ha × 4000 = 40000.

	rep := Build(st, 100)
	if rep.YieldIncreasePct != 10 {
		t.Errorf("yield increase = %v, want 10", rep.YieldIncreasePct)
	}
}

func TestFinalStateFields(t *testing.T) {
	st := testState(t)
	st.Day = 87
	st.GrowthStage = 0.8149
	st.Nutrients.N = 33.333
	st.PestPressure = 0.2288

	rep := Build(st, 93.3333)
	if rep.TotalDays != 87 {
		t.Errorf("total days = %d, want 87", rep.TotalDays)
	}
	if rep.FinalCropGrowth != 0.81 {
		t.Errorf("final growth = %v, want 0.81", rep.FinalCropGrowth)
	}
	if rep.FinalSoilN != 33.33 {
		t.Errorf("final soil N = %v, want 33.33", rep.FinalSoilN)
	}
	if rep.FinalPestPressure != 0.23 {
		t.Errorf("final pest = %v, want 0.23", rep.FinalPestPressure)
	}
	if rep.SensorUptimePct != 93.3 {
		t.Errorf("uptime = %v, want 93.3", rep.SensorUptimePct)
	}
}

func TestBuildIsPure(t *testing.T) {
	st := testState(t)
	st.Day = 10
	st.WaterUsed = 123.456

	before := *st
	beforeMoisture := append([]float64(nil), st.SoilMoisture...)
	Build(st, 80)

	if st.Day != before.Day || st.WaterUsed != before.WaterUsed ||
		st.GrowthStage != before.GrowthStage || st.Nutrients != before.Nutrients ||
		st.Costs != before.Costs || st.Revenue != before.Revenue {
		t.Error("Build mutated the state")
	}
	for i, m := range st.SoilMoisture {
		if math.Abs(m-beforeMoisture[i]) > 0 {
			t.Errorf("Build mutated moisture band %d", i)
		}
	}
}
