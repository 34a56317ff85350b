package decision

import (
	"testing"

	"github.com/verdantworks/agrosim/internal/sensors"
	"github.com/verdantworks/agrosim/internal/weather"
)

func TestCropCoefficient(t *testing.T) {
	tests := []struct {
		stage float64
		want  float64
	}{
		{0, 0.3},
		{0.29, 0.3},
		{0.3, 1.2},
		{0.5, 1.2},
		{0.69, 1.2},
		{0.7, 0.6},
		{1.0, 0.6},
	}
	for _, tt := range tests {
		if got := CropCoefficient(tt.stage); got != tt.want {
			t.Errorf("CropCoefficient(%v) = %v, want %v", tt.stage, got, tt.want)
		}
	}
}

func TestDecideIrrigation(t *testing.T) {
	tests := []struct {
		name     string
		moisture float64
		want     bool
		wantMM   float64
	}{
		{"well watered", 30, false, 0},
		{"deficit inside deadband", 20.5, false, 0},
		{"deficit at deadband boundary", 20, false, 0},
		{"moderate deficit", 18, true, 8.4}, // (25-18)*1.2
		{"deep deficit capped", 5, true, 10},
		{"bone dry capped", 0, true, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Decide(sensors.Observation{SoilMoistureAvg: tt.moisture}, weather.Day{}, 0.5)
			if a.Irrigate != tt.want {
				t.Fatalf("Irrigate = %v, want %v", a.Irrigate, tt.want)
			}
			if a.IrrigationMM < tt.wantMM-0.001 || a.IrrigationMM > tt.wantMM+0.001 {
				t.Errorf("IrrigationMM = %v, want %v", a.IrrigationMM, tt.wantMM)
			}
		})
	}
}

func TestDecideFertilization(t *testing.T) {
	tests := []struct {
		name   string
		soilN  float64
		stage  float64
		want   bool
		wantKg float64
	}{
		{"plenty of nitrogen", 45, 0.5, false, 0},
		{"deficit but crop too young", 10, 0.15, false, 0},
		{"deficit but crop too mature", 10, 0.85, false, 0},
		{"deficit in window", 20, 0.5, true, 20},                // (40-20)*0.5=10 > 5, 10*2 = 20 capped
		{"small deficit in window", 30, 0.6, true, 12},          // (40-30)*0.6=6 > 5, 6*2
		{"weighted deficit under threshold", 30, 0.4, false, 0}, // (40-30)*0.4=4
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Decide(sensors.Observation{SoilMoistureAvg: 30, SoilN: tt.soilN}, weather.Day{}, tt.stage)
			if a.Fertilize != tt.want {
				t.Fatalf("Fertilize = %v, want %v", a.Fertilize, tt.want)
			}
			if a.FertilizerKg < tt.wantKg-0.001 || a.FertilizerKg > tt.wantKg+0.001 {
				t.Errorf("FertilizerKg = %v, want %v", a.FertilizerKg, tt.wantKg)
			}
		})
	}
}

func TestDecidePesticide(t *testing.T) {
	tests := []struct {
		pest float64
		want bool
	}{
		{0, false},
		{0.4, false},
		{0.41, true},
		{1.0, true},
	}
	for _, tt := range tests {
		a := Decide(sensors.Observation{SoilMoistureAvg: 30, SoilN: 45, PestPressure: tt.pest}, weather.Day{}, 0.5)
		if a.ApplyPesticide != tt.want {
			t.Errorf("pest=%v: ApplyPesticide = %v, want %v", tt.pest, a.ApplyPesticide, tt.want)
		}
	}
}

func TestDecideIsPure(t *testing.T) {
	obs := sensors.Observation{SoilMoistureAvg: 12, SoilN: 18, PestPressure: 0.6}
	wx := weather.Day{Temperature: 25, Rainfall: 0, Evapotranspiration: 14}
	first := Decide(obs, wx, 0.5)
	for i := 0; i < 10; i++ {
		if got := Decide(obs, wx, 0.5); got != first {
			t.Fatalf("Decide is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestReferenceDemand(t *testing.T) {
	wx := weather.Day{Evapotranspiration: 10}
	if got := ReferenceDemand(0.5, wx); got != 12 {
		t.Errorf("ReferenceDemand mid-season = %v, want 12", got)
	}
	if got := ReferenceDemand(0.1, wx); got != 3 {
		t.Errorf("ReferenceDemand establishment = %v, want 3", got)
	}
}
