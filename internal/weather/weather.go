// Package weather generates the per-day environmental profile for a run.
// Temperature follows a seasonal sinusoid with smooth simplex variation,
// rainfall is a Weibull-shaped heavy-tailed draw, and evapotranspiration is
// derived linearly from temperature with Gaussian noise.
package weather

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Day holds one day's environmental drivers.
type Day struct {
	Temperature        float64 `json:"temperature"`        // °C
	Rainfall           float64 `json:"rainfall"`           // mm
	Evapotranspiration float64 `json:"evapotranspiration"` // mm
}

// Profile is an immutable day-indexed weather sequence covering a full run.
type Profile struct {
	days []Day
}

// Len returns the number of days in the profile.
func (p Profile) Len() int { return len(p.days) }

// Day returns the profile entry for day d (zero-based).
func (p Profile) Day(d int) Day { return p.days[d] }

// Days returns a copy of the full sequence, for consumers that render it.
func (p Profile) Days() []Day {
	out := make([]Day, len(p.days))
	copy(out, p.days)
	return out
}

// FromDays builds a profile from an explicit sequence. Used by consumers
// that replay recorded weather or construct forced scenarios.
func FromDays(days []Day) Profile {
	cp := make([]Day, len(days))
	copy(cp, days)
	return Profile{days: cp}
}

// Weibull rainfall parameters: shape 0.8 gives the heavy tail, scaled to mm.
const (
	rainShape = 0.8
	rainScale = 5.0
)

// Generate produces a fully populated profile for the requested horizon.
// All randomness comes from rng, so a fixed seed reproduces the profile.
// Crop-specific shock windows are deterministic offsets applied after the
// base series is drawn, so two crops generated from the same rng state share
// the same underlying weather.
func Generate(rng *rand.Rand, days int, crop string) Profile {
	noise := opensimplex.NewNormalized(rng.Int63())

	seq := make([]Day, days)
	for d := 0; d < days; d++ {
		temp := 15 + 10*math.Sin(2*math.Pi*float64(d)/float64(days))
		// Simplex term adds smooth day-to-day variation on top of the
		// seasonal curve, within roughly ±1.5 °C.
		temp += (noise.Eval2(float64(d)*0.35, 0) - 0.5) * 3

		u := rng.Float64()
		rain := rainScale * math.Pow(-math.Log(1-u), 1/rainShape)

		et := 0.5*temp + 2 + rng.NormFloat64()*0.5

		seq[d] = Day{Temperature: temp, Rainfall: rain, Evapotranspiration: et}
	}

	applyShocks(seq, crop)

	for d := range seq {
		seq[d].Temperature = round1(seq[d].Temperature)
		seq[d].Rainfall = round1(math.Max(0, seq[d].Rainfall))
		seq[d].Evapotranspiration = round1(seq[d].Evapotranspiration)
	}

	return Profile{days: seq}
}

// applyShocks overlays fixed-window additive offsets for crops that carry
// them. Windows are clipped to the horizon.
func applyShocks(seq []Day, crop string) {
	if crop != "wheat" {
		return
	}
	// Mid-season heat wave.
	for d := 40; d < 45 && d < len(seq); d++ {
		seq[d].Temperature += 8
	}
	// Late-season drought suppresses rainfall.
	for d := 60; d < 80 && d < len(seq); d++ {
		seq[d].Rainfall = math.Max(0, seq[d].Rainfall-0.7)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
