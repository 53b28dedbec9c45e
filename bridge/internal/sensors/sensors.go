package sensors

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// Critical thresholds for the three field sensors. A reading above a
// threshold counts as an exceedance; all three at once is a red alert.
const (
	TempCriticalCelsius = 95.0
	GasCriticalPPM      = 120.0
	VibCriticalG        = 0.8
)

// criticalBias is the probability that a simulated cycle forces every
// sensor into the critical zone at once.
const criticalBias = 0.05

// Reading is one cycle's worth of raw sensor values.
type Reading struct {
	Temperature float64 // °C
	GasPPM      float64 // parts per million
	VibrationG  float64 // g-force
}

// Simulate generates a biased random Reading. The distribution is tuned so
// warnings are frequent and full criticals occasionally occur, which keeps
// the downstream alert path exercised without a real sensor array.
func Simulate(rng *rand.Rand) Reading {
	if rng.Float64() < criticalBias {
		return Reading{
			Temperature: uniform(rng, 98, 110),
			GasPPM:      uniform(rng, 130, 200),
			VibrationG:  uniform(rng, 0.9, 1.5),
		}
	}
	return Reading{
		Temperature: uniform(rng, 85, 105),
		GasPPM:      uniform(rng, 80, 150),
		VibrationG:  uniform(rng, 0.6, 1.2),
	}
}

// Evaluate classifies a Reading against the critical thresholds.
//
// All three sensors over threshold → red alert. Any single exceedance →
// yellow warning listing the offending sensors. A nominal reading returns
// ok=false, which the HTTP layer maps to 204 No Content.
func Evaluate(r Reading) (types.AlertPayload, bool) {
	tempHigh := r.Temperature > TempCriticalCelsius
	gasHigh := r.GasPPM > GasCriticalPPM
	vibHigh := r.VibrationG > VibCriticalG

	switch {
	case tempHigh && gasHigh && vibHigh:
		msg := fmt.Sprintf(
			"CRITICAL SYSTEM FAILURE: ALL Sensors Exceeded Thresholds! T:%.1f°C, G:%.0f ppm, V:%.2fg.",
			r.Temperature, r.GasPPM, r.VibrationG,
		)
		return types.AlertPayload{Severity: types.SeverityRed, Message: msg}, true

	case tempHigh || gasHigh || vibHigh:
		var warnings []string
		if tempHigh {
			warnings = append(warnings, fmt.Sprintf("High Temp (%.1f°C)", r.Temperature))
		}
		if gasHigh {
			warnings = append(warnings, fmt.Sprintf("High Gas (%.0f ppm)", r.GasPPM))
		}
		if vibHigh {
			warnings = append(warnings, fmt.Sprintf("High Vib (%.2f g)", r.VibrationG))
		}
		msg := fmt.Sprintf("WARNING: Elevated Sensor Readings: %s. Monitor system.",
			strings.Join(warnings, ", "))
		return types.AlertPayload{Severity: types.SeverityYellow, Message: msg}, true

	default:
		return types.AlertPayload{}, false
	}
}

// uniform returns a random float64 in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
