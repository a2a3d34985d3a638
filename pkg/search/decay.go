package search

import (
	"math"
	"time"

	"hybrid-search-be/internal/entity"
)

// ApplyDecay multiplies scores by a time-based factor keyed off record age.
// Exponential mode halves the factor every halfLife; linear mode reaches zero
// at twice the half-life. Results without a timestamp are left untouched.
func ApplyDecay(results []*entity.Result, mode string, halfLife time.Duration) {
	if mode == entity.DecayNone || halfLife <= 0 {
		return
	}

	now := time.Now()
	for _, r := range results {
		if r.Timestamp.IsZero() {
			continue
		}
		age := now.Sub(r.Timestamp)
		if age < 0 {
			age = 0
		}

		ratio := float64(age) / float64(halfLife)
		var factor float64
		switch mode {
		case entity.DecayExponential:
			factor = math.Pow(0.5, ratio)
		case entity.DecayLinear:
			factor = 1 - ratio/2
			if factor < 0 {
				factor = 0
			}
		default:
			continue
		}
		r.Score *= factor
	}

	SortResults(results)
}
