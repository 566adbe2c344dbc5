package calibration

import (
	"math"

	"github.com/abhisek/mathprobe/internal/irt"
)

// Fit summarises how well calibrated parameters reproduce the observed
// responses. Infit and outfit mean-squares near 1 indicate good fit.
type Fit struct {
	Infit  float64 `json:"infit"`
	Outfit float64 `json:"outfit"`
	RMSE   float64 `json:"rmse"`
}

// computeFit evaluates item against the observations it was fitted on.
// Observations where the model variance is zero are left out of infit and
// outfit.
func computeFit(item irt.ItemParameters, obs []Observation) Fit {
	if len(obs) == 0 {
		return Fit{}
	}
	var sumSq, sumZ2, sumWeightedSq, sumVar float64
	counted := 0
	for _, o := range obs {
		p := irt.Probability(o.Theta, item)
		u := 0.0
		if o.IsCorrect {
			u = 1
		}
		sq := (u - p) * (u - p)
		sumSq += sq

		v := p * (1 - p)
		if v <= 0 {
			continue
		}
		sumZ2 += sq / v
		sumWeightedSq += sq
		sumVar += v
		counted++
	}

	fit := Fit{RMSE: math.Sqrt(sumSq / float64(len(obs)))}
	if counted > 0 {
		fit.Outfit = sumZ2 / float64(counted)
		fit.Infit = sumWeightedSq / sumVar
	}
	return fit
}
