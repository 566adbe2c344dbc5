package calibration

import (
	"math"
	"time"

	"github.com/abhisek/mathprobe/internal/irt"
)

// Observation is one response to an item paired with the responder's
// current ability estimate.
type Observation struct {
	LearnerID string
	IsCorrect bool
	Theta     float64
}

// ItemResponseData is everything known about one item's responses.
type ItemResponseData struct {
	Item         irt.ItemParameters
	Observations []Observation
}

// Result is a freshly calibrated item with its fit to the data.
type Result struct {
	Item     irt.ItemParameters
	PassRate float64
	Fit      Fit
}

// CalibrateItem re-estimates difficulty and discrimination for data.Item.
// Returns nil when there are fewer than cfg.MinCalibrationSample
// observations.
func CalibrateItem(data ItemResponseData, cfg Config, at time.Time) *Result {
	n := len(data.Observations)
	if n == 0 || n < cfg.MinCalibrationSample {
		return nil
	}

	c := data.Item.Guessing
	var (
		correct           int
		sumTheta          float64
		sumCorrectTheta   float64
		sumIncorrectTheta float64
	)
	for _, o := range data.Observations {
		sumTheta += o.Theta
		if o.IsCorrect {
			correct++
			sumCorrectTheta += o.Theta
		} else {
			sumIncorrectTheta += o.Theta
		}
	}
	p := float64(correct) / float64(n)
	meanTheta := sumTheta / float64(n)

	pAdj := clamp(p, c+0.01, 0.99)
	b := meanTheta - math.Log((pAdj-c)/(1-pAdj))

	a := defaultDiscrimination
	var variance float64
	for _, o := range data.Observations {
		d := o.Theta - meanTheta
		variance += d * d
	}
	variance /= float64(n)
	incorrect := n - correct
	if correct > 0 && incorrect > 0 && variance >= minAbilityVariance {
		m1 := sumCorrectTheta / float64(correct)
		m0 := sumIncorrectTheta / float64(incorrect)
		rpb := (m1 - m0) / math.Sqrt(variance) * math.Sqrt(p*(1-p))
		a = rpb * irt.D * discriminationScale
	}

	item := data.Item
	item.Difficulty = clamp(b, irt.MinDifficulty, irt.MaxDifficulty)
	item.Discrimination = clamp(a, irt.MinDiscrimination, irt.MaxDiscrimination)
	item.SampleSize = n
	item.LastCalibrated = at

	return &Result{
		Item:     item,
		PassRate: p,
		Fit:      computeFit(item, data.Observations),
	}
}

// NeedsRecalibration reports whether item has never been calibrated, was
// calibrated on too few responses, or was calibrated longer ago than the
// configured interval.
func NeedsRecalibration(item irt.ItemParameters, cfg Config, now time.Time) bool {
	if item.LastCalibrated.IsZero() {
		return true
	}
	if item.SampleSize < cfg.MinCalibrationSample {
		return true
	}
	return now.Sub(item.LastCalibrated) > cfg.RecalibrationInterval()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
