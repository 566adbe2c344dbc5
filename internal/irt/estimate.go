package irt

import (
	"math"
	"time"
)

const (
	// DegenerateTheta is reported for all-correct (+) and all-incorrect (-)
	// response patterns, where the MLE does not exist.
	DegenerateTheta = 3.0

	mleMaxIterations = 50
	mleTolerance     = 0.001
	mleMinCurvature  = 1e-10
	eapMinVariance   = 0.01
)

type scoredResponse struct {
	item    ItemParameters
	correct bool
}

// score keeps responses to items present in bank, in input order, and
// returns the newest timestamp among them.
func score(responses []Response, bank ItemBank) ([]scoredResponse, time.Time) {
	scored := make([]scoredResponse, 0, len(responses))
	var newest time.Time
	for _, r := range responses {
		item, ok := bank[r.ItemID]
		if !ok {
			continue
		}
		scored = append(scored, scoredResponse{item: item, correct: r.IsCorrect})
		if r.Timestamp.After(newest) {
			newest = r.Timestamp
		}
	}
	return scored, newest
}

func itemsOf(scored []scoredResponse) []ItemParameters {
	items := make([]ItemParameters, len(scored))
	for i, s := range scored {
		items[i] = s.item
	}
	return items
}

// EstimateMLE returns the maximum-likelihood ability estimate using Fisher
// scoring. Responses to items missing from bank are ignored.
func EstimateMLE(learnerID string, responses []Response, bank ItemBank) AbilityEstimate {
	scored, newest := score(responses, bank)
	if len(scored) == 0 {
		return newEstimate(learnerID, 0, NoInformationSE, newest, 0)
	}
	items := itemsOf(scored)

	correct := 0
	for _, s := range scored {
		if s.correct {
			correct++
		}
	}
	switch correct {
	case len(scored):
		return newEstimate(learnerID, DegenerateTheta, StandardError(DegenerateTheta, items), newest, len(scored))
	case 0:
		return newEstimate(learnerID, -DegenerateTheta, StandardError(-DegenerateTheta, items), newest, len(scored))
	}

	theta := 0.0
	for range mleMaxIterations {
		var first, second float64
		for _, s := range scored {
			p := Probability(theta, s.item)
			c := s.item.Guessing
			if p <= 0 || c >= 1 {
				continue
			}
			w := D * s.item.Discrimination * (p - c) / (1 - c)
			u := 0.0
			if s.correct {
				u = 1
			}
			first += w * (u - p) / p
			second -= w * w * (1 - p) / p
		}
		if math.Abs(second) < mleMinCurvature {
			break
		}
		next := ClampTheta(theta - first/second)
		delta := next - theta
		theta = next
		if math.Abs(delta) < mleTolerance {
			break
		}
	}

	return newEstimate(learnerID, theta, StandardError(theta, items), newest, len(scored))
}

// EstimateEAP returns the expected a posteriori ability estimate over
// DefaultQuadrature.
func EstimateEAP(learnerID string, responses []Response, bank ItemBank) AbilityEstimate {
	return EstimateEAPWith(DefaultQuadrature, learnerID, responses, bank)
}

// EstimateEAPWith is EstimateEAP over a caller-supplied grid and prior.
// With no usable responses it returns the prior mean with NoInformationSE.
func EstimateEAPWith(q Quadrature, learnerID string, responses []Response, bank ItemBank) AbilityEstimate {
	scored, newest := score(responses, bank)
	if len(scored) == 0 {
		return newEstimate(learnerID, q.priorMean(), NoInformationSE, newest, 0)
	}

	nodes := q.Nodes()
	logPost := make([]float64, len(nodes))
	maxLog := math.Inf(-1)
	for i, theta := range nodes {
		logPost[i] = logLikelihood(theta, scored) + q.logPrior(theta)
		if logPost[i] > maxLog {
			maxLog = logPost[i]
		}
	}

	// Evenly spaced nodes: the step cancels between numerator and
	// denominator of each moment.
	var sumW, sumTheta, sumTheta2 float64
	for i, theta := range nodes {
		w := math.Exp(logPost[i] - maxLog)
		sumW += w
		sumTheta += theta * w
		sumTheta2 += theta * theta * w
	}
	if sumW == 0 {
		return newEstimate(learnerID, q.priorMean(), q.priorSD(), newest, len(scored))
	}

	mean := sumTheta / sumW
	variance := math.Max(sumTheta2/sumW-mean*mean, eapMinVariance)
	return newEstimate(learnerID, ClampTheta(mean), math.Sqrt(variance), newest, len(scored))
}
