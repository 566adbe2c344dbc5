package irt

import "math"

// Quadrature is the evenly spaced grid EAP integrates the posterior over.
type Quadrature struct {
	Points    int
	Min       float64
	Max       float64
	PriorMean float64
	PriorSD   float64
}

// DefaultQuadrature is 41 points over [-4, 4] (step 0.2) with a
// standard-normal prior.
var DefaultQuadrature = Quadrature{
	Points:    41,
	Min:       ThetaMin,
	Max:       ThetaMax,
	PriorMean: 0,
	PriorSD:   1,
}

// Nodes returns the grid points.
func (q Quadrature) Nodes() []float64 {
	n := q.Points
	if n < 2 {
		n = 2
	}
	step := (q.Max - q.Min) / float64(n-1)
	nodes := make([]float64, n)
	for i := range nodes {
		nodes[i] = q.Min + float64(i)*step
	}
	return nodes
}

// logPrior returns the log prior density at theta up to an additive
// constant.
func (q Quadrature) logPrior(theta float64) float64 {
	sd := q.PriorSD
	if sd <= 0 {
		sd = 1
	}
	z := (theta - q.PriorMean) / sd
	return -0.5 * z * z
}

func (q Quadrature) priorSD() float64 {
	if q.PriorSD <= 0 {
		return 1
	}
	return q.PriorSD
}

func (q Quadrature) priorMean() float64 {
	return ClampTheta(q.PriorMean)
}

// logLikelihood of the scored responses at theta.
func logLikelihood(theta float64, scored []scoredResponse) float64 {
	var ll float64
	for _, s := range scored {
		p := Probability(theta, s.item)
		if s.correct {
			ll += math.Log(math.Max(p, 1e-300))
		} else {
			ll += math.Log(math.Max(1-p, 1e-300))
		}
	}
	return ll
}
