package irt

import "math"

// Probability returns the 3PL probability of a correct response to item at
// ability theta.
func Probability(theta float64, item ItemParameters) float64 {
	c := item.Guessing
	p := c + (1-c)/(1+math.Exp(-D*item.Discrimination*(theta-item.Difficulty)))
	return clamp(p, 0, 1)
}

// ItemInformation returns the Fisher information item carries at theta.
// Returns 0 at the asymptotes where the formula is undefined.
func ItemInformation(theta float64, item ItemParameters) float64 {
	p := Probability(theta, item)
	c := item.Guessing
	if p <= c || p >= 1 {
		return 0
	}
	a := item.Discrimination
	num := D * D * a * a * (p - c) * (p - c) * (1 - p)
	den := (1 - c) * (1 - c) * p
	return num / den
}

// TestInformation sums item information over items.
func TestInformation(theta float64, items []ItemParameters) float64 {
	var total float64
	for _, it := range items {
		total += ItemInformation(theta, it)
	}
	return total
}

// StandardError returns 1/sqrt(I(theta)), or NoInformationSE when the items
// carry no information at theta.
func StandardError(theta float64, items []ItemParameters) float64 {
	info := TestInformation(theta, items)
	if info < 1e-10 {
		return NoInformationSE
	}
	return 1 / math.Sqrt(info)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampTheta bounds theta to [ThetaMin, ThetaMax].
func ClampTheta(theta float64) float64 {
	return clamp(theta, ThetaMin, ThetaMax)
}
