package irt

import "math"

// ThetaToPercentile maps theta onto the percentile of a standard-normal
// population, in [0, 100].
func ThetaToPercentile(theta float64) float64 {
	return normalCDF(theta) * 100
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
