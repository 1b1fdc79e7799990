package kstest

import "math"

// Abramowitz & Stegun 7.1.26 coefficients.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// Erf approximates the error function with Abramowitz & Stegun formula
// 7.1.26. The approximation is evaluated on |x| and the sign reapplied, so
// Erf(-x) == -Erf(x) holds exactly.
func Erf(x float64) float64 {
	if x == 0 {
		return 0 // the polynomial leaves a 1e-9 residue at the origin
	}
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x)

	t := 1.0 / (1.0 + erfP*x)
	poly := ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t + erfA1) * t
	y := 1.0 - poly*math.Exp(-x*x)

	return sign * y
}

// NormalCDF returns Φ(x) for the standard normal distribution.
func NormalCDF(x float64) float64 {
	return 0.5 * (1 + Erf(x/math.Sqrt2))
}
