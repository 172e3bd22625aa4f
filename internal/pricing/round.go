package pricing

import "math"

// epsilon nudges values sitting just below an exact midpoint due to binary
// float error (0.145 stored as 0.14499999...) up onto it before rounding.
const epsilon = 2.220446049250313e-16

// Round2 rounds to 2 decimals, half away from zero on exact midpoints,
// robust to floating-point representation error.
func Round2(v float64) float64 {
	return math.Round((v+epsilon)*100) / 100
}
