package builder

import "math"

// Round rounds to the nearest whole pound, half away from zero. Every derived
// weight and percentage goes through this one function; the preview mirror
// shares it, so the two sides cannot diverge by rounding alone.
func Round(x float64) int {
	return int(math.Round(x))
}
