package emotion

import "math"

// lerp performs linear interpolation between two values.
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// clamp restricts a value to a range.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func avg2(a, b float64) float64 {
	return (a + b) / 2
}

func length(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}
