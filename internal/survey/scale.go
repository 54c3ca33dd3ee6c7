package survey

import "math"

const (
	scaleEpsilon   = 1e-9
	stepTolerance  = 1e-6
	maxScaleValues = 1000
)

// ScaleValues lists the values a scale or rating question accepts, from low
// to high inclusive in step increments, capped at maxScaleValues entries.
// A non-positive step means 1. Validation uses OnScale, not this list.
func ScaleValues(low, high, step float64) []float64 {
	if step <= 0 {
		step = 1
	}
	if high < low {
		return nil
	}
	var out []float64
	for i := 0; i < maxScaleValues; i++ {
		v := low + float64(i)*step
		if v > high+scaleEpsilon {
			break
		}
		// Undo float drift so 0.1 steps stay readable
		out = append(out, math.Round(v*1e9)/1e9)
	}
	return out
}

// OnScale reports whether n sits a whole number of steps above low. Bounds
// are checked separately.
func OnScale(low, step, n float64) bool {
	if step <= 0 {
		step = 1
	}
	k := (n - low) / step
	return math.Abs(k-math.Round(k)) < stepTolerance
}
