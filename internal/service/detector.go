package service

import (
	"math"
	"time"

	"trustlens/internal/core/domain"
)

// behaviorAnomalous computes a z-score of amount against the trailing
// windowSize entries of history (population standard deviation). Fewer than
// two samples yields no verdict, and a zero-variance window defines the
// z-score as 0, so a perfectly uniform history never flags.
func behaviorAnomalous(history []float64, amount float64, windowSize int, zThreshold float64) bool {
	window := history
	if windowSize > 0 && len(window) > windowSize {
		window = window[len(window)-windowSize:]
	}
	if len(window) < 2 {
		return false
	}

	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(len(window))

	var variance float64
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(window))

	std := math.Sqrt(variance)
	if std == 0 {
		return false
	}

	return math.Abs(amount-mean)/std > zThreshold
}

// geoDrift reports whether currentLocation is further than maxKm from
// lastLocation. Locations missing from the geo reference carry no signal:
// an unknown current location, an empty baseline, or an unknown baseline
// all yield false.
func geoDrift(lastLocation, currentLocation string, maxKm float64) bool {
	cur, ok := domain.LookupLocation(currentLocation)
	if !ok {
		return false
	}
	if lastLocation == "" {
		return false
	}
	last, ok := domain.LookupLocation(lastLocation)
	if !ok {
		return false
	}
	return domain.DistanceKm(last, cur) > maxKm
}

// oddHours reports whether t falls in the half-open [00:00, 04:00) window.
func oddHours(t time.Time) bool {
	h := t.Hour()
	return h >= 0 && h < 4
}
