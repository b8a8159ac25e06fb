package core

import (
	"math"

	"github.com/signalsfoundry/commnet-calculator/internal/units"
)

// Range is the farthest distance, in metres, at which a link carries any
// signal.
type Range struct {
	distance float64
}

// NewRange wraps a precomputed maximum distance.
func NewRange(maxDistance float64) Range {
	return Range{distance: maxDistance}
}

// RangeBetween is the geometric mean of both endpoints' effective power.
// It is symmetric in a and b.
func RangeBetween(a, b *Endpoint) Range {
	return Range{distance: math.Sqrt(a.EffectivePower() * b.EffectivePower())}
}

// MaxDistance returns the range in metres.
func (r Range) MaxDistance() float64 { return r.distance }

// StrengthAt returns the signal strength in [0,1] at distance d, and false
// when there is no signal at all.
//
// With r = 1 - d/max the strength is the smoothstep -2r³ + 3r², which is 1
// at d = 0, falls to 0 at d = max and is flat at both ends. Negative
// distances clamp to full strength. A non-positive range never carries a
// signal.
func (r Range) StrengthAt(d float64) (float64, bool) {
	if r.distance <= 0 || math.IsNaN(r.distance) || math.IsNaN(d) {
		return 0, false
	}
	x := 1 - d/r.distance
	switch {
	case x <= 0:
		return 0, false
	case x > 1:
		return 1, true
	default:
		return -2*x*x*x + 3*x*x, true
	}
}

// String formats the range with a metric prefix, e.g. "3.16 km".
func (r Range) String() string {
	return units.FormatDistance(r.distance)
}
