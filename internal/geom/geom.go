// Package geom provides the small amount of 3-D geometry shared by the
// navigation components: distances, segment projection, and the bearing
// conventions used to steer the pointer.
//
// Positions are gonum r3 vectors in the tracker's world frame: X right,
// Y up, Z toward the viewer. "Forward" is therefore the negative Z axis.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a position or displacement in the world frame.
type Vec = r3.Vec

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// PathLength returns the sum of consecutive point-to-point distances.
func PathLength(points []Vec) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Dist(points[i-1], points[i])
	}
	return total
}

// SegmentDistance returns the distance from p to the line segment a-b.
// The projection parameter is clamped to [0,1], so points beyond either
// endpoint measure to that endpoint. A degenerate segment (a == b)
// measures to the shared point.
func SegmentDistance(p, a, b Vec) float64 {
	ab := r3.Sub(b, a)
	lenSq := r3.Dot(ab, ab)
	if lenSq == 0 {
		return Dist(p, a)
	}
	t := r3.Dot(r3.Sub(p, a), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Dist(p, r3.Add(a, r3.Scale(t, ab)))
}

// Bearing returns the absolute horizontal bearing, in degrees, of the
// ground-plane vector from `from` to `to`. Zero points along the negative
// Z axis and bearing increases clockwise when viewed from above.
func Bearing(from, to Vec) float64 {
	dx := to.X - from.X
	dz := to.Z - from.Z
	return NormalizeDegrees(math.Atan2(dx, -dz) * 180 / math.Pi)
}

// NormalizeDegrees wraps an angle into (-180, 180].
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// ClampDegrees limits deg to [-limit, limit].
func ClampDegrees(deg, limit float64) float64 {
	if deg > limit {
		return limit
	}
	if deg < -limit {
		return -limit
	}
	return deg
}
