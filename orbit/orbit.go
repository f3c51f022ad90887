// Package orbit computes circular orbital positions, reference rings and
// body self-rotation. Positions are pure functions of elapsed time so every
// consumer of a body's location derives the same value.
package orbit

import (
	"math"

	"github.com/echoflaresat/orrery/vectors"
)

// PolylineSegments is the number of segments in an orbit reference ring.
const PolylineSegments = 64

// Angle returns the orbital angle θ = t·speed + phase.
func Angle(t, angularSpeed, phase float64) float64 {
	return t*angularSpeed + phase
}

// Position returns the body centre on the XZ plane at elapsed time t.
func Position(distance, angularSpeed, phase, t float64) vectors.Vec3 {
	theta := Angle(t, angularSpeed, phase)
	return vectors.Vec3{
		X: math.Cos(theta) * distance,
		Y: 0,
		Z: math.Sin(theta) * distance,
	}
}

// Polyline returns PolylineSegments+1 points around a circle of the given
// radius on the XZ plane. The first and last points coincide.
func Polyline(radius float64) []vectors.Vec3 {
	pts := make([]vectors.Vec3, PolylineSegments+1)
	for i := 0; i < PolylineSegments; i++ {
		a := float64(i) / PolylineSegments * 2 * math.Pi
		pts[i] = vectors.Vec3{X: math.Cos(a) * radius, Y: 0, Z: math.Sin(a) * radius}
	}
	pts[PolylineSegments] = pts[0]
	return pts
}

// Ring memoizes Polyline for a radius.
type Ring struct {
	radius float64
	points []vectors.Vec3
}

// Points returns the polyline, recomputing only when radius changes.
func (r *Ring) Points(radius float64) []vectors.Vec3 {
	if r.points == nil || r.radius != radius {
		r.radius = radius
		r.points = Polyline(radius)
	}
	return r.points
}
