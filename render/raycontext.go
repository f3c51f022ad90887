package render

import (
	"math"

	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

type hitKind int

const (
	hitNone hitKind = iota
	hitSun
	hitBody
	hitMarker
)

// RayContext carries per-ray state and the frame the ray is traced through.
// One context is used per row worker; it is not safe for concurrent use.
type RayContext struct {
	Origin        vectors.Vec3
	RayDirection  vectors.Vec3
	T             float64
	HitPoint      vectors.Vec3
	SurfaceNormal vectors.Vec3

	// Body is the index into frame.Bodies for body and marker hits.
	Body int
	kind hitKind

	// Ring is the nearest ring crossing in front of the surface hit, if any.
	RingT     float64
	RingBody  int
	RingPoint vectors.Vec3

	frame  *scene.Frame
	lights []scene.PointLight
}

func NewRayContext(origin vectors.Vec3, frame *scene.Frame) *RayContext {
	return &RayContext{
		Origin: origin,
		frame:  frame,
		lights: frame.PointLights(),
	}
}

// SetRayDirection traces the ray against every surface in the frame and
// records the nearest opaque hit and the nearest ring in front of it.
func (c *RayContext) SetRayDirection(rayDirection vectors.Vec3) {
	c.RayDirection = rayDirection
	c.T = -1
	c.kind = hitNone
	c.Body = -1
	c.RingT = -1
	c.RingBody = -1

	c.consider(intersectSphere(c.Origin, c.RayDirection, vectors.Zero(), c.frame.Sun.Radius), hitSun, -1)

	for i := range c.frame.Bodies {
		b := &c.frame.Bodies[i]
		c.consider(intersectSphere(c.Origin, c.RayDirection, b.Position, b.Config.Size), hitBody, i)
		if b.Marker != nil {
			c.consider(intersectSphere(c.Origin, c.RayDirection, b.Marker.Position, b.Marker.Radius), hitMarker, i)
		}
	}

	if c.kind != hitNone {
		c.HitPoint = c.Origin.Add(c.RayDirection.Scale(c.T))
		c.SurfaceNormal = c.HitPoint.Sub(c.center()).Normalize()
	}

	for i := range c.frame.Bodies {
		b := &c.frame.Bodies[i]
		if b.Ring == nil {
			continue
		}
		t := intersectAnnulus(c.Origin, c.RayDirection, b.Position, b.Ring.Inner, b.Ring.Outer)
		if t <= 0 || (c.T > 0 && t >= c.T) {
			continue
		}
		if c.RingT < 0 || t < c.RingT {
			c.RingT = t
			c.RingBody = i
		}
	}
	if c.RingT > 0 {
		c.RingPoint = c.Origin.Add(c.RayDirection.Scale(c.RingT))
	}
}

func (c *RayContext) consider(t float64, kind hitKind, body int) {
	if t <= 0 {
		return
	}
	if c.T < 0 || t < c.T {
		c.T = t
		c.kind = kind
		c.Body = body
	}
}

func (c *RayContext) center() vectors.Vec3 {
	switch c.kind {
	case hitBody:
		return c.frame.Bodies[c.Body].Position
	case hitMarker:
		return c.frame.Bodies[c.Body].Marker.Position
	}
	return vectors.Zero()
}

// intersectSphere calculates the intersection of a ray (O + t*D) with a sphere
// of radius r around center. Returns the closest positive t, or -1.0 if there
// is no intersection.
func intersectSphere(O, D, center vectors.Vec3, r float64) float64 {
	L := O.Sub(center)

	// b = 2*L·D, c = L·L - r^2, solve t^2 + b t + c = 0
	b := 2.0 * L.Dot(D)
	c := L.Dot(L) - r*r

	discriminant := b*b - 4.0*c
	if discriminant < 0 {
		return -1.0
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-b - sqrtDisc) / 2.0
	t2 := (-b + sqrtDisc) / 2.0

	if t1 > 0 && t2 > 0 {
		return math.Min(t1, t2)
	}
	if t1 > 0 {
		return t1
	}
	if t2 > 0 {
		return t2
	}
	return -1.0
}

// intersectAnnulus intersects a ray with a horizontal ring around center.
// Returns t, or -1.0 when the ray misses or runs parallel to the ring plane.
func intersectAnnulus(O, D, center vectors.Vec3, inner, outer float64) float64 {
	if math.Abs(D.Y) < 1e-9 {
		return -1.0
	}
	t := (center.Y - O.Y) / D.Y
	if t <= 0 {
		return -1.0
	}
	p := O.Add(D.Scale(t))
	r := math.Hypot(p.X-center.X, p.Z-center.Z)
	if r < inner || r > outer {
		return -1.0
	}
	return t
}
