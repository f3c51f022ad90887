package render

import (
	"math"

	"github.com/echoflaresat/orrery/vectors"
)

// nearPlane hides geometry closer than this to the camera.
const nearPlane = 0.1

// Camera models a pinhole camera in scene coordinates (Y up).
type Camera struct {
	FOVDeg     float64
	TanHalfFOV float64
	Aspect     float64
	Position   vectors.Vec3
	Forward    vectors.Vec3
	Right      vectors.Vec3
	Up         vectors.Vec3
}

// NewLookAt constructs a camera at pos looking at target with a vertical
// field of view (deg) and width/height aspect ratio.
func NewLookAt(pos, target vectors.Vec3, fovDeg, aspect float64) Camera {
	fovRad := fovDeg * math.Pi / 180.0
	tanHalf := math.Tan(fovRad / 2.0)

	fwd := target.Sub(pos)
	if fwd.Norm() < 1e-9 {
		fwd = vectors.Vec3{X: 0, Y: 0, Z: -1}
	}
	fwd = fwd.Normalize()

	// Basis vectors
	globalUp := vectors.Vec3{X: 0, Y: 1, Z: 0}
	right := fwd.Cross(globalUp)
	if right.Norm() < 1e-6 {
		right = vectors.Vec3{X: 1, Y: 0, Z: 0} // fallback when looking straight up or down
	}
	right = right.Normalize()
	up := right.Cross(fwd).Normalize()

	if aspect <= 0 {
		aspect = 1
	}
	return Camera{
		FOVDeg:     fovDeg,
		TanHalfFOV: tanHalf,
		Aspect:     aspect,
		Position:   pos,
		Forward:    fwd,
		Right:      right,
		Up:         up,
	}
}

// ComputeRay returns the normalized viewing direction for pixel (i,j)
// given the image dimensions (width,height). i,j can be fractional (for supersampling).
func (c Camera) ComputeRay(i, j float64, width, height int) vectors.Vec3 {
	hw, hh := halfExtent(width), halfExtent(height)

	// NDC in [-1, +1] (centered), flip Y to make +up in screen space.
	xNDC := (i - hw) / hw
	yNDC := -((j - hh) / hh)

	xPlane := xNDC * c.TanHalfFOV * c.Aspect
	yPlane := yNDC * c.TanHalfFOV
	zPlane := 1.0

	dir := c.Right.Scale(xPlane).
		Add(c.Up.Scale(yPlane)).
		Add(c.Forward.Scale(zPlane))

	return dir.Normalize()
}

// Project maps a scene point to fractional pixel coordinates. depth is the
// distance along Forward; ok is false for points behind the near plane.
func (c Camera) Project(p vectors.Vec3, width, height int) (x, y, depth float64, ok bool) {
	d := p.Sub(c.Position)
	depth = d.Dot(c.Forward)
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	xNDC := d.Dot(c.Right) / depth / (c.TanHalfFOV * c.Aspect)
	yNDC := d.Dot(c.Up) / depth / c.TanHalfFOV

	hw, hh := halfExtent(width), halfExtent(height)
	return xNDC*hw + hw, -yNDC*hh + hh, depth, true
}

func halfExtent(n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return float64(n-1) / 2.0
}
