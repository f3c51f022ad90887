// Package camera derives the camera framing from the current route and
// eases the live camera toward it every frame.
package camera

import (
	"math"

	"github.com/echoflaresat/orrery/catalog"
	"github.com/echoflaresat/orrery/focus"
	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/vectors"
)

const (
	// Smoothing is the fraction of the remaining distance covered per frame.
	Smoothing = 0.04
	// FOVDeg is the vertical field of view.
	FOVDeg = 50.0

	detailOrbitSpeed = 0.1
)

var (
	HomePosition     = vectors.Vec3{X: 0, Y: 20, Z: 45}
	OverviewPosition = vectors.Vec3{X: 0, Y: 60, Z: 0}
)

// Aim is a camera position and the point it looks at.
type Aim struct {
	Position vectors.Vec3
	LookAt   vectors.Vec3
}

func homeAim() Aim {
	return Aim{Position: HomePosition}
}

// Controller is the only writer of the live camera pose.
type Controller struct {
	catalog   catalog.Catalog
	focus     focus.Reader
	earth     int
	hasEarth  bool
	Smoothing float64

	live Aim
}

func NewController(c catalog.Catalog, f focus.Reader) *Controller {
	earth, ok := c.EarthIndex()
	return &Controller{
		catalog:   c,
		focus:     f,
		earth:     earth,
		hasEarth:  ok,
		Smoothing: Smoothing,
		live:      homeAim(),
	}
}

// Target returns where the camera wants to be for path at elapsed time t.
// It does not touch the live pose.
func (c *Controller) Target(path string, t float64) Aim {
	switch route.Classify(path) {
	case route.ProjectsOverview:
		return Aim{Position: OverviewPosition}

	case route.ProjectDetail:
		i, ok := c.focus.Resolve(len(c.catalog))
		if !ok {
			return homeAim()
		}
		b := c.catalog[i]
		p := b.Position(t)
		dist := 2.5 + 4*b.Size
		a := t * detailOrbitSpeed
		return Aim{
			Position: vectors.Vec3{
				X: p.X + math.Sin(a)*dist,
				Y: 1.5 + 3*b.Size,
				Z: p.Z + math.Cos(a)*dist,
			},
			LookAt: p,
		}

	case route.About:
		if !c.hasEarth {
			return homeAim()
		}
		e := c.catalog[c.earth].Position(t)
		return Aim{
			Position: vectors.Vec3{X: e.X + 3, Y: 2, Z: e.Z + 3},
			LookAt:   e,
		}
	}
	return homeAim()
}

// Step moves the live pose a fixed fraction toward the target and returns it.
func (c *Controller) Step(path string, t float64) Aim {
	target := c.Target(path, t)
	c.live.Position = c.live.Position.Lerp(target.Position, c.Smoothing)
	c.live.LookAt = c.live.LookAt.Lerp(target.LookAt, c.Smoothing)
	return c.live
}

func (c *Controller) Pose() Aim { return c.live }

// Reset places the camera directly on a pose, used when rendering a
// single frame that should not show the approach.
func (c *Controller) Reset(a Aim) { c.live = a }
