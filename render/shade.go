package render

import (
	"math"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/mathutil"
	"github.com/echoflaresat/orrery/vectors"
)

const (
	// toon materials have two bands: lit and shadowed
	toonThreshold = 0.4
	toonShadow    = 0.7
	toonLit       = 1.0
)

// ToonBand quantizes the Lambert term into the two toon bands.
func ToonBand(dotNL float64) float64 {
	if dotNL < toonThreshold {
		return toonShadow
	}
	return toonLit
}

// DistanceAttenuation is the point light falloff with a smooth cutoff at
// distance. A zero cutoff disables the window.
func DistanceAttenuation(d, cutoff, decay float64) float64 {
	falloff := 1.0 / math.Max(math.Pow(d, decay), 0.01)
	if cutoff > 0 {
		w := mathutil.Clamp(1-math.Pow(d/cutoff, 4), 0.0, 1.0)
		falloff *= w * w
	}
	return falloff
}

// ACESFilmic is the Narkowicz fit of the ACES tone curve.
func ACESFilmic(x float64) float64 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	x = math.Max(x, 0)
	return mathutil.Clamp((x*(a*x+b))/(x*(c*x+d)+e), 0.0, 1.0)
}

func toneMap(c colors.Color4) colors.Color4 {
	return colors.Color4{R: ACESFilmic(c.R), G: ACESFilmic(c.G), B: ACESFilmic(c.B), A: c.A}
}

// Irradiance sums the light reaching point p with normal n.
func (c *RayContext) Irradiance(p, n vectors.Vec3) colors.Color4 {
	l := c.frame.Lights
	total := colors.White().ScaleRGB(l.Ambient)

	dir := l.Directional
	total = total.Add(dir.Color.ScaleRGB(dir.Intensity * ToonBand(n.Dot(dir.Direction()))))

	for _, pl := range c.lights {
		toLight := pl.Position.Sub(p)
		d := toLight.Norm()
		if d == 0 {
			continue
		}
		att := DistanceAttenuation(d, pl.Distance, pl.Decay)
		if att == 0 {
			continue
		}
		band := ToonBand(n.Dot(toLight.Scale(1 / d)))
		total = total.Add(pl.Color.ScaleRGB(pl.Intensity * att * band))
	}
	total.A = 1
	return total
}

func lambert(albedo, irradiance colors.Color4) colors.Color4 {
	out := albedo.Mul(irradiance).ScaleRGB(1 / math.Pi)
	out.A = 1
	return out
}

// ShadeSurface returns the colour of the current opaque hit.
func (c *RayContext) ShadeSurface() colors.Color4 {
	switch c.kind {
	case hitSun:
		sun := c.frame.Sun
		out := lambert(sun.Color, c.Irradiance(c.HitPoint, c.SurfaceNormal))
		out = out.Add(sun.Color.ScaleRGB(sun.EmissiveIntensity))
		out.A = 1
		return toneMap(out)

	case hitMarker:
		// unlit and outside tone mapping so it reads as a beacon
		return c.frame.Bodies[c.Body].Marker.Color.WithAlpha(1)

	case hitBody:
		b := &c.frame.Bodies[c.Body]
		local := c.SurfaceNormal.RotateY(-b.Spin)
		albedo := b.Texture.Sample(local).Mul(b.Config.BaseColor)
		return toneMap(lambert(albedo, c.Irradiance(c.HitPoint, c.SurfaceNormal)))
	}
	return colors.Color4{}
}

// ShadeRing returns the ring colour at the current ring crossing with its
// opacity in alpha.
func (c *RayContext) ShadeRing() colors.Color4 {
	b := &c.frame.Bodies[c.RingBody]
	n := vectors.Vec3{X: 0, Y: 1, Z: 0}
	if c.RayDirection.Dot(n) > 0 {
		n = n.Scale(-1) // double sided
	}
	out := toneMap(lambert(b.Ring.Color, c.Irradiance(c.RingPoint, n)))
	return out.WithAlpha(b.Ring.Opacity)
}

// shadeRay resolves one ray to an opaque colour over the given background.
func (c *RayContext) shadeRay(background colors.Color4) colors.Color4 {
	col := background
	if c.kind != hitNone {
		col = c.ShadeSurface()
	}
	if c.RingT > 0 {
		col = col.Over(c.ShadeRing())
	}
	return col
}
