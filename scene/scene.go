// Package scene assembles the static solar-system scene and derives the
// per-frame state of every body from elapsed time and the current route.
package scene

import (
	"github.com/echoflaresat/orrery/catalog"
	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

// PointLight follows three.js semantics: zero Distance means no cutoff.
type PointLight struct {
	Position  vectors.Vec3
	Color     colors.Color4
	Intensity float64
	Distance  float64
	Decay     float64
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Position  vectors.Vec3
	Color     colors.Color4
	Intensity float64
}

// Direction is the unit vector from a surface toward the light.
func (d DirectionalLight) Direction() vectors.Vec3 {
	return d.Position.Normalize()
}

type Lights struct {
	Ambient     float64
	Directional DirectionalLight
}

// Sun is the emissive body at the origin.
type Sun struct {
	Radius            float64
	Color             colors.Color4
	EmissiveIntensity float64
	Light             PointLight
}

// RingSpec is a flat annulus in the body's equatorial plane.
type RingSpec struct {
	Inner, Outer float64
	Color        colors.Color4
	Opacity      float64
}

// MarkerSpec is a small emissive sphere attached to a body.
type MarkerSpec struct {
	Offset    vectors.Vec3 // body-local, before spin
	Radius    float64
	Color     colors.Color4
	Intensity float64
	Distance  float64
}

// Star is one static background point.
type Star struct {
	Position vectors.Vec3
	Size     float64
	Shade    float64
}

// BodyState is a body as it appears in one frame.
type BodyState struct {
	Index    int
	Config   catalog.Body
	Position vectors.Vec3
	Spin     float64
	Focused  bool
	Texture  texture.Texture
	Orbit    []vectors.Vec3
	Ring     *RingSpec
	Marker   *MarkerState
}

// MarkerState is a marker resolved to world space for one frame.
type MarkerState struct {
	MarkerSpec
	Position vectors.Vec3
	Light    PointLight
}

// Frame is everything the renderer needs for one image.
type Frame struct {
	Time    float64
	Path    string
	Mode    route.Mode
	Focused int // -1 when no body is focused
	Sun     Sun
	Lights  Lights
	Bodies  []BodyState
	Stars   []Star
	// Twinkle scales star brightness for this frame.
	Twinkle float64
}

// PointLights returns the sun light and any marker lights of the frame.
func (f Frame) PointLights() []PointLight {
	out := []PointLight{f.Sun.Light}
	for _, b := range f.Bodies {
		if b.Marker != nil {
			out = append(out, b.Marker.Light)
		}
	}
	return out
}
