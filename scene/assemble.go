package scene

import (
	"math"
	"math/rand/v2"

	"github.com/echoflaresat/orrery/catalog"
	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/focus"
	"github.com/echoflaresat/orrery/orbit"
	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

const (
	StarCount  = 8000
	StarRadius = 150.0
	StarDepth  = 50.0
	starFactor = 4.0
	// twinkleSpeed is the star shader clock rate relative to elapsed time.
	twinkleSpeed = 0.5

	ringInnerScale = 1.4
	ringOuterScale = 2.2
	ringOpacity    = 0.6

	markerTilt = 0.4
)

var markerOffset = vectors.Vec3{X: 0.45, Y: 0.15, Z: 0.1}

// DefaultSun is the emissive centre of the scene.
func DefaultSun() Sun {
	orange := colors.MustHex("#ffaa00")
	return Sun{
		Radius:            2.5,
		Color:             orange,
		EmissiveIntensity: 2,
		Light: PointLight{
			Color:     colors.White(),
			Intensity: 4,
			Distance:  100,
			Decay:     2,
		},
	}
}

// DefaultLights is the ambient and key light of the scene.
func DefaultLights() Lights {
	return Lights{
		Ambient: 0.6,
		Directional: DirectionalLight{
			Position:  vectors.Vec3{X: 10, Y: 10, Z: 5},
			Color:     colors.White(),
			Intensity: 1.5,
		},
	}
}

type slot struct {
	config  catalog.Body
	texture *texture.Memo
	orbit   orbit.Ring
	spin    orbit.Spin
	ring    *RingSpec
	marker  *MarkerSpec
}

// Assembler owns the static scene and advances it once per frame.
// It is not safe for concurrent use.
type Assembler struct {
	focus  focus.Reader
	sun    Sun
	lights Lights
	slots  []*slot
	stars  []Star
}

// NewAssembler builds the scene once. rng is used only for the starfield.
func NewAssembler(c catalog.Catalog, cache *texture.Cache, f focus.Reader, rng *rand.Rand, clock orbit.Clock) *Assembler {
	a := &Assembler{
		focus:  f,
		sun:    DefaultSun(),
		lights: DefaultLights(),
		stars:  Starfield(rng, StarCount),
	}
	for _, b := range c {
		s := &slot{
			config:  b,
			texture: texture.NewMemo(cache),
			spin:    orbit.Spin{Clock: clock},
		}
		if b.HasRings {
			s.ring = &RingSpec{
				Inner:   b.Size * ringInnerScale,
				Outer:   b.Size * ringOuterScale,
				Color:   b.DetailColor,
				Opacity: ringOpacity,
			}
		}
		if b.Archetype == texture.EarthLike {
			s.marker = &MarkerSpec{
				Offset:    markerOffset.RotateZ(markerTilt),
				Radius:    0.03,
				Color:     colors.MustHex("#FF4500"),
				Intensity: 2,
				Distance:  1,
			}
		}
		a.slots = append(a.slots, s)
	}
	return a
}

// FocusedIndex returns the body marked focused for the given route, or -1.
func (a *Assembler) FocusedIndex(path string) int {
	if route.Classify(path) != route.ProjectDetail {
		return -1
	}
	i, ok := a.focus.Resolve(len(a.slots))
	if !ok {
		return -1
	}
	return i
}

// Frame advances every body by one frame and returns the scene state at
// elapsed time t. dt is the frame length in seconds.
func (a *Assembler) Frame(path string, t, dt float64) Frame {
	focused := a.FocusedIndex(path)
	f := Frame{
		Time:    t,
		Path:    path,
		Mode:    route.Classify(path),
		Focused: focused,
		Sun:     a.sun,
		Lights:  a.lights,
		Stars:   a.stars,
		Bodies:  make([]BodyState, len(a.slots)),
		Twinkle: (3 + math.Sin(t*twinkleSpeed+100)) / 4,
	}

	for i, s := range a.slots {
		isFocused := i == focused
		spin := s.spin.Advance(isFocused, dt)
		pos := s.config.Position(t)

		b := BodyState{
			Index:    i,
			Config:   s.config,
			Position: pos,
			Spin:     spin,
			Focused:  isFocused,
			Texture:  s.texture.Get(s.config.TextureKey()),
			Orbit:    s.orbit.Points(s.config.Distance),
			Ring:     s.ring,
		}
		if s.marker != nil {
			mp := pos.Add(s.marker.Offset.RotateY(spin))
			b.Marker = &MarkerState{
				MarkerSpec: *s.marker,
				Position:   mp,
				Light: PointLight{
					Position:  mp,
					Color:     s.marker.Color,
					Intensity: s.marker.Intensity,
					Distance:  s.marker.Distance,
					Decay:     2,
				},
			}
		}
		f.Bodies[i] = b
	}
	return f
}

// Starfield scatters n points uniformly in direction between StarRadius
// and StarRadius+StarDepth.
func Starfield(rng *rand.Rand, n int) []Star {
	stars := make([]Star, n)
	for i := range stars {
		r := StarRadius + StarDepth*rng.Float64()

		// uniform direction on the sphere
		y := 2*rng.Float64() - 1
		phi := 2 * math.Pi * rng.Float64()
		ring := math.Sqrt(1 - y*y)
		dir := vectors.Vec3{X: ring * math.Cos(phi), Y: y, Z: ring * math.Sin(phi)}

		stars[i] = Star{
			Position: dir.Scale(r),
			Size:     (0.5 + 0.5*rng.Float64()) * starFactor,
			Shade:    0.9,
		}
	}
	return stars
}
