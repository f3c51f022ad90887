package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"

	"github.com/echoflaresat/orrery/colors"
	"golang.org/x/image/vector"
)

// Reference canvas. Feature sizes below are in pixels of this canvas and
// scale linearly with the requested width.
const (
	ReferenceWidth  = 1024
	ReferenceHeight = ReferenceWidth / 2

	// MaxWidth is the widest texture a configuration may ask for.
	MaxWidth = 4096

	maxCanvasPixels = 1 << 24
	polygonSegments = 48
)

var ErrCanvas = errors.New("texture canvas unavailable")

var (
	oceanColor    = colors.MustHex("#1a3b6e")
	forestColor   = colors.MustHex("#2d5a27")
	mountainColor = colors.MustHex("#8b5a2b")
	cloudColor    = colors.White().WithAlpha(0.3)
)

type FeatureKind int

const (
	Circle FeatureKind = iota
	Ellipse
	Rect
)

// Feature is one filled shape on the texture canvas.
// Circles and ellipses are centred on (X, Y); rectangles start at (X, Y).
type Feature struct {
	Kind     FeatureKind
	X, Y     float64
	RX, RY   float64
	W, H     float64
	Rotation float64
	Color    colors.Color4
}

// Synthesizer generates equirectangular surface bitmaps.
type Synthesizer struct {
	// Width of generated textures; height is Width/2.
	Width int
	Rand  *rand.Rand
}

func NewSynthesizer(width int, rng *rand.Rand) *Synthesizer {
	return &Synthesizer{Width: width, Rand: rng}
}

// Synthesize plans and paints a texture for k. Repeated calls give
// statistically similar but different images.
func (s *Synthesizer) Synthesize(k Key) (*image.NRGBA, error) {
	img, err := newCanvas(s.Width, s.Width/2)
	if err != nil {
		return nil, err
	}
	base := colors.FromStandardColor(k.Base)
	detail := colors.FromStandardColor(k.Detail)
	Paint(img, Background(k.Archetype, base), Plan(k.Archetype, detail, s.Width, s.Rand))
	return img, nil
}

func newCanvas(w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 || w > maxCanvasPixels/h {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvas, w, h)
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
}

// Background is the flat fill applied before any feature.
func Background(a Archetype, base colors.Color4) colors.Color4 {
	if a == EarthLike {
		return oceanColor
	}
	return base
}

// Plan lays out the features for an archetype on a canvas of the given width.
func Plan(a Archetype, detail colors.Color4, width int, rng *rand.Rand) []Feature {
	scale := float64(width) / ReferenceWidth
	w := float64(width)
	h := w / 2

	uniform := func(lo, hi float64) float64 {
		return (lo + rng.Float64()*(hi-lo)) * scale
	}
	circle := func(rMin, rMax float64, c colors.Color4) Feature {
		r := uniform(rMin, rMax)
		return Feature{Kind: Circle, X: rng.Float64() * w, Y: rng.Float64() * h, RX: r, RY: r, Color: c}
	}
	ellipse := func(rxMin, rxMax, ryMin, ryMax float64, c colors.Color4) Feature {
		return Feature{
			Kind:     Ellipse,
			X:        rng.Float64() * w,
			Y:        rng.Float64() * h,
			RX:       uniform(rxMin, rxMax),
			RY:       uniform(ryMin, ryMax),
			Rotation: rng.Float64() * math.Pi,
			Color:    c,
		}
	}

	var out []Feature
	switch a {
	case Rocky:
		for i := 0; i < 100; i++ {
			out = append(out, circle(5, 35, detail))
		}
	case GasGiant:
		for i := 0; i < 20; i++ {
			if rng.Float64() > 0.4 {
				y := rng.Float64() * h
				out = append(out, Feature{Kind: Rect, X: 0, Y: y, W: w, H: uniform(10, 60), Color: detail})
			}
		}
	case WaterWorld:
		for i := 0; i < 15; i++ {
			out = append(out, circle(20, 100, detail))
		}
	case EarthLike:
		for i := 0; i < 15; i++ {
			out = append(out, ellipse(20, 120, 20, 100, forestColor))
		}
		for i := 0; i < 10; i++ {
			out = append(out, ellipse(10, 70, 10, 60, mountainColor))
		}
		for i := 0; i < 30; i++ {
			out = append(out, Feature{
				Kind:  Rect,
				X:     rng.Float64() * w,
				Y:     rng.Float64() * h,
				W:     uniform(20, 170),
				H:     uniform(5, 25),
				Color: cloudColor,
			})
		}
	}
	return out
}

// Paint fills dst with bg and then draws the features in order, alpha-blended.
func Paint(dst draw.Image, bg colors.Color4, features []Feature) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(bg.ToNRGBA()), image.Point{}, draw.Src)

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, f := range features {
		z.Reset(b.Dx(), b.Dy())
		z.DrawOp = draw.Over
		tracePath(z, f)
		var src color.Color = f.Color.ToNRGBA()
		z.Draw(dst, b, image.NewUniform(src), image.Point{})
	}
}

func tracePath(z *vector.Rasterizer, f Feature) {
	switch f.Kind {
	case Rect:
		z.MoveTo(float32(f.X), float32(f.Y))
		z.LineTo(float32(f.X+f.W), float32(f.Y))
		z.LineTo(float32(f.X+f.W), float32(f.Y+f.H))
		z.LineTo(float32(f.X), float32(f.Y+f.H))
		z.ClosePath()
	default:
		c, s := math.Cos(f.Rotation), math.Sin(f.Rotation)
		for i := 0; i < polygonSegments; i++ {
			a := 2 * math.Pi * float64(i) / polygonSegments
			ex, ey := f.RX*math.Cos(a), f.RY*math.Sin(a)
			x := float32(f.X + ex*c - ey*s)
			y := float32(f.Y + ex*s + ey*c)
			if i == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
	}
}

// Solid returns a small single-color image used when a canvas cannot be acquired.
func Solid(c colors.Color4) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.ToNRGBA()), image.Point{}, draw.Src)
	return img
}
