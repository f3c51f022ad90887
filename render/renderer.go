// Package render raytraces a scene frame into an image.
package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"runtime"

	"golang.org/x/image/vector"
	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/scene"
)

const (
	// device height the star point sizes are tuned for
	referenceHeight = 1080.0
	starPointScale  = 30.0

	orbitLineOpacity = 0.1
	orbitLineWidth   = 1.0
)

var orbitLineColor = colors.White()

// Renderer draws frames at a fixed output size.
type Renderer struct {
	Width       int
	Height      int
	Supersample int
	// Workers bounds the number of rows traced at once; 0 means GOMAXPROCS.
	Workers int
	FOVDeg  float64
}

func (r Renderer) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("render: invalid output size %dx%d", r.Width, r.Height)
	}
	return nil
}

// Aspect is the width/height ratio of the output.
func (r Renderer) Aspect() float64 {
	return float64(r.Width) / float64(r.Height)
}

// GenerateSupersamplingOffsets returns n×n offsets in [-0.5, +0.5] for
// supersampling, as pairs (dx, dy) with pixel-center spacing.
func GenerateSupersamplingOffsets(n int) [][2]float64 {
	if n <= 0 {
		return nil
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}

// Render traces frame f as seen by camera. Rows are traced in parallel; the
// call returns once the image is complete or ctx is cancelled.
func (r Renderer) Render(ctx context.Context, f scene.Frame, camera Camera) (*image.NRGBA, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	W, H := r.Width, r.Height

	background := image.NewNRGBA(image.Rect(0, 0, W, H))
	draw.Draw(background, background.Bounds(), image.Black, image.Point{}, draw.Src)
	DrawStars(background, camera, f.Stars, f.Twinkle)
	DrawOrbits(background, camera, f.Bodies)

	offsets := GenerateSupersamplingOffsets(max(r.Supersample, 1))
	N := float64(len(offsets))

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	img := image.NewNRGBA(image.Rect(0, 0, W, H))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := 0; y < H; y++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rc := NewRayContext(camera.Position, &f)
			for x := 0; x < W; x++ {
				bg := colors.FromStandardColor(background.NRGBAAt(x, y))

				colorAccum := colors.Color4{}
				for _, off := range offsets {
					dx, dy := off[0], off[1]
					rc.SetRayDirection(camera.ComputeRay(float64(x)+dx, float64(y)+dy, W, H))
					colorAccum = colorAccum.Add(rc.shadeRay(bg))
				}

				colorOut := colorAccum.Scale(1.0 / N).CompositeOverBlack()
				img.SetNRGBA(x, y, colorOut.ToNRGBA())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// DrawStars splats the starfield as soft round points over an opaque dst.
// Point size shrinks with depth and pulses with twinkle.
func DrawStars(dst *image.NRGBA, camera Camera, stars []scene.Star, twinkle float64) {
	W, H := dst.Bounds().Dx(), dst.Bounds().Dy()
	scale := float64(H) / referenceHeight * 4 * twinkle

	for _, s := range stars {
		px, py, depth, ok := camera.Project(s.Position, W, H)
		if !ok {
			continue
		}
		radius := math.Max(0.5, s.Size*starPointScale/depth*scale/2)
		if px+radius < 0 || py+radius < 0 || px-radius >= float64(W) || py-radius >= float64(H) {
			continue
		}
		splat(dst, px, py, radius, s.Shade)
	}
}

func splat(dst *image.NRGBA, cx, cy, radius, shade float64) {
	b := dst.Bounds()
	x0 := max(int(math.Floor(cx-radius)), b.Min.X)
	x1 := min(int(math.Ceil(cx+radius)), b.Max.X-1)
	y0 := max(int(math.Floor(cy-radius)), b.Min.Y)
	y1 := min(int(math.Ceil(cy+radius)), b.Max.Y-1)

	star := colors.New(shade, shade, shade, 1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			// distance from the point centre in point-size units
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / (2 * radius)
			alpha := 1.0 / (1.0 + math.Exp(16.0*(d-0.25)))
			if alpha < 1.0/255 {
				continue
			}
			under := colors.FromStandardColor(dst.NRGBAAt(x, y))
			dst.SetNRGBA(x, y, under.Over(star.WithAlpha(alpha)).ToNRGBA())
		}
	}
}

// DrawOrbits strokes every body's orbit polyline as a thin translucent line.
func DrawOrbits(dst *image.NRGBA, camera Camera, bodies []scene.BodyState) {
	W, H := dst.Bounds().Dx(), dst.Bounds().Dy()
	src := image.NewUniform(orbitLineColor.WithAlpha(orbitLineOpacity).ToNRGBA())
	limit := 4 * float64(max(W, H))
	inView := func(x, y float64) bool {
		return math.Abs(x) < limit && math.Abs(y) < limit
	}

	z := vector.NewRasterizer(W, H)
	for _, b := range bodies {
		z.Reset(W, H)
		z.DrawOp = draw.Over
		segments := 0
		for i := 1; i < len(b.Orbit); i++ {
			x0, y0, _, ok0 := camera.Project(b.Orbit[i-1], W, H)
			x1, y1, _, ok1 := camera.Project(b.Orbit[i], W, H)
			if !ok0 || !ok1 || !inView(x0, y0) || !inView(x1, y1) {
				continue
			}
			if strokeSegment(z, x0+0.5, y0+0.5, x1+0.5, y1+0.5, orbitLineWidth) {
				segments++
			}
		}
		if segments > 0 {
			z.Draw(dst, dst.Bounds(), src, image.Point{})
		}
	}
}

// strokeSegment adds a segment of the given width as a quad. Every quad is
// wound the same way so overlapping joints do not cancel.
func strokeSegment(z *vector.Rasterizer, x0, y0, x1, y1, width float64) bool {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l < 1e-6 {
		return false
	}
	nx, ny := -dy/l*width/2, dx/l*width/2

	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
	return true
}
