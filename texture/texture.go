package texture

import (
	"image"
	"math"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/vectors"
)

// Texture is an equirectangular bitmap sampled by direction vectors.
type Texture struct {
	Width  int
	Height int
	img    image.Image
}

func New(img image.Image) Texture {
	return Texture{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		img:    img,
	}
}

func (t Texture) Image() image.Image { return t.img }

// Valid reports whether the texture holds an image.
func (t Texture) Valid() bool { return t.img != nil && t.Width > 0 && t.Height > 0 }

// Sample maps a direction in the body's local frame (Y up) to texture
// coordinates and returns the nearest texel. The seam sits on -X and
// row 0 is the north pole, matching a UV sphere.
func (t Texture) Sample(P vectors.Vec3) colors.Color4 {
	d := P.Normalize()

	theta := math.Acos(math.Max(-1, math.Min(1, d.Y)))
	phi := math.Atan2(d.Z, -d.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return t.SampleUV(phi/(2*math.Pi), theta/math.Pi)
}

// SampleUV returns the nearest texel for u, v in [0,1], v growing southward.
func (t Texture) SampleUV(u, v float64) colors.Color4 {
	if !t.Valid() {
		return colors.White()
	}
	u = u - math.Floor(u)

	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))

	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}

	b := t.img.Bounds()
	return colors.FromStandardColor(t.img.At(b.Min.X+x, b.Min.Y+y))
}
