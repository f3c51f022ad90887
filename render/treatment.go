package render

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/echoflaresat/orrery/mathutil"
)

const (
	// DimmedOpacity is the frame opacity over the black page at full treatment.
	DimmedOpacity = 0.4
	// blurDivisor is how far the frame is shrunk to produce the blur.
	blurDivisor = 4
)

// Treat dims and blurs img by level in [0,1]. Level 0 returns img unchanged;
// level 1 is the full background treatment. The result is a new image.
func Treat(img *image.NRGBA, level float64) *image.NRGBA {
	level = mathutil.Clamp(level, 0.0, 1.0)
	if level == 0 {
		return img
	}

	b := img.Bounds()
	blurred := Blur(img, blurDivisor)
	opacity := mathutil.Lerp(1.0, DimmedOpacity, level)

	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := img.NRGBAAt(x, y)
			t := blurred.NRGBAAt(x, y)
			out.Pix[out.PixOffset(x, y)+0] = treatChannel(s.R, t.R, level, opacity)
			out.Pix[out.PixOffset(x, y)+1] = treatChannel(s.G, t.G, level, opacity)
			out.Pix[out.PixOffset(x, y)+2] = treatChannel(s.B, t.B, level, opacity)
			out.Pix[out.PixOffset(x, y)+3] = 0xff
		}
	}
	return out
}

func treatChannel(sharp, soft uint8, level, opacity float64) uint8 {
	v := mathutil.Lerp(float64(sharp), float64(soft), level) * opacity
	return uint8(mathutil.Clamp(v+0.5, 0, 255))
}

// Blur softens img by shrinking it by divisor and scaling it back up.
func Blur(img image.Image, divisor int) *image.NRGBA {
	b := img.Bounds()
	sw, sh := max(b.Dx()/divisor, 1), max(b.Dy()/divisor, 1)

	small := image.NewNRGBA(image.Rect(0, 0, sw, sh))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, b, xdraw.Src, nil)

	out := image.NewNRGBA(b)
	xdraw.CatmullRom.Scale(out, b, small, small.Bounds(), xdraw.Src, nil)
	return out
}
