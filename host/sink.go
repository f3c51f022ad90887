package host

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format is an output image encoding.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "png":
		return PNG, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// FormatFromPath picks the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return PNG
	}
	return f
}

func (f Format) Ext() string {
	if f == TIFF {
		return ".tiff"
	}
	return ".png"
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(w, img)
	}
}

// WriteImage encodes img to path.
func WriteImage(path string, img image.Image, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return out.Close()
}

// DirSink writes numbered frames into a directory.
type DirSink struct {
	Dir    string
	Prefix string
	Format Format
}

func NewDirSink(dir string, f Format) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	return &DirSink{Dir: dir, Prefix: "frame_", Format: f}, nil
}

func (s *DirSink) Path(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%05d%s", s.Prefix, index, s.Format.Ext()))
}

func (s *DirSink) Present(img *image.NRGBA, info FrameInfo) error {
	return WriteImage(s.Path(info.Index), img, s.Format)
}
