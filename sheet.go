package main

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/echoflaresat/orrery/host"
)

func (a *app) sheetCmd() *cobra.Command {
	var (
		cols  int
		tileW int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "sheet [tile...]",
		Short: "Lay out every catalog texture, or the given image files, in a grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tiles []image.Image
				err   error
			)
			if len(args) > 0 {
				tiles, err = loadTiles(args)
			} else {
				tiles, err = a.catalogTiles()
			}
			if err != nil {
				return err
			}

			canvas, err := mergeTiles(tiles, cols, tileW)
			if err != nil {
				return err
			}
			format, err := a.outputFormat(cmd, out)
			if err != nil {
				return err
			}
			if err := host.WriteImage(out, canvas, format); err != nil {
				return err
			}
			a.log.Info("sheet written", "path", out, "tiles", len(tiles), "size", canvas.Bounds().Size())
			return nil
		},
	}

	cmd.Flags().IntVar(&cols, "cols", 4, "tiles per row")
	cmd.Flags().IntVar(&tileW, "tile-width", 256, "width each tile is scaled to (0 keeps the first tile's size)")
	cmd.Flags().StringVarP(&out, "out", "o", "sheet.png", "output image path")
	cmd.Flags().String("format", "", "output format: png or tiff (default from --out extension)")
	return cmd
}

func (a *app) catalogTiles() ([]image.Image, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	cache, err := a.textureCache(nil)
	if err != nil {
		return nil, err
	}

	tiles := make([]image.Image, 0, len(cat))
	for _, b := range cat {
		tex, ok := cache.Get(b.TextureKey())
		if !ok {
			a.log.Warn("using fallback tile", "body", b.Name)
		}
		tiles = append(tiles, tex.Image())
	}
	return tiles, nil
}

func loadTiles(paths []string) ([]image.Image, error) {
	tiles := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open tile %q: %w", path, err)
		}
		tile, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("could not decode tile %q: %w", path, err)
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}

// mergeTiles draws tiles row by row into a cols-wide grid. Every tile is
// scaled to tileW wide, keeping the first tile's aspect ratio.
func mergeTiles(tiles []image.Image, cols, tileW int) (*image.NRGBA, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("no tiles")
	}
	if cols <= 0 {
		return nil, fmt.Errorf("invalid column count %d", cols)
	}

	first := tiles[0].Bounds()
	if first.Dx() == 0 || first.Dy() == 0 {
		return nil, fmt.Errorf("empty first tile")
	}
	if tileW <= 0 {
		tileW = first.Dx()
	}
	tileH := max(tileW*first.Dy()/first.Dx(), 1)

	rows := (len(tiles) + cols - 1) / cols
	canvas := image.NewNRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	// Draw each tile into its position
	for idx, tile := range tiles {
		col := idx % cols
		row := idx / cols
		x := col * tileW
		y := row * tileH
		dst := image.Rect(x, y, x+tileW, y+tileH)
		if tile.Bounds().Dx() == tileW && tile.Bounds().Dy() == tileH {
			draw.Draw(canvas, dst, tile, tile.Bounds().Min, draw.Over)
			continue
		}
		xdraw.CatmullRom.Scale(canvas, dst, tile, tile.Bounds(), xdraw.Over, nil)
	}
	return canvas, nil
}
