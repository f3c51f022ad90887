// Package terminal presents frames in a terminal using half-block cells and
// turns key presses into route changes for the frame loop.
package terminal

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/echoflaresat/orrery/host"
)

// Routes maps number keys to navigation paths.
var Routes = map[rune]string{
	'1': "/",
	'2': "/projects",
	'3': "/projects/lemon-drop",
	'4': "/projects/research-buddy",
	'5': "/about",
	'6': "/404",
}

const upperHalf = '▀'

// View draws two image rows per terminal row: the upper pixel is the cell
// foreground and the lower pixel its background.
type View struct {
	screen tcell.Screen
	status bool
	scaled *image.NRGBA
}

// Open initializes the controlling terminal.
func Open() (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewView(screen), nil
}

// NewView wraps an initialized screen.
func NewView(screen tcell.Screen) *View {
	screen.HideCursor()
	screen.Clear()
	return &View{screen: screen, status: true}
}

// PixelSize is the image size that fills the screen above the status line.
func (v *View) PixelSize() (int, int) {
	w, h := v.screen.Size()
	if v.status {
		h--
	}
	return max(w, 1), max(h, 1) * 2
}

// Present implements host.Sink.
func (v *View) Present(img *image.NRGBA, info host.FrameInfo) error {
	w, h := v.PixelSize()
	src := img
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		if v.scaled == nil || v.scaled.Bounds() != image.Rect(0, 0, w, h) {
			v.scaled = image.NewNRGBA(image.Rect(0, 0, w, h))
		}
		xdraw.ApproxBiLinear.Scale(v.scaled, v.scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		src = v.scaled
	}

	for row := 0; row < h/2; row++ {
		for x := 0; x < w; x++ {
			top := src.NRGBAAt(x, 2*row)
			bottom := src.NRGBAAt(x, 2*row+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			v.screen.SetContent(x, row, upperHalf, nil, style)
		}
	}
	if v.status {
		v.drawStatus(h/2, w, info)
	}
	v.screen.Show()
	return nil
}

func (v *View) drawStatus(row, width int, info host.FrameInfo) {
	text := fmt.Sprintf(" %s  [%s]  1-6 route  q quit", info.Path, info.Mode)
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		v.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, row, ' ', nil, style)
	}
}

// Events forwards translated key presses until the screen is closed.
func (v *View) Events() <-chan host.Event {
	out := make(chan host.Event, 16)
	go func() {
		defer close(out)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				v.screen.Sync()
				continue
			}
			if he, ok := Translate(ev); ok {
				out <- he
			}
		}
	}()
	return out
}

// Translate maps a terminal event to a frame loop event.
func Translate(ev tcell.Event) (host.Event, bool) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return host.Event{}, false
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return host.Event{Quit: true}, true
	case tcell.KeyRune:
		if key.Rune() == 'q' {
			return host.Event{Quit: true}, true
		}
		if path, ok := Routes[key.Rune()]; ok {
			return host.Event{Route: path}, true
		}
	}
	return host.Event{}, false
}

func (v *View) Close() {
	v.screen.Fini()
}
