package host

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/echoflaresat/orrery/camera"
	"github.com/echoflaresat/orrery/catalog"
	"github.com/echoflaresat/orrery/orbit"
	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

type seqPicker struct {
	picks []int
	calls int
}

func (p *seqPicker) IntN(n int) int {
	v := p.picks[p.calls%len(p.picks)] % n
	p.calls++
	return v
}

type countingRecorder struct {
	frames, draws, routes int
}

func (r *countingRecorder) FrameRendered(time.Duration) { r.frames++ }
func (r *countingRecorder) FocusDrawn(int)              { r.draws++ }
func (r *countingRecorder) RouteChanged(route.Mode)     { r.routes++ }

func newHost(t *testing.T, source route.Source, picker Picker, rec Recorder) *Host {
	t.Helper()
	synth := texture.NewSynthesizer(32, rand.New(rand.NewPCG(1, 1)))
	cache, err := texture.NewCache(16, synth.Synthesize, nil, nil)
	require.NoError(t, err)
	return New(source, Options{
		Catalog:  catalog.Default(),
		Cache:    cache,
		Renderer: render.Renderer{Width: 16, Height: 12, Supersample: 1, Workers: 2},
		Clock:    orbit.PerFrame,
		Picker:   picker,
		Stars:    rand.New(rand.NewPCG(2, 2)),
		Recorder: rec,
	})
}

func TestDetailRouteDrawsOnce(t *testing.T) {
	picker := &seqPicker{picks: []int{5, 1}}
	rec := &countingRecorder{}
	h := newHost(t, route.Static("/projects/lemon-drop"), picker, rec)

	for i := 0; i < 100; i++ {
		f, info := h.Step(float64(i)/60, 1.0/60)
		require.Equal(t, 5, info.Focused)
		require.True(t, f.Bodies[5].Focused)
	}
	require.Equal(t, 1, picker.calls)
	require.Equal(t, 1, rec.draws)
}

func TestFocusRerolledOnNewDetailRoute(t *testing.T) {
	picker := &seqPicker{picks: []int{5, 1, 3}}
	nav := route.NewVar("/projects/lemon-drop")
	h := newHost(t, nav, picker, nil)

	_, info := h.Step(0, 1.0/60)
	require.Equal(t, 5, info.Focused)

	nav.Set("/projects/research-buddy")
	_, info = h.Step(1.0/60, 1.0/60)
	require.Equal(t, 1, info.Focused)

	nav.Set("/about")
	_, info = h.Step(2.0/60, 1.0/60)
	require.Equal(t, -1, info.Focused)
	_, ok := h.Focus().Resolve(8)
	require.False(t, ok)

	nav.Set("/projects/lemon-drop")
	_, info = h.Step(3.0/60, 1.0/60)
	require.Equal(t, 3, info.Focused)
	require.Equal(t, 3, picker.calls)
}

func TestSamePageKeepsFocus(t *testing.T) {
	picker := &seqPicker{picks: []int{5, 1}}
	rec := &countingRecorder{}
	nav := route.NewVar("/projects/lemon-drop")
	h := newHost(t, nav, picker, rec)

	_, info := h.Step(0, 1.0/60)
	require.Equal(t, 5, info.Focused)

	for i, path := range []string{
		"/projects/lemon-drop?img=2",
		"/projects/lemon-drop#gallery",
		"/projects/lemon-drop/",
	} {
		nav.Set(path)
		_, info = h.Step(float64(i+1)/60, 1.0/60)
		require.Equal(t, 5, info.Focused, path)
		require.Equal(t, path, info.Path)
	}
	require.Equal(t, 1, picker.calls)
	require.Equal(t, 1, rec.draws)
	require.Equal(t, 1, rec.routes)
}

func TestNonDetailRoutesNeverDraw(t *testing.T) {
	picker := &seqPicker{picks: []int{0}}
	script, err := route.ParseScript("0:/,1:/projects,2:/about,3:/404")
	require.NoError(t, err)
	h := newHost(t, script, picker, nil)

	for i := 0; i < 300; i++ {
		_, info := h.Step(float64(i)/60, 1.0/60)
		require.Equal(t, -1, info.Focused)
	}
	require.Zero(t, picker.calls)
}

func TestTreatmentLevels(t *testing.T) {
	tests := []struct {
		path string
		want float64
	}{
		{"/", 0},
		{"/projects/lemon-drop", 0},
		{"/projects", 1},
		{"/about", 1},
		{"/404", 1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h := newHost(t, route.Static(tt.path), &seqPicker{picks: []int{0}}, nil)
			_, info := h.Step(0, 1.0/60)
			require.Equal(t, tt.want, info.Treatment)
		})
	}
}

func TestTreatmentFadesOverOneSecond(t *testing.T) {
	nav := route.NewVar("/")
	h := newHost(t, nav, &seqPicker{picks: []int{0}}, nil)
	h.Step(0, 0.1)

	nav.Set("/about")
	var levels []float64
	for i := 1; i <= 12; i++ {
		_, info := h.Step(float64(i)*0.1, 0.1)
		levels = append(levels, info.Treatment)
	}
	require.InDelta(t, 0.1, levels[0], 1e-9)
	require.InDelta(t, 0.5, levels[4], 1e-9)
	require.InDelta(t, 1.0, levels[9], 1e-9)
	require.Equal(t, 1.0, levels[11])
}

func TestCameraFollowsRoute(t *testing.T) {
	h := newHost(t, route.Static("/projects"), &seqPicker{picks: []int{0}}, nil)
	var info FrameInfo
	for i := 0; i < 400; i++ {
		_, info = h.Step(float64(i)/60, 1.0/60)
	}
	require.InDelta(t, 0, vectors.Distance(camera.OverviewPosition, info.Camera.Position), 1e-3)
}

func TestFrameRendersWithTreatment(t *testing.T) {
	rec := &countingRecorder{}
	h := newHost(t, route.Static("/about"), &seqPicker{picks: []int{0}}, rec)

	img, info, err := h.Frame(context.Background(), 0, 1.0/60)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 12), img.Bounds())
	require.Equal(t, 1.0, info.Treatment)
	require.Equal(t, 1, rec.frames)

	// fully treated frames never exceed the dimmed opacity
	limit := uint8(255*render.DimmedOpacity) + 1
	for i := 0; i < len(img.Pix); i += 4 {
		require.LessOrEqual(t, img.Pix[i], limit)
	}
}

func TestRenderSequenceWritesFrames(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir, PNG)
	require.NoError(t, err)

	h := newHost(t, route.Static("/"), &seqPicker{picks: []int{0}}, nil)
	require.NoError(t, h.RenderSequence(context.Background(), 3, 30, sink))

	for i := 0; i < 3; i++ {
		_, err := os.Stat(sink.Path(i))
		require.NoError(t, err)
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	nav := route.NewVar("/")
	h := newHost(t, nav, &seqPicker{picks: []int{2}}, nil)

	events := make(chan Event, 4)
	send := func(ev Event) {
		select {
		case events <- ev:
		default:
		}
	}
	presented := 0
	sink := SinkFunc(func(img *image.NRGBA, info FrameInfo) error {
		presented++
		if presented == 2 {
			send(Event{Route: "/projects/lemon-drop"})
		}
		if info.Mode == route.ProjectDetail {
			require.Equal(t, 2, info.Focused)
			send(Event{Quit: true})
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := h.Run(ctx, 200, sink, events)
	require.ErrorIs(t, err, ErrQuit)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHost(t, route.Static("/"), &seqPicker{picks: []int{0}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h.Run(ctx, 60, SinkFunc(func(*image.NRGBA, FrameInfo) error { return nil }), nil)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestNavigateRequiresVar(t *testing.T) {
	h := newHost(t, route.Static("/"), &seqPicker{picks: []int{0}}, nil)
	require.False(t, h.Navigate("/about"))

	nav := route.NewVar("/")
	h = newHost(t, nav, &seqPicker{picks: []int{0}}, nil)
	require.True(t, h.Navigate("/about"))
	require.Equal(t, "/about", nav.Route(0))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PNG, "png": PNG, ".PNG": PNG, "tif": TIFF, "tiff": TIFF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseFormat("gif")
	require.Error(t, err)
	require.Equal(t, TIFF, FormatFromPath("out/frame.tif"))
	require.Equal(t, PNG, FormatFromPath("frame"))
}
