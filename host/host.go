// Package host drives the scene: it samples the route once per frame, owns
// the focus selection, advances the scene and camera, renders and applies
// the background treatment.
package host

import (
	"context"
	"image"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/echoflaresat/orrery/camera"
	"github.com/echoflaresat/orrery/catalog"
	"github.com/echoflaresat/orrery/focus"
	"github.com/echoflaresat/orrery/mathutil"
	"github.com/echoflaresat/orrery/orbit"
	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/texture"
)

// TreatmentFade is how long the dim/blur treatment takes to switch.
const TreatmentFade = time.Second

// Picker draws the focus index.
type Picker interface {
	IntN(n int) int
}

// Recorder receives per-frame statistics.
type Recorder interface {
	FrameRendered(d time.Duration)
	FocusDrawn(index int)
	RouteChanged(mode route.Mode)
}

type nopRecorder struct{}

func (nopRecorder) FrameRendered(time.Duration) {}
func (nopRecorder) FocusDrawn(int)              {}
func (nopRecorder) RouteChanged(route.Mode)     {}

type Options struct {
	Catalog  catalog.Catalog
	Cache    *texture.Cache
	Renderer render.Renderer
	Clock    orbit.Clock
	// Picker draws focus indices; Stars seeds the starfield.
	Picker   Picker
	Stars    *rand.Rand
	Recorder Recorder
	Logger   *slog.Logger
}

// FrameInfo describes one produced frame.
type FrameInfo struct {
	Index     int
	Elapsed   float64
	Path      string
	Mode      route.Mode
	Focused   int
	Treatment float64
	Camera    camera.Aim
}

// Host is not safe for concurrent use; Run owns it for the life of the loop.
type Host struct {
	source    route.Source
	catalog   catalog.Catalog
	focus     *focus.Store
	assembler *scene.Assembler
	camera    *camera.Controller
	renderer  render.Renderer
	picker    Picker
	recorder  Recorder
	log       *slog.Logger

	frames    int
	page      string
	started   bool
	treatment float64
}

func New(source route.Source, opts Options) *Host {
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Stars == nil {
		opts.Stars = rand.New(rand.NewPCG(1, 2))
	}
	if opts.Picker == nil {
		opts.Picker = opts.Stars
	}
	if opts.Renderer.FOVDeg == 0 {
		opts.Renderer.FOVDeg = camera.FOVDeg
	}

	store := focus.NewStore()
	return &Host{
		source:    source,
		catalog:   opts.Catalog,
		focus:     store,
		assembler: scene.NewAssembler(opts.Catalog, opts.Cache, store, opts.Stars, opts.Clock),
		camera:    camera.NewController(opts.Catalog, store),
		renderer:  opts.Renderer,
		picker:    opts.Picker,
		recorder:  opts.Recorder,
		log:       opts.Logger,
	}
}

// Focus exposes the selection for inspection.
func (h *Host) Focus() focus.Reader { return h.focus }

func (h *Host) Camera() *camera.Controller { return h.camera }

// Step advances the scene to elapsed seconds without rendering. dt is the
// length of the frame being produced.
func (h *Host) Step(elapsed, dt float64) (scene.Frame, FrameInfo) {
	path := h.source.Route(elapsed)
	mode := route.Classify(path)

	// a query or fragment change stays on the same page
	if page := route.Normalize(path); !h.started || page != h.page {
		h.routeChanged(page, mode)
	}

	target := 1.0
	if mode.Sharp() {
		target = 0
	}
	if !h.started {
		h.treatment = target
	} else {
		h.treatment = mathutil.Approach(h.treatment, target, max(dt, 0)/TreatmentFade.Seconds())
	}
	h.started = true

	f := h.assembler.Frame(path, elapsed, dt)
	aim := h.camera.Step(path, elapsed)

	info := FrameInfo{
		Index:     h.frames,
		Elapsed:   elapsed,
		Path:      path,
		Mode:      mode,
		Focused:   f.Focused,
		Treatment: h.treatment,
		Camera:    aim,
	}
	h.frames++
	return f, info
}

func (h *Host) routeChanged(page string, mode route.Mode) {
	h.page = page
	h.recorder.RouteChanged(mode)

	if mode != route.ProjectDetail {
		h.focus.Clear()
		h.log.Debug("route changed", "path", page, "mode", mode)
		return
	}
	if len(h.catalog) == 0 {
		h.focus.Clear()
		return
	}
	i := h.picker.IntN(len(h.catalog))
	h.focus.Set(i)
	h.recorder.FocusDrawn(i)
	slug, _ := route.Slug(page)
	h.log.Debug("route changed", "path", page, "mode", mode, "project", slug, "focus", h.catalog[i].Name)
}

// Frame advances the scene and renders it with the treatment applied.
func (h *Host) Frame(ctx context.Context, elapsed, dt float64) (*image.NRGBA, FrameInfo, error) {
	start := time.Now()
	f, info := h.Step(elapsed, dt)

	cam := render.NewLookAt(info.Camera.Position, info.Camera.LookAt, h.renderer.FOVDeg, h.renderer.Aspect())
	img, err := h.renderer.Render(ctx, f, cam)
	if err != nil {
		return nil, info, err
	}
	img = render.Treat(img, info.Treatment)

	h.recorder.FrameRendered(time.Since(start))
	return img, info, nil
}
