// Package metrics exports frame loop and texture cache statistics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/texture"
)

type Collector struct {
	registry *prometheus.Registry

	frameDuration prometheus.Histogram
	framesTotal   prometheus.Counter
	texturesTotal *prometheus.CounterVec
	cacheHits     prometheus.Counter
	fallbacks     prometheus.Counter
	focusDraws    *prometheus.CounterVec
	routeChanges  *prometheus.CounterVec
}

// NewCollector registers the metrics on a private registry.
func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orrery_frame_duration_seconds",
				Help:    "Time spent advancing and rendering one frame",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		framesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orrery_frames_total",
				Help: "Total number of frames rendered",
			},
		),
		texturesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_textures_generated_total",
				Help: "Total number of synthesized textures",
			},
			[]string{"archetype"},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orrery_texture_cache_hits_total",
				Help: "Texture lookups served from the cache",
			},
		),
		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orrery_texture_fallbacks_total",
				Help: "Texture syntheses that fell back to a solid colour",
			},
		),
		focusDraws: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_focus_draws_total",
				Help: "Focus selections drawn on entering a project detail view",
			},
			[]string{"index"},
		),
		routeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_route_changes_total",
				Help: "Route changes seen by the frame loop",
			},
			[]string{"mode"},
		),
	}

	m.registry.MustRegister(
		m.frameDuration,
		m.framesTotal,
		m.texturesTotal,
		m.cacheHits,
		m.fallbacks,
		m.focusDraws,
		m.routeChanges,
	)
	return m
}

func (m *Collector) Registry() *prometheus.Registry { return m.registry }

func (m *Collector) FrameRendered(d time.Duration) {
	m.frameDuration.Observe(d.Seconds())
	m.framesTotal.Inc()
}

func (m *Collector) FocusDrawn(index int) {
	m.focusDraws.WithLabelValues(strconv.Itoa(index)).Inc()
}

func (m *Collector) RouteChanged(mode route.Mode) {
	m.routeChanges.WithLabelValues(mode.String()).Inc()
}

func (m *Collector) TextureGenerated(k texture.Key) {
	m.texturesTotal.WithLabelValues(k.Archetype.String()).Inc()
}

func (m *Collector) TextureCacheHit(texture.Key) { m.cacheHits.Inc() }

func (m *Collector) TextureFallback(texture.Key) { m.fallbacks.Inc() }

func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
