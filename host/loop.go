package host

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/echoflaresat/orrery/route"
)

// ErrQuit is returned by Run when the input side asked to stop.
var ErrQuit = errors.New("quit requested")

// Sink presents finished frames.
type Sink interface {
	Present(img *image.NRGBA, info FrameInfo) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(img *image.NRGBA, info FrameInfo) error

func (f SinkFunc) Present(img *image.NRGBA, info FrameInfo) error { return f(img, info) }

// Event is input forwarded into the frame loop.
type Event struct {
	// Route, when non-empty, navigates to a new path.
	Route string
	Quit  bool
}

// Navigate changes the route when the host reads from a route.Var.
func (h *Host) Navigate(path string) bool {
	v, ok := h.source.(*route.Var)
	if !ok {
		h.log.Warn("route source is not navigable", "path", path)
		return false
	}
	v.Set(path)
	return true
}

// Run produces frames in real time at fps until ctx is cancelled or a quit
// event arrives. Events are applied between frames by the loop goroutine.
func (h *Host) Run(ctx context.Context, fps float64, sink Sink, events <-chan Event) error {
	if fps <= 0 {
		return fmt.Errorf("host: invalid frame rate %v", fps)
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	start := time.Now()
	last := start
	h.log.Info("frame loop started", "fps", fps)

	for {
		select {
		case <-ctx.Done():
			h.log.Info("frame loop stopped", "frames", h.frames)
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Quit {
				h.log.Info("frame loop stopped", "frames", h.frames)
				return ErrQuit
			}
			if ev.Route != "" {
				h.Navigate(ev.Route)
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			img, info, err := h.Frame(ctx, now.Sub(start).Seconds(), dt)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("rendering frame %d: %w", info.Index, err)
			}
			if err := sink.Present(img, info); err != nil {
				return fmt.Errorf("presenting frame %d: %w", info.Index, err)
			}
		}
	}
}

// RenderSequence produces frames at a fixed step of 1/fps seconds starting
// from elapsed zero.
func (h *Host) RenderSequence(ctx context.Context, frames int, fps float64, sink Sink) error {
	if fps <= 0 {
		return fmt.Errorf("host: invalid frame rate %v", fps)
	}
	dt := 1 / fps
	for i := 0; i < frames; i++ {
		img, info, err := h.Frame(ctx, float64(i)*dt, dt)
		if err != nil {
			return fmt.Errorf("rendering frame %d: %w", i, err)
		}
		if err := sink.Present(img, info); err != nil {
			return fmt.Errorf("presenting frame %d: %w", i, err)
		}
	}
	return nil
}

// Settle advances the scene for the given number of frames ending at
// elapsed without rendering, so a single still shows a converged camera.
func (h *Host) Settle(elapsed float64, frames int, fps float64) {
	if fps <= 0 || frames <= 0 {
		return
	}
	dt := 1 / fps
	for i := frames; i > 0; i-- {
		h.Step(max(elapsed-float64(i)*dt, 0), dt)
	}
}
