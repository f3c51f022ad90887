package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/host"
	"github.com/echoflaresat/orrery/metrics"
	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/terminal"
	"github.com/echoflaresat/orrery/texture"
)

func (a *app) frameCmd() *cobra.Command {
	var (
		path   string
		at     float64
		settle float64
		out    string
	)

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Render a single frame for a route at a point in time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.outputFormat(cmd, out)
			if err != nil {
				return err
			}
			h, err := a.newHost(route.Static(path), a.renderer(), metrics.NewCollector())
			if err != nil {
				return err
			}

			fps := a.cfg.Live.FPS
			h.Settle(at, int(settle*fps), fps)
			img, info, err := h.Frame(cmd.Context(), at, 1/fps)
			if err != nil {
				return err
			}
			if err := host.WriteImage(out, img, format); err != nil {
				return err
			}
			a.log.Info("frame written", "path", out, "route", info.Path, "mode", info.Mode, "focused", info.Focused)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "route", "/", "navigation route to frame")
	cmd.Flags().Float64Var(&at, "time", 0, "elapsed scene time in seconds")
	cmd.Flags().Float64Var(&settle, "settle", 3, "seconds of camera motion simulated before the frame")
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "output image path")
	cmd.Flags().String("format", "", "output format: png or tiff (default from --out extension)")
	cmd.Flags().Float64("fps", 30, "frame rate used to simulate camera motion")
	return cmd
}

func (a *app) sequenceCmd() *cobra.Command {
	var (
		script string
		frames int
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Render numbered frames following a timed route script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := route.ParseScript(script)
			if err != nil {
				return fmt.Errorf("parsing --script: %w", err)
			}
			format, err := a.cfg.Format()
			if err != nil {
				return err
			}
			sink, err := host.NewDirSink(outDir, format)
			if err != nil {
				return err
			}
			h, err := a.newHost(source, a.renderer(), metrics.NewCollector())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.log.Info("rendering sequence", "frames", frames, "fps", a.cfg.Live.FPS, "dir", outDir)
			if err := h.RenderSequence(ctx, frames, a.cfg.Live.FPS, sink); err != nil {
				return err
			}
			a.log.Info("sequence written", "frames", frames, "dir", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&script, "script", "0:/", "route cues as time:path pairs, e.g. 0:/,5:/projects")
	cmd.Flags().IntVar(&frames, "frames", 300, "number of frames")
	cmd.Flags().StringVar(&outDir, "out-dir", "frames", "output directory")
	cmd.Flags().String("format", "png", "output format: png or tiff")
	cmd.Flags().Float64("fps", 30, "frames per second of scene time")
	return cmd
}

func (a *app) liveCmd() *cobra.Command {
	var (
		start   string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Show the scene in the terminal; number keys switch routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog, err := a.quietLogs(logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			view, err := terminal.Open()
			if err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			defer view.Close()

			r := a.renderer()
			r.Width, r.Height = view.PixelSize()

			m := metrics.NewCollector()
			nav := route.NewVar(start)
			h, err := a.newHost(nav, r, m)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr := a.cfg.Live.MetricsAddr; addr != "" {
				go func() {
					if err := m.Serve(ctx, addr); err != nil {
						a.log.Error("metrics server failed", "addr", addr, "error", err)
					}
				}()
			}

			err = h.Run(ctx, a.cfg.Live.FPS, view, view.Events())
			if errors.Is(err, host.ErrQuit) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&start, "route", "/", "initial route")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the terminal is in use")
	cmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	cmd.Flags().Float64("fps", 30, "target frame rate")
	return cmd
}

// quietLogs moves logging off the terminal the live view draws on.
func (a *app) quietLogs(path string) (func(), error) {
	if path == "" {
		a.logOut = io.Discard
		a.setLogger()
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	a.logOut = f
	a.setLogger()
	return func() { f.Close() }, nil
}

func (a *app) textureCmd() *cobra.Command {
	var (
		archetype string
		base      string
		detail    string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "texture",
		Short: "Synthesize one surface texture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := texture.ParseArchetype(archetype)
			if err != nil {
				return err
			}
			baseColor, err := colors.Hex(base)
			if err != nil {
				return fmt.Errorf("--base: %w", err)
			}
			detailColor, err := colors.Hex(detail)
			if err != nil {
				return fmt.Errorf("--detail: %w", err)
			}
			format, err := a.outputFormat(cmd, out)
			if err != nil {
				return err
			}

			synth := texture.NewSynthesizer(a.cfg.Render.TextureWidth, a.rng(streamTextures))
			img, err := synth.Synthesize(texture.NewKey(kind, baseColor, detailColor))
			if err != nil {
				return err
			}
			if err := host.WriteImage(out, img, format); err != nil {
				return err
			}
			a.log.Info("texture written", "path", out, "archetype", kind, "size", img.Bounds().Size())
			return nil
		},
	}

	cmd.Flags().StringVar(&archetype, "archetype", "rocky", "rocky, gasGiant, waterWorld or earthLike")
	cmd.Flags().StringVar(&base, "base", "#A5A5A5", "base colour")
	cmd.Flags().StringVar(&detail, "detail", "#808080", "detail colour")
	cmd.Flags().StringVarP(&out, "out", "o", "texture.png", "output image path")
	cmd.Flags().String("format", "", "output format: png or tiff (default from --out extension)")
	return cmd
}

func (a *app) catalogCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the active body catalog as YAML, a starting point for --catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			data, err := cat.Marshal()
			if err != nil {
				return fmt.Errorf("encoding catalog: %w", err)
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing catalog: %w", err)
			}
			a.log.Info("catalog written", "path", out, "bodies", len(cat))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

// outputFormat prefers an explicit --format, then the output extension.
func (a *app) outputFormat(cmd *cobra.Command, out string) (host.Format, error) {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return a.cfg.Format()
	}
	return host.FormatFromPath(out), nil
}
