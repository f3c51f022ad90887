package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/echoflaresat/orrery/catalog"
	"github.com/echoflaresat/orrery/config"
	"github.com/echoflaresat/orrery/host"
	"github.com/echoflaresat/orrery/metrics"
	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/route"
	"github.com/echoflaresat/orrery/texture"
)

// Separate random streams so that, for one seed, the starfield does not
// depend on how many textures or focus draws happened first.
const (
	streamTextures uint64 = iota + 1
	streamStars
	streamFocus
)

type app struct {
	configPath string
	v          *viper.Viper
	cfg        config.Config
	log        *slog.Logger
	logOut     io.Writer
	logLevel   slog.Level
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{logOut: logOut}

	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "Procedural animated solar-system background renderer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Flags())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $HOME/.config/orrery/config.yaml or $ORRERY_CONFIG)")
	flags.String("catalog", "", "body catalog YAML file (default built-in bodies)")
	flags.Uint64("seed", 1, "random seed for textures, stars and focus draws")
	flags.Int("width", 320, "output width in pixels")
	flags.Int("height", 180, "output height in pixels")
	flags.Int("supersample", 2, "supersampling factor per axis")
	flags.Int("workers", 0, "parallel row workers (0 = GOMAXPROCS)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(a.frameCmd())
	rootCmd.AddCommand(a.sequenceCmd())
	rootCmd.AddCommand(a.liveCmd())
	rootCmd.AddCommand(a.textureCmd())
	rootCmd.AddCommand(a.sheetCmd())
	rootCmd.AddCommand(a.catalogCmd())
	return rootCmd
}

var flagKeys = map[string]string{
	"catalog":      "scene.catalog",
	"seed":         "scene.seed",
	"width":        "render.width",
	"height":       "render.height",
	"supersample":  "render.supersample",
	"workers":      "render.workers",
	"log-level":    "log.level",
	"format":       "render.format",
	"fps":          "live.fps",
	"metrics-addr": "live.metrics_addr",
}

// load binds the flags of the running command into viper and decodes the
// configuration.
func (a *app) load(flags *pflag.FlagSet) error {
	a.v = config.New(a.configPath)
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.logLevel.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.setLogger()
	return nil
}

func (a *app) setLogger() {
	a.log = slog.New(slog.NewTextHandler(a.logOut, &slog.HandlerOptions{Level: a.logLevel}))
	slog.SetDefault(a.log)
}

func (a *app) rng(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(a.cfg.Scene.Seed, stream))
}

func (a *app) catalog() (catalog.Catalog, error) {
	if a.cfg.Scene.Catalog == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(a.cfg.Scene.Catalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", a.cfg.Scene.Catalog, err)
	}
	a.log.Info("catalog loaded", "path", a.cfg.Scene.Catalog, "bodies", len(c))
	return c, nil
}

func (a *app) textureCache(observer texture.Observer) (*texture.Cache, error) {
	synth := texture.NewSynthesizer(a.cfg.Render.TextureWidth, a.rng(streamTextures))
	return texture.NewCache(a.cfg.Scene.TextureCacheSize, synth.Synthesize, observer, a.log)
}

func (a *app) renderer() render.Renderer {
	return render.Renderer{
		Width:       a.cfg.Render.Width,
		Height:      a.cfg.Render.Height,
		Supersample: a.cfg.Render.Supersample,
		Workers:     a.cfg.Render.Workers,
		FOVDeg:      a.cfg.Render.FOV,
	}
}

// newHost wires the scene for one command.
func (a *app) newHost(source route.Source, r render.Renderer, m *metrics.Collector) (*host.Host, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	cache, err := a.textureCache(m)
	if err != nil {
		return nil, err
	}
	clock, err := a.cfg.SpinClock()
	if err != nil {
		return nil, err
	}
	return host.New(source, host.Options{
		Catalog:  cat,
		Cache:    cache,
		Renderer: r,
		Clock:    clock,
		Picker:   a.rng(streamFocus),
		Stars:    a.rng(streamStars),
		Recorder: m,
		Logger:   a.log,
	}), nil
}
