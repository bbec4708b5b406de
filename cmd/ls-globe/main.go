// Command ls-globe renders a rotating, textured Earth over a starfield in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/litescript/ls-globe/internal/camera"
	"github.com/litescript/ls-globe/internal/config"
	"github.com/litescript/ls-globe/internal/engine"
	"github.com/litescript/ls-globe/internal/logging"
	"github.com/litescript/ls-globe/internal/metrics"
	"github.com/litescript/ls-globe/internal/render"
	"github.com/litescript/ls-globe/internal/scene"
	"github.com/litescript/ls-globe/internal/texture"
	"github.com/litescript/ls-globe/internal/ui"
	"github.com/litescript/ls-globe/internal/version"
)

// CLI flags for headless mode
var (
	frameCount   int
	waitTextures bool
	cellWidth    int
	cellHeight   int
	forceColor   bool
	showVersion  bool
)

const (
	fallbackCols = 80
	fallbackRows = 24
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Flags override the environment
	flag.IntVar(&cfg.StarCount, "stars", cfg.StarCount, "Number of background stars")
	flag.IntVar(&cfg.Detail, "detail", cfg.Detail, "Sphere subdivision level")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Star placement seed (0 for random)")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "Animation cycles per second")
	flag.StringVar(&cfg.Textures.Dir, "textures", cfg.Textures.Dir, "Texture directory")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (e.g. :9090)")
	flag.IntVar(&frameCount, "frames", 0, "Render this many frames without the TUI and print the last one")
	flag.BoolVar(&waitTextures, "wait-textures", false, "Headless: wait for textures before the first frame")
	flag.IntVar(&cellWidth, "width", 0, "Headless: frame width in cells (default: terminal width)")
	flag.IntVar(&cellHeight, "height", 0, "Headless: frame height in cells (default: terminal height)")
	flag.BoolVar(&forceColor, "color", false, "Headless: emit truecolor even when stdout is not a terminal")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-globe v%s\n", version.Version)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	headless := frameCount > 0

	// Set up logging. The TUI owns the terminal, so it only logs to a file.
	var logger *logging.Logger
	switch {
	case cfg.LogFile != "":
		logger, err = logging.Open(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()
	case headless:
		logger = logging.New(logging.ParseLevel(cfg.LogLevel))
	default:
		logger = logging.Discard()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	recorder, err := startMetrics(ctx, cfg.MetricsAddr, logger)
	if err != nil {
		logger.Error("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize components
	loader := texture.NewLoader(logger.Named("texture"), recorder)
	sc := scene.Build(cfg, loader)
	logger.Info("scene built: %d stars, %d triangles per layer",
		sc.Stars.Field.Len(), sc.Geometry.TriangleCount())

	cam := camera.NewPerspective(camera.DefaultFOV, 1, camera.DefaultNear, camera.DefaultFar)
	renderer := render.New(logger.Named("render"))
	ectx := &engine.Context{Scene: sc, Camera: cam, Renderer: renderer}
	driver := engine.NewDriver(ectx, logger.Named("engine"), recorder)
	viewport := engine.NewViewport(cam, renderer, logger.Named("viewport"), recorder)

	if headless {
		if err := runHeadless(ctx, cfg, driver, viewport, renderer, loader, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Create TUI model
	model := ui.New(ui.Options{
		Driver:   driver,
		Viewport: viewport,
		Orbit:    camera.NewOrbit(cam),
		Frame:    renderer,
		Scene:    sc,
		Textures: loader,
		FPS:      cfg.FPS,
		Log:      logger.Named("ui"),
	})

	// Create Bubble Tea program
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	logger.Info("exiting after %d frames", driver.Frames())
}

// startMetrics registers the recorder and serves it in the background.
// Without an address it returns a nil recorder, which records nothing.
func startMetrics(ctx context.Context, addr string, logger *logging.Logger) (*metrics.Recorder, error) {
	if addr == "" {
		return nil, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, err
	}

	log := logger.Named("metrics")
	go func() {
		if err := metrics.Serve(ctx, addr, reg, log); err != nil {
			log.Error("%v", err)
		}
	}()
	return recorder, nil
}

// runHeadless renders frameCount frames at the configured rate and prints the last one.
func runHeadless(ctx context.Context, cfg config.Config, driver *engine.Driver, viewport *engine.Viewport,
	renderer *render.Renderer, loader *texture.Loader, logger *logging.Logger) error {

	if forceColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	cols, rows := cellWidth, cellHeight
	if cols <= 0 || rows <= 0 {
		tw, th := fallbackCols, fallbackRows
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				tw, th = w, h-1
			}
		}
		if cols <= 0 {
			cols = tw
		}
		if rows <= 0 {
			rows = th
		}
	}
	viewport.OnResize(cols, rows*2)

	if waitTextures {
		// Failures were already logged by the loader; draw without those maps.
		if err := loader.Wait(); err != nil {
			logger.Debug("some textures failed: %v", err)
		}
	}

	src := engine.CountedTicker(engine.NewRateTicker(cfg.FPS), frameCount)
	if err := driver.Run(ctx, src); err != nil {
		return fmt.Errorf("animation: %w", err)
	}

	fmt.Println(renderer.Encode())
	return nil
}
