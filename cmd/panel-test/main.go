// Command panel-test exercises the LED panel wiring: solid colours, a
// checkerboard, scrolling text, or a single GPIO line toggled once a second.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"tinygo.org/x/tinyfont"

	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/display"
	"github.com/fkcurrie/f1-led-golang/pkg/hub75"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.toml", "Path to configuration file")
	scroll := flag.Bool("scroll", false, "Show scrolling text instead of test patterns")
	text := flag.String("text", "HELLO WORLD", "Text to scroll across the display")
	interval := flag.Duration("interval", 50*time.Millisecond, "Time between frames")
	toggle := flag.Int("line", -1, "Only toggle this GPIO line offset")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, font, err := loadConfig(*configPath, flag.Args())
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *toggle >= 0 {
		if err := toggleLine(ctx, logger, cfg.Matrix.Chip, *toggle); err != nil {
			logger.Error("GPIO test failed", "error", err)
			return 1
		}
		return 0
	}

	panel, err := hub75.Open(hub75.Config{
		Chip:       cfg.Matrix.Chip,
		Width:      cfg.Matrix.Width,
		Height:     cfg.Matrix.Height,
		Brightness: cfg.Matrix.Brightness,
		Pins:       hub75.Pins(cfg.Matrix.Pins),
	}, hub75.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to open LED panel", "error", err)
		return 1
	}
	defer panel.Close()

	canvas := display.NewCanvas(cfg.Matrix.Width, cfg.Matrix.Height, panel)

	logger.Info("Starting panel test", "width", cfg.Matrix.Width, "height", cfg.Matrix.Height, "scroll", *scroll)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for step := 0; ; step++ {
		select {
		case <-ctx.Done():
			logger.Info("Received shutdown signal")
			if err := panel.Blank(); err != nil {
				logger.Warn("Failed to blank panel", "error", err)
			}
			return 0
		case <-ticker.C:
		}

		if *scroll {
			drawScroll(canvas, font, cfg.Layout.FontHeight, *text, step, display.Red)
		} else {
			drawPattern(canvas, step)
		}
		if err := canvas.Swap(); err != nil {
			logger.Error("Error showing frame", "error", err)
		}
	}
}

// loadConfig resolves everything that can fail before the GPIO lines are
// requested
func loadConfig(path string, args []string) (*config.Config, tinyfont.Fonter, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Matrix.ApplyArgs(args); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	font, err := display.FontByName(cfg.Layout.Font)
	if err != nil {
		return nil, nil, err
	}
	return cfg, font, nil
}

// toggleLine flips one output line every second until ctx is done
func toggleLine(ctx context.Context, logger *slog.Logger, chip string, offset int) error {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return err
	}
	defer line.Close()
	logger.Info("Requested GPIO line", "chip", chip, "offset", offset)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	value := 0
	for {
		select {
		case <-ctx.Done():
			return line.SetValue(0)
		case <-ticker.C:
			value ^= 1
			if err := line.SetValue(value); err != nil {
				logger.Warn("Failed to set value", "error", err)
				continue
			}
			logger.Debug("Set GPIO value", "value", value)
		}
	}
}
