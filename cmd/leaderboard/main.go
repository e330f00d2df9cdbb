// Command leaderboard rotates Formula 1 standings boards on a HUB75 LED
// panel.
//
// Usage:
//
//	leaderboard [-config config.toml] [-debug] [-preview :8081] [-no-panel] [-log-file path] [--led-rows=32 ...]
//
// Arguments after the flags are matrix options and override the [matrix]
// section of the configuration file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/f1-led-golang/internal/assets"
	"github.com/fkcurrie/f1-led-golang/internal/cache"
	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/display"
	"github.com/fkcurrie/f1-led-golang/internal/ergast"
	"github.com/fkcurrie/f1-led-golang/internal/journal"
	"github.com/fkcurrie/f1-led-golang/internal/notify"
	"github.com/fkcurrie/f1-led-golang/internal/preview"
	"github.com/fkcurrie/f1-led-golang/internal/rotation"
	"github.com/fkcurrie/f1-led-golang/internal/types"
	"github.com/fkcurrie/f1-led-golang/pkg/hub75"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() (code int) {
	configPath := flag.String("config", "config.toml", "Path to configuration file")
	debugLog := flag.Bool("debug", false, "Enable debug logging")
	previewAddr := flag.String("preview", "", "Serve the frame preview on this address")
	noPanel := flag.Bool("no-panel", false, "Render without driving the LED panel")
	logFile := flag.String("log-file", "", "Also write logs to this file, rotated at 5MB")
	flag.Parse()

	logger, closeLog, err := newLogger(*debugLog, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return 1
	}
	if err := cfg.Matrix.ApplyArgs(flag.Args()); err != nil {
		logger.Error("Invalid matrix options", "error", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		return 1
	}
	if *previewAddr != "" {
		cfg.Preview.Listen = *previewAddr
	}
	layout := &cfg.Layout

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var panel types.Panel
	var sink display.Sink
	if !*noPanel {
		p, err := hub75.Open(hub75.Config{
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
		panel, sink = p, p
	}
	canvas := display.NewCanvas(cfg.Matrix.Width, cfg.Matrix.Height, sink)

	defer shutdown(logger, canvas, panel, &code)

	font, err := display.FontByName(layout.Font)
	if err != nil {
		logger.Error("Invalid font", "error", err, "available", display.FontNames())
		return 1
	}

	var logo image.Image
	if img, err := assets.Logo(cfg.Matrix.Width, cfg.Matrix.Height-layout.FontHeight-4); err != nil {
		logger.Debug("Logo does not fit, using text", "error", err)
	} else {
		logo = img
	}
	if err := display.NewLoading(canvas, layout, font, logo).Render(ctx, nil); err != nil {
		logger.Error("Failed to show splash screen", "error", err)
		return 1
	}

	boards, err := display.NewBoards(cfg.Rotation.Boards, canvas, layout, font, display.RealSleeper{})
	if err != nil {
		logger.Error("Invalid rotation", "error", err)
		return 1
	}
	errorBoard := display.NewError(canvas, layout, font, display.RealSleeper{})

	cacheOpts := []cache.Option{cache.WithLogger(logger)}
	rotationOpts := []rotation.Option{rotation.WithLogger(logger)}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path, logger)
		if err != nil {
			logger.Warn("Refresh journal disabled", "error", err)
		} else {
			defer j.Close()
			cacheOpts = append(cacheOpts, cache.WithObserver(j))
		}
	}
	if cfg.MQTT.Broker != "" {
		n, err := notify.Dial(cfg.MQTT, logger)
		if err != nil {
			logger.Warn("MQTT notifications disabled", "error", err)
		} else {
			defer n.Close()
			cacheOpts = append(cacheOpts, cache.WithObserver(n))
			rotationOpts = append(rotationOpts, rotation.WithObserver(n))
		}
	}

	provider := ergast.New(cfg.Data.BaseURL,
		ergast.WithTimeout(cfg.Data.Timeout),
		ergast.WithParallelism(cfg.Data.Parallelism),
		ergast.WithLogger(logger),
	)
	data := cache.New(provider, cfg.Data.UpdateInterval, cacheOpts...)
	controller := rotation.New(data, boards, errorBoard, rotationOpts...)

	if cfg.Preview.Listen != "" {
		srv := preview.New(canvas, data,
			preview.WithScale(cfg.Preview.Scale),
			preview.WithRotation(controller),
			preview.WithLogger(logger),
		)
		go func() {
			if err := srv.Listen(cfg.Preview.Listen); err != nil {
				logger.Error("Preview server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Failed to stop preview server", "error", err)
			}
		}()
	}

	// A failed first fetch is not fatal here: the controller sees the error
	// status and shows the error board.
	if err := data.Refresh(ctx); err != nil && ctx.Err() != nil {
		logger.Info("Exiting...")
		return 0
	}

	return exitCode(logger, controller.Run(ctx))
}
