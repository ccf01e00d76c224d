package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/game"
	"github.com/pthm-cable/pursuit/sim"
	"github.com/pthm-cable/pursuit/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run one episode without graphics")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", -1, "Stop after N ticks (-1 = use config, 0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotPath := flag.String("snapshot", "", "Resume from a snapshot file")
	plot := flag.Bool("plot", false, "Write trajectory.png to the output directory (headless only)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *maxTicks >= 0 {
		cfg.Sim.MaxTicks = *maxTicks
	}
	if *plot {
		cfg.Telemetry.Plot = true
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var snap *telemetry.Snapshot
	if *snapshotPath != "" {
		var err error
		if snap, err = telemetry.LoadSnapshot(*snapshotPath); err != nil {
			slog.Error("failed to load snapshot", "path", *snapshotPath, "error", err)
			os.Exit(1)
		}
		rngSeed = snap.Seed
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "dir", *outputDir, "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if *headless {
		if err := runHeadless(cfg, om, rngSeed, snap); err != nil {
			slog.Error("episode failed", "error", err)
			om.Close()
			os.Exit(1)
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Pursuit")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(game.Options{
		Config:   cfg,
		Logger:   logger,
		Recorder: om,
		Seed:     rngSeed,
		Snapshot: snap,
	})
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
	if err := g.Close(); err != nil {
		slog.Warn("telemetry errors", "error", err)
	}
}

// runHeadless runs a single episode to completion or until interrupted.
func runHeadless(cfg *config.Config, om *telemetry.OutputManager, seed int64, snap *telemetry.Snapshot) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := sim.Options{Seed: seed}
	var (
		s   *sim.Sim
		err error
	)
	if snap != nil {
		s, err = sim.Restore(cfg, snap, opts)
	} else {
		s, err = sim.New(cfg, opts)
	}
	if err != nil {
		return err
	}

	ep, err := s.Run(ctx, om)
	if err != nil {
		slog.Warn("telemetry errors", "error", err)
	}
	slog.Info("episode result", "episode", ep)

	if cfg.Telemetry.Plot && om.Dir() != "" {
		file := filepath.Join(om.Dir(), "trajectory.png")
		if err := telemetry.PlotTrajectory(file, s.History(), "run "+s.RunID()); err != nil {
			return err
		}
		slog.Info("trajectory written", "file", file)
	}
	return nil
}
