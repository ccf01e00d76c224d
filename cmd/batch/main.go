// Command batch runs many headless episodes concurrently and reports
// aggregate intercept statistics.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/pursuit/batch"
	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	episodes := flag.Int("episodes", 20, "Number of episodes")
	baseSeed := flag.Int64("seed", 42, "First seed; episode i uses seed+1000*i")
	workers := flag.Int("workers", 0, "Concurrent episodes (0 = GOMAXPROCS)")
	maxTicks := flag.Int("max-ticks", -1, "Episode horizon in ticks (-1 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs (empty = none)")
	logLevel := flag.String("log-level", "warn", "Per-episode log level")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	episodeLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *maxTicks >= 0 {
		cfg.Sim.MaxTicks = *maxTicks
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting batch", "episodes", *episodes, "seed", *baseSeed, "workers", *workers)
	start := time.Now()

	eps, err := batch.Run(ctx, cfg, batch.Seeds(*baseSeed, *episodes), batch.Options{
		Workers:  *workers,
		Recorder: om,
		Logger:   episodeLogger,
	})
	if err != nil {
		slog.Warn("batch errors", "error", err)
	}

	slog.Info("batch finished",
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"summary", telemetry.Summarize(eps),
	)
}
