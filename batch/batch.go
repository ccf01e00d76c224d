// Package batch runs many independent episodes concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/sim"
	"github.com/pthm-cable/pursuit/telemetry"
)

// Options configures a batch.
type Options struct {
	Workers  int          // Concurrent episodes, 0 = GOMAXPROCS
	Recorder sim.Recorder // Shared by every episode, must be safe for concurrent use
	Logger   *slog.Logger
}

// Seeds returns n evaluation seeds derived from base.
func Seeds(base int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)*1000
	}
	return seeds
}

// Run plays one episode per seed and returns their records in seed order.
// Episodes still running when ctx is done end as cancelled. The error joins
// construction failures and telemetry write failures; records are returned
// for every episode that started.
func Run(ctx context.Context, cfg *config.Config, seeds []int64, opts Options) ([]telemetry.EpisodeRecord, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]telemetry.EpisodeRecord, len(seeds))
	errs := make([]error, len(seeds))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, seed := range seeds {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			s, err := sim.New(cfg, sim.Options{Seed: seed, Logger: logger})
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			results[idx], errs[idx] = s.Run(ctx, opts.Recorder)
		}(i, seed)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
