// Command tune searches the polar controller gains with CMA-ES, minimizing
// the mean intercept time over a fixed set of seeds. It writes the best
// config to disk and never changes a running episode.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/pursuit/batch"
	"github.com/pthm-cable/pursuit/config"
)

// Trial is one row of tune_log.csv.
type Trial struct {
	Eval        int     `csv:"eval"`
	Cost        float64 `csv:"cost"`
	SuccessRate float64 `csv:"success_rate"`
	KRho        float64 `csv:"k_rho"`
	KAlpha      float64 `csv:"k_alpha"`
	KBeta       float64 `csv:"k_beta"`
}

// tracker wraps the objective, keeps the best gains seen and appends every
// evaluation to the trial log.
type tracker struct {
	params    *ParamVector
	eval      *FitnessEvaluator
	out       *os.File
	wroteHead bool

	maxEvals int
	started  time.Time

	n        int
	bestCost float64
	best     []float64
}

func (t *tracker) objective(ctx context.Context) func([]float64) float64 {
	return func(x []float64) float64 {
		gains := t.params.Clamp(t.params.Denormalize(x))
		cost := t.eval.Evaluate(ctx, gains)
		t.n++
		if t.best == nil || cost < t.bestCost {
			t.bestCost, t.best = cost, gains
		}
		t.record(cost, gains)
		return cost
	}
}

func (t *tracker) record(cost float64, gains []float64) {
	sum := t.eval.LastSummary()
	row := []Trial{{Eval: t.n, Cost: cost, SuccessRate: sum.SuccessRate, KRho: gains[0], KAlpha: gains[1], KBeta: gains[2]}}

	var err error
	if t.wroteHead {
		err = gocsv.MarshalWithoutHeaders(row, t.out)
	} else {
		err = gocsv.Marshal(row, t.out)
		t.wroteHead = true
	}
	if err != nil {
		slog.Warn("trial log write failed", "error", err)
	}

	elapsed := time.Since(t.started)
	eta := time.Duration(t.maxEvals-t.n) * (elapsed / time.Duration(t.n))
	fmt.Printf("eval %d/%d  cost %.2fs  success %3.0f%%  best %.2fs  elapsed %s  eta %s\n",
		t.n, t.maxEvals, cost, 100*sum.SuccessRate, t.bestCost, clock(elapsed), clock(eta))
}

// clock renders d as 1h02m03s, or 2m03s under an hour.
func clock(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 0, "Episode horizon in ticks (0 = use config)")
	seeds := flag.Int("seeds", 8, "Number of seeds per evaluation")
	baseSeed := flag.Int64("base-seed", 42, "First evaluation seed")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	workers := flag.Int("workers", 0, "Concurrent episodes per evaluation (0 = GOMAXPROCS)")
	budget := flag.Duration("budget", 0, "Wall-clock limit for the search (0 = none)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *outputDir, *maxTicks, *seeds, *baseSeed, *maxEvals, *population, *workers, *budget); err != nil {
		slog.Error("tune failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, outputDir string, maxTicks, seeds int, baseSeed int64, maxEvals, population, workers int, budget time.Duration) error {
	if outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := config.Init(configPath); err != nil {
		return err
	}
	base := config.Cfg()
	if maxTicks > 0 {
		base.Sim.MaxTicks = maxTicks
	}
	if base.Sim.MaxTicks <= 0 {
		return fmt.Errorf("tuning needs a finite horizon; set sim.max_ticks or --max-ticks")
	}
	base.Telemetry.RecordTicks = false

	logFile, err := os.Create(filepath.Join(outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating trial log: %w", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params := NewParamVector()
	t := &tracker{
		params:   params,
		eval:     NewFitnessEvaluator(params, batch.Seeds(baseSeed, seeds), base, workers, logger),
		out:      logFile,
		maxEvals: maxEvals,
		started:  time.Now(),
	}

	if population == 0 {
		population = 4 + 3*params.Dim()/2
	}
	problem := optimize.Problem{
		Func: t.objective(ctx),
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	// Episodes already run in parallel inside one evaluation.
	settings := &optimize.Settings{FuncEvaluations: maxEvals, Runtime: budget}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}

	fmt.Printf("CMA-ES over %d gains, population %d, %d evals, %d seeds x %d ticks\n",
		params.Dim(), population, maxEvals, seeds, base.Sim.MaxTicks)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		slog.Warn("search stopped early", "error", err)
	}
	best := t.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return fmt.Errorf("no evaluation completed")
	}

	fmt.Printf("\n%d evals in %s, best cost %.2fs\n", t.n, clock(time.Since(t.started)), t.bestCost)
	for i, spec := range params.Specs {
		fmt.Printf("  %-16s %.6f\n", spec.Path, best[i])
	}

	bestCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, best)
	out := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("best config saved to %s\n", out)
	return nil
}
