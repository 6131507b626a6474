package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/tankfield/config"
	"github.com/plus3/tankfield/logging"
	"github.com/plus3/tankfield/tanks"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file.")
	duration := flag.Duration("duration", 10*time.Second, "Wall time the benchmark should run for.")
	maxTicks := flag.Int("ticks", 0, "Stop after this many ticks; 0 runs for -duration.")
	agents := flag.Int("agents", -1, "Number of agents; -1 uses the config value.")
	dt := flag.Float64("dt", 0, "Fixed tick length in seconds; 0 uses 1/tickRate.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tanks-bench: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tanks-bench: %v\n", err)
		os.Exit(1)
	}

	if *agents >= 0 {
		cfg.Agents = *agents
	}
	step := *dt
	if step <= 0 {
		step = cfg.TickInterval()
	}

	opts := cfg.WorldOptions()
	opts.Logger = logger
	world, err := tanks.NewWorld(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating world")
	}

	report := &Report{
		Duration:       *duration,
		Agents:         cfg.Agents,
		Seed:           cfg.Seed,
		DeltaTime:      step,
		Workers:        cfg.Parallel.Workers,
		ChunkSize:      cfg.Parallel.ChunkSize,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", *duration).Int("ticks", *maxTicks).Float64("dt", step).Msg("running benchmark")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastLog := startTime

Loop:
	for *maxTicks == 0 || report.TotalUpdates < int64(*maxTicks) {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		updateStart := time.Now()
		world.Step(step)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++

		stats := world.Stats()
		report.PeakProjectiles = max(report.PeakProjectiles, stats.Projectiles)

		if time.Since(lastLog) >= time.Second {
			lastLog = time.Now()
			logger.Info().
				Uint64("tick", stats.Tick).
				Int("projectiles", stats.Projectiles).
				Uint64("despawned", stats.Despawned).
				Msg("progress")
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Sim = world.Stats()
	report.Systems = world.Scheduler().GetStats().Systems
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().Int64("ticks", report.TotalUpdates).Dur("elapsed", report.TotalTime).Msg("benchmark finished")

	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("generating report")
	}
}
