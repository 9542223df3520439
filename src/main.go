package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liftsim/src/config"
	"liftsim/src/report"
	"liftsim/src/sim"
	"liftsim/src/trace"
	"liftsim/src/types"
	"liftsim/src/utils"
)

type options struct {
	configPath string
	envPath    string
	seed       int64
	duration   time.Duration
	outDir     string
	traceMode  string
	verbose    bool
	set        map[string]bool
}

func main() {
	opts := options{set: map[string]bool{}}
	flag.StringVar(&opts.configPath, "config", "", "YAML file with simulation parameters")
	flag.StringVar(&opts.envPath, "env", "", "dotenv file with LIFTSIM_* overrides")
	flag.Int64Var(&opts.seed, "seed", config.Seed, "random seed")
	flag.DurationVar(&opts.duration, "duration", config.Duration, "simulated time to run")
	flag.StringVar(&opts.outDir, "out", "out", "root directory for per-seed outputs")
	flag.StringVar(&opts.traceMode, "trace", "pretty", "event trace format: pretty, json or off")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if err := run(opts); err != nil {
		slog.Error("Simulation failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.envPath != "" {
		env, err := config.LoadEnvFile(opts.envPath)
		if err != nil {
			return cfg, err
		}
		if err := config.ApplyEnv(&cfg, env); err != nil {
			return cfg, err
		}
	}
	if opts.set["seed"] {
		cfg.Seed = opts.seed
	}
	if opts.set["duration"] {
		cfg.Duration = opts.duration
	}
	return cfg, cfg.Validate()
}

func run(opts options) error {
	switch opts.traceMode {
	case "pretty", "json", "off":
	default:
		return fmt.Errorf("unknown trace format %q", opts.traceMode)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	dir, err := report.Dir(opts.outDir, cfg.Seed)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	closeLog, err := utils.InitLogger(report.Path(dir, "run", cfg.Seed, "log"), level)
	if err != nil {
		return err
	}
	defer closeLog()

	sinks := types.Sinks{progress()}
	var tracer *trace.Tracer
	if opts.traceMode != "off" {
		f, err := os.Create(report.Path(dir, "log", cfg.Seed, "txt"))
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		tracer = trace.New(f, opts.traceMode == "pretty")
		sinks = append(sinks, tracer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := sim.New(cfg, sinks)
	if err != nil {
		closeTracer(tracer)
		return err
	}
	results, runErr := s.Run(ctx)
	dropped := closeTracer(tracer)

	if err := report.WriteAll(dir, results, dropped); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}

	printSummary(os.Stdout, dir, results)
	return nil
}

// progress logs the live population once per simulated hour.
func progress() types.EventSink {
	return types.SinkFunc(func(ev types.Event) {
		sample, ok := ev.(types.PopulationSampled)
		if !ok || sample.At%time.Hour != 0 {
			return
		}
		slog.Debug("Simulated hour passed", "clock", utils.FormatClock(sample.At), "alive", sample.Live)
	})
}

// closeTracer flushes the trace and returns how many lines it lost.
func closeTracer(tracer *trace.Tracer) int64 {
	if tracer == nil {
		return 0
	}
	if err := tracer.Close(); err != nil {
		slog.Warn("Closing trace failed", "error", err)
	}
	if dropped := tracer.Dropped(); dropped > 0 {
		slog.Warn("Trace is incomplete", "dropped", dropped)
		return dropped
	}
	return 0
}

func printSummary(w io.Writer, dir string, results sim.Results) {
	stats := results.Stats
	fmt.Fprintf(w, "seed %d: %d humans, max %d alive, %d pickups, mean wait %s, outputs in %s\n",
		results.Config.Seed,
		stats.Created,
		stats.MaxLive(),
		len(stats.WaitingTimes),
		report.Digest(stats.WaitingTimes).Mean,
		dir)
}
