package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"mmbench/benchmarks"
	"mmbench/clock"
	db "mmbench/debug"
	"mmbench/param"
	"mmbench/util/perf"
	"mmbench/util/tracing"
)

var errNargs = errors.New("Incorrect number of arguments.")

func main() {
	db.Name("mmbench")
	defer db.Sync()

	cfg, err := param.Load()
	if err != nil {
		db.DFatalf("Error load config: %v", err)
	}
	cfg, err = parseArgs(cfg, os.Args[1:])
	if err == errNargs {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	if err != nil {
		db.DFatalf("%v", err)
	}
	lbls := perf.ParseLabels(os.Getenv(perf.PERF_ENV))
	if err := run(cfg, lbls, perf.OUTPUT_PATH, os.Stdout, os.Stderr); err != nil {
		db.DFatalf("%v", err)
	}
}

// parseArgs overrides cfg with the optional [size] [threads] arguments.
func parseArgs(cfg param.Config, args []string) (param.Config, error) {
	if len(args) > 2 {
		return cfg, errNargs
	}
	var err error
	if len(args) > 0 {
		if cfg.Size, err = strconv.Atoi(args[0]); err != nil {
			return cfg, fmt.Errorf("Invalid size: %v, %v", args[0], err)
		}
		if cfg.Size < 1 {
			return cfg, fmt.Errorf("Invalid size: %v", cfg.Size)
		}
	}
	if len(args) > 1 {
		if cfg.Threads, err = strconv.Atoi(args[1]); err != nil {
			return cfg, fmt.Errorf("Invalid threads: %v, %v", args[1], err)
		}
	}
	return cfg, nil
}

// run performs one benchmark. Perf trackers and traces are finished on
// every return path.
func run(cfg param.Config, lbls map[perf.Tselector]bool, perfDir string, stdout, stderr io.Writer) error {
	p, err := perf.NewPerfLabels(perf.MATMUL, lbls, perfDir, cfg.Perf.CPU_UTIL_SAMPLE_HZ)
	if err != nil {
		return fmt.Errorf("Error NewPerf: %v", err)
	}
	defer p.Done()

	tr, err := tracing.Init("mmbench")
	if err != nil {
		return fmt.Errorf("Error tracing: %v", err)
	}
	defer tr.Flush()

	start := time.Now()
	bn, err := benchmarks.NewBench(clock.NewMonotonic(), cfg)
	if err != nil {
		return fmt.Errorf("Error NewBench: %v", err)
	}
	bn.SetTracer(tr)
	perf.LogPhase(db.BENCH, "Setup", start)

	benchmarks.Banner(stdout, cfg.Size, bn.Nthread())
	res, err := bn.Run()
	if err != nil {
		return fmt.Errorf("Error Run: %v", err)
	}
	p.TptTick(float64(res.Steps))
	benchmarks.Report(stderr, res, bn.Config().Budget)
	if cfg.Print {
		bn.Result().Print(stdout)
	}
	return nil
}
