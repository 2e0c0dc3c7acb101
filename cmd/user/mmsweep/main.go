package main

import (
	"fmt"
	"io"
	"os"

	"mmbench/benchmarks"
	"mmbench/clock"
	db "mmbench/debug"
	"mmbench/param"
	"mmbench/util/perf"
	"mmbench/util/tracing"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		db.DFatalf("Usage: %v threads|gustafson|trials [sweep.yaml]\nArgs: %v", os.Args[0], os.Args)
	}
	db.Name("mmsweep")
	defer db.Sync()

	cfg, err := param.Load()
	if err != nil {
		db.DFatalf("Error load config: %v", err)
	}
	sc := benchmarks.DefaultSweepConfig()
	if len(os.Args) == 3 {
		if sc, err = benchmarks.ReadSweepConfigFile(os.Args[2]); err != nil {
			db.DFatalf("Error sweep config %v: %v", os.Args[2], err)
		}
	}
	lbls := perf.ParseLabels(os.Getenv(perf.PERF_ENV))
	if err := run(os.Args[1], cfg, sc, lbls, perf.OUTPUT_PATH, os.Stdout); err != nil {
		db.DFatalf("%v", err)
	}
}

// run performs one sweep. Perf trackers and traces are finished on every
// return path.
func run(mode string, cfg param.Config, sc *benchmarks.SweepConfig, lbls map[perf.Tselector]bool, perfDir string, w io.Writer) error {
	db.DPrintf(db.SWEEP, "Sweep %v %v base %v", mode, sc, cfg)

	p, err := perf.NewPerfLabels(perf.SWEEP, lbls, perfDir, cfg.Perf.CPU_UTIL_SAMPLE_HZ)
	if err != nil {
		return fmt.Errorf("Error NewPerf: %v", err)
	}
	defer p.Done()

	tr, err := tracing.Init("mmsweep")
	if err != nil {
		return fmt.Errorf("Error tracing: %v", err)
	}
	defer tr.Flush()

	sw := benchmarks.NewSweep(clock.NewMonotonic(), cfg, sc)
	sw.SetTracer(tr)
	switch mode {
	case "threads":
		_, err = sw.ThreadSweep(w)
	case "gustafson":
		_, err = sw.Gustafson(w)
	case "trials":
		var rs *benchmarks.Results
		if rs, err = sw.BoundedTrials(w); err == nil {
			p.TptTick(rs.MaxAmt())
		}
	default:
		return fmt.Errorf("Unknown sweep %v", mode)
	}
	if err != nil {
		return fmt.Errorf("Error %v sweep: %v", mode, err)
	}
	return nil
}
