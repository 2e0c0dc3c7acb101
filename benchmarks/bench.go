package benchmarks

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"

	"mmbench/clock"
	db "mmbench/debug"
	"mmbench/matrix"
	"mmbench/mm"
	"mmbench/param"
	"mmbench/util/linux/mem"
	linuxsched "mmbench/util/linux/sched"
	"mmbench/util/perf"
	"mmbench/util/tracing"
)

// NThread resolves the configured worker count.
func NThread(cfg param.Config) int {
	if cfg.Threads == param.DEFAULT_THREADS {
		return linuxsched.NDefaultWorkers()
	}
	return cfg.Threads
}

// Bench owns the three matrices of one benchmark configuration. The
// operands are filled once; every run starts from a zero result.
type Bench struct {
	cfg     param.Config
	mcfg    mm.Config
	clk     clock.Clock
	tr      *tracing.Tracer
	a, b, c *matrix.Matrix
}

func NewBench(clk clock.Clock, cfg param.Config) (*Bench, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mcfg, err := mm.NewConfig(cfg, NThread(cfg))
	if err != nil {
		return nil, err
	}
	bn := &Bench{cfg: cfg, mcfg: mcfg, clk: clk, tr: tracing.Global("mmbench")}
	sz, err := matrix.Footprint(cfg.Size)
	if err != nil {
		return nil, err
	}
	if sz > math.MaxUint64/3 {
		return nil, fmt.Errorf("matrix size %d too large", cfg.Size)
	}
	if err := mem.CheckAlloc(mem.Tmem(3 * sz)); err != nil {
		return nil, err
	}
	start := time.Now()
	if bn.a, err = matrix.NewMatrix(cfg.Size); err != nil {
		return nil, err
	}
	if bn.b, err = matrix.NewMatrix(cfg.Size); err != nil {
		return nil, err
	}
	if bn.c, err = matrix.NewMatrix(cfg.Size); err != nil {
		return nil, err
	}
	src := matrix.NewSource(cfg.Seed)
	bn.a.FillRandom(src, cfg.Low, cfg.High)
	bn.b.FillRandom(src, cfg.Low, cfg.High)
	bn.c.FillZero()
	db.DPrintf(db.MATRIX, "Allocated and filled 3 x %d x %d (%s) in %v", cfg.Size, cfg.Size,
		humanize.Bytes(3*bn.a.Bytes()), time.Since(start))
	return bn, nil
}

func (bn *Bench) SetTracer(tr *tracing.Tracer) {
	bn.tr = tr
}

func (bn *Bench) Nthread() int {
	return bn.mcfg.Nthread
}

func (bn *Bench) Config() mm.Config {
	return bn.mcfg
}

func (bn *Bench) Operands() (*matrix.Matrix, *matrix.Matrix) {
	return bn.a, bn.b
}

func (bn *Bench) Result() *matrix.Matrix {
	return bn.c
}

// Run performs one bounded multiplication into a zeroed result.
func (bn *Bench) Run() (*mm.Result, error) {
	return bn.run(context.TODO())
}

func (bn *Bench) run(ctx context.Context) (*mm.Result, error) {
	_, span := bn.tr.StartContextSpan(ctx, "Mult")
	defer span.End()
	span.SetAttributes(attribute.Int("size", bn.cfg.Size), attribute.Int("nthread", bn.mcfg.Nthread),
		attribute.String("budget", bn.mcfg.Budget.String()))

	bn.c.FillZero()
	s0, err := perf.SampleProc()
	if err != nil {
		db.DPrintf(db.BENCH_ERR, "SampleProc err %v", err)
	}
	res, err := mm.Mult(bn.clk, bn.mcfg, bn.a, bn.b, bn.c)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("steps", res.Steps), attribute.Bool("complete", res.Complete))
	if s1, err := perf.SampleProc(); err == nil {
		db.DPrintf(db.CPU_UTIL, "Mult CPU util %.1f%% nthread %d", perf.UtilBetween(s0, s1), bn.mcfg.Nthread)
	}
	db.DPrintf(db.BENCH, "Run steps %s/%s rate %s imbalance %.3f",
		humanize.Comma(res.Steps), humanize.Comma(res.Max),
		humanize.SIWithDigits(res.Rate(), 2, "steps/sec"), res.Imbalance())
	return res, nil
}

// Trials repeats Run n times.
func (bn *Bench) Trials(n int, p *perf.Perf) (*Results, error) {
	ctx, span := bn.tr.StartTopLevelSpan("Trials")
	defer span.End()
	span.SetAttributes(attribute.Int("trials", n))
	rs := NewResults(n, "steps")
	for i := 0; i < n; i++ {
		res, err := bn.run(ctx)
		if err != nil {
			return nil, err
		}
		rs.Append(res.Elapsed, float64(res.Steps))
		if p != nil {
			p.TptTick(float64(res.Steps))
		}
	}
	return rs, nil
}

func Banner(w io.Writer, size, nthread int) {
	fmt.Fprintf(w, "Matrix multiplication of size %d using %d threads\n", size, nthread)
}

// Report writes the two per-run diagnostic lines.
func Report(w io.Writer, res *mm.Result, budget time.Duration) {
	if budget < 0 {
		fmt.Fprintf(w, "A total of %d tasks could be completed without a time limit\n", res.Steps)
	} else {
		fmt.Fprintf(w, "A total of %d tasks could be completed in %2.2f seconds\n", res.Steps, budget.Seconds())
	}
	fmt.Fprintf(w, "Matrix multiplication took %2.4f seconds\n", res.Elapsed.Seconds())
}
