package benchmarks

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/klauspost/readahead"
	"gopkg.in/yaml.v3"

	"mmbench/clock"
	db "mmbench/debug"
	"mmbench/param"
	"mmbench/util/tracing"
)

var defaultSweep = `
trials: 3
min_pow: 7
max_pow: 11
max_threads: 0
fixed_budget: 100ms
initial_dim: 2048
`

type SweepConfig struct {
	// Repetitions per data point; the best one is kept.
	Trials int `yaml:"trials"`
	// Thread sweep sizes are 2^MinPow .. 2^MaxPow.
	MinPow int `yaml:"min_pow"`
	MaxPow int `yaml:"max_pow"`
	// Thread counts 1..MaxThreads; 0 selects the platform default.
	MaxThreads int `yaml:"max_threads"`
	// Gustafson: budget and matrix size of the fixed-time runs.
	FixedBudget time.Duration `yaml:"fixed_budget"`
	InitialDim  int           `yaml:"initial_dim"`
}

func (sc *SweepConfig) String() string {
	return fmt.Sprintf("&{ Trials:%v MinPow:%v MaxPow:%v MaxThreads:%v FixedBudget:%v InitialDim:%v }",
		sc.Trials, sc.MinPow, sc.MaxPow, sc.MaxThreads, sc.FixedBudget, sc.InitialDim)
}

func DefaultSweepConfig() *SweepConfig {
	sc, err := ReadSweepConfig(strings.NewReader(defaultSweep), &SweepConfig{})
	if err != nil {
		db.DFatalf("Yaml decode sweep defaults err %v", err)
	}
	return sc
}

// ReadSweepConfig overlays the YAML document in rd onto a copy of base.
func ReadSweepConfig(rd io.Reader, base *SweepConfig) (*SweepConfig, error) {
	sc := *base
	if err := yaml.NewDecoder(rd).Decode(&sc); err != nil && err != io.EOF {
		return nil, err
	}
	if sc.Trials < 1 || sc.MinPow < 0 || sc.MaxPow < sc.MinPow || sc.MaxThreads < 0 || sc.InitialDim < 0 {
		return nil, fmt.Errorf("bad sweep config %v", &sc)
	}
	return &sc, nil
}

func ReadSweepConfigFile(pn string) (*SweepConfig, error) {
	f, err := os.Open(pn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rd := readahead.NewReader(f)
	defer rd.Close()
	return ReadSweepConfig(rd, DefaultSweepConfig())
}

func (sc *SweepConfig) ThreadCounts(base param.Config) []int {
	nmax := sc.MaxThreads
	if nmax == 0 {
		base.Threads = param.DEFAULT_THREADS
		nmax = NThread(base)
	}
	ts := make([]int, nmax)
	for i := range ts {
		ts[i] = i + 1
	}
	return ts
}

// Sweep runs the sweeps of one SweepConfig on top of a base process
// config (seed, value range, poll interval, partition).
type Sweep struct {
	clk  clock.Clock
	base param.Config
	sc   *SweepConfig
	tr   *tracing.Tracer
}

func NewSweep(clk clock.Clock, base param.Config, sc *SweepConfig) *Sweep {
	return &Sweep{clk: clk, base: base, sc: sc, tr: tracing.Global("mmsweep")}
}

func (sw *Sweep) SetTracer(tr *tracing.Tracer) {
	sw.tr = tr
}

func (sw *Sweep) bench(size, nthread int, budget time.Duration) (*Bench, error) {
	cfg := sw.base
	cfg.Size = size
	cfg.Threads = nthread
	cfg.Budget = budget
	bn, err := NewBench(sw.clk, cfg)
	if err != nil {
		return nil, err
	}
	bn.SetTracer(sw.tr)
	return bn, nil
}

func (sw *Sweep) trials(size, nthread int, budget time.Duration) (*Results, error) {
	bn, err := sw.bench(size, nthread, budget)
	if err != nil {
		return nil, err
	}
	return bn.Trials(sw.sc.Trials, nil)
}

type ThreadPoint struct {
	Size    int
	Nthread int
	Fastest time.Duration
}

// ThreadSweep times the unlimited product for every size and thread
// count, keeping the fastest of Trials runs.
func (sw *Sweep) ThreadSweep(w io.Writer) ([]ThreadPoint, error) {
	pts := make([]ThreadPoint, 0)
	for pow := sw.sc.MinPow; pow <= sw.sc.MaxPow; pow++ {
		size := 1 << pow
		fmt.Fprintf(w, "Matrix multiplication of size %d\n", size)
		for _, nt := range sw.sc.ThreadCounts(sw.base) {
			rs, err := sw.trials(size, nt, -1)
			if err != nil {
				return nil, err
			}
			pt := ThreadPoint{Size: size, Nthread: nt, Fastest: rs.Fastest()}
			db.DPrintf(db.SWEEP, "%v %v", pt, rs)
			fmt.Fprintf(w, "Using %d threads: %f\n", nt, pt.Fastest.Seconds())
			pts = append(pts, pt)
		}
		fmt.Fprintf(w, "\n")
	}
	return pts, nil
}

type GustafsonPoint struct {
	Nthread int
	// Most steps completed within FixedBudget.
	Tasks int64
	// Cube root of Tasks, rounded.
	Dim     int
	Time1   time.Duration
	TimeP   time.Duration
	Speedup float64
}

func GustafsonDim(tasks int64) int {
	return int(math.Round(math.Cbrt(float64(tasks))))
}

// Gustafson measures scaled speedup: for each thread count p, the work
// p threads finish in FixedBudget is converted to a matrix dimension,
// and the unlimited product of that dimension is timed with 1 and with p
// threads.
func (sw *Sweep) Gustafson(w io.Writer) ([]GustafsonPoint, error) {
	pts := make([]GustafsonPoint, 0)
	for _, p := range sw.sc.ThreadCounts(sw.base) {
		fmt.Fprintf(w, "Using %d threads:\n", p)
		rs, err := sw.trials(sw.sc.InitialDim, p, sw.sc.FixedBudget)
		if err != nil {
			return nil, err
		}
		pt := GustafsonPoint{Nthread: p, Tasks: int64(rs.MaxAmt())}
		pt.Dim = GustafsonDim(pt.Tasks)
		fmt.Fprintf(w, "  N = %d\n  Dim = %d\n", pt.Tasks, pt.Dim)

		rs1, err := sw.trials(pt.Dim, 1, -1)
		if err != nil {
			return nil, err
		}
		pt.Time1 = rs1.Fastest()
		fmt.Fprintf(w, "  time(N, 1) = %f\n", pt.Time1.Seconds())

		rsp, err := sw.trials(pt.Dim, p, -1)
		if err != nil {
			return nil, err
		}
		pt.TimeP = rsp.Fastest()
		fmt.Fprintf(w, "  time(N, %d) = %f\n", p, pt.TimeP.Seconds())

		if pt.TimeP > 0 {
			pt.Speedup = pt.Time1.Seconds() / pt.TimeP.Seconds()
		}
		fmt.Fprintf(w, "  Speedup = %f\n\n", pt.Speedup)
		pts = append(pts, pt)
	}
	PrintGustafson(w, pts)
	return pts, nil
}

func PrintGustafson(w io.Writer, pts []GustafsonPoint) {
	rule := strings.Repeat("=", 79)
	fmt.Fprintf(w, "%s\n\nTabulated:\n\n", rule)
	fmt.Fprintf(w, "| %-10s | %-10s | %-10s | %-10s | %-10s | %-10s |\n", "Thread", "N", "Dimension", "time(N, 1)", "time(N, P)", "Speedup")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 79))
	for _, pt := range pts {
		fmt.Fprintf(w, "| %10d | %10d | %10d | %10.4f | %10.4f | %10.4f |\n",
			pt.Nthread, pt.Tasks, pt.Dim, pt.Time1.Seconds(), pt.TimeP.Seconds(), pt.Speedup)
	}
	fmt.Fprintf(w, "\n%s\n\nCSV:\n\n", rule)
	for _, pt := range pts {
		fmt.Fprintf(w, "%d,%d,%d,%f,%f,%f\n", pt.Nthread, pt.Tasks, pt.Dim, pt.Time1.Seconds(), pt.TimeP.Seconds(), pt.Speedup)
	}
}

// BoundedTrials repeats the base configuration's bounded run and prints
// latency and throughput statistics.
func (sw *Sweep) BoundedTrials(w io.Writer) (*Results, error) {
	bn, err := sw.bench(sw.base.Size, sw.base.Threads, sw.base.Budget)
	if err != nil {
		return nil, err
	}
	Banner(w, sw.base.Size, bn.Nthread())
	rs, err := bn.Trials(sw.sc.Trials, nil)
	if err != nil {
		return nil, err
	}
	lsum, tsum := rs.Summary()
	fmt.Fprintf(w, "%v%v\n", lsum, tsum)
	return rs, nil
}
