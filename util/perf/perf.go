package perf

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/thanhpk/randstr"

	db "mmbench/debug"
	linuxsched "mmbench/util/linux/sched"
)

//
// Perf output is controled by MMPERF environment variable, which
// can be a list of labels (e.g., "MATMUL_PPROF;MATMUL_CPU;").
//

const (
	PERF_ENV    = "MMPERF"
	OUTPUT_PATH = "/tmp/mmbench-perf"
)

type Tselector string

const (
	PPROF     Tselector = "_PPROF"
	PPROF_MEM           = "_PPROF_MEM"
	CPU                 = "_CPU"
	TPT                 = "_TPT"
)

const (
	MATMUL Tselector = "MATMUL"
	SWEEP            = "SWEEP"
)

var labels map[Tselector]bool = nil

func initLabels() {
	if labels == nil {
		labels = ParseLabels(os.Getenv(PERF_ENV))
	}
}

func ParseLabels(s string) map[Tselector]bool {
	m := make(map[Tselector]bool)
	for _, l := range strings.Split(s, ";") {
		if l != "" {
			m[Tselector(l)] = true
		}
	}
	return m
}

type prof struct {
	active bool
	file   *os.File
}

// Tracks performance statistics for any cores on which the current process is
// able to run.
type Perf struct {
	mu             sync.Mutex
	selector       Tselector
	done           uint32
	utilChan       chan bool
	util           prof
	pprof          prof
	pprofMem       prof
	tpt            prof
	cpuCyclesBusy  []float64
	cpuCyclesTotal []float64
	cpuUtilPct     []float64
	cores          map[string]bool
	tpts           []float64
	times          []time.Time
	sampleHz       int
}

func NewPerf(s Tselector, sampleHz int) (*Perf, error) {
	initLabels()
	return NewPerfLabels(s, labels, OUTPUT_PATH, sampleHz)
}

// NewPerfLabels starts the trackers enabled for s in lbls. Output files
// go to dir and are named after s and a random run id.
func NewPerfLabels(s Tselector, lbls map[Tselector]bool, dir string, sampleHz int) (*Perf, error) {
	db.DPrintf(db.PERF, "Perf tracking selector %v labels %v", s, lbls)
	p := &Perf{}
	p.selector = s
	p.sampleHz = sampleHz
	if p.sampleHz < 1 {
		p.sampleHz = 1
	}
	p.utilChan = make(chan bool, 1)
	if !lbls[s+PPROF] && !lbls[s+PPROF_MEM] && !lbls[s+CPU] && !lbls[s+TPT] {
		return p, nil
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigc
		p.Done()
		os.Exit(143)
	}()
	// Make the output dir
	if err := os.MkdirAll(dir, 0777); err != nil {
		db.DPrintf(db.ALWAYS, "NewPerf: MkdirAll %s err %v", dir, err)
		return nil, err
	}
	basePath := filepath.Join(dir, strings.ToLower(string(s))+"-"+randstr.Hex(8))
	if lbls[s+PPROF] {
		db.DPrintf(db.PERF, "Set up pprof capture")
		if err := p.setupPprof(basePath + "-pprof.out"); err != nil {
			return nil, err
		}
	}
	if lbls[s+PPROF_MEM] {
		db.DPrintf(db.PERF, "Set up pprof mem capture")
		if err := p.setupPprofMem(basePath + "-pprof-mem.out"); err != nil {
			return nil, err
		}
	}
	if lbls[s+CPU] {
		db.DPrintf(db.PERF, "Set up CPU util capture")
		if err := p.setupCPUUtil(basePath + "-cpu.out"); err != nil {
			return nil, err
		}
	}
	if lbls[s+TPT] {
		db.DPrintf(db.PERF, "Set up tpt capture")
		if err := p.setupTpt(basePath + "-tpt.out"); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Register that an event has happened with a given instantaneous throughput.
func (p *Perf) TptTick(tpt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// If we aren't recording throughput, return.
	if !p.tpt.active {
		return
	}
	p.tptTickL(tpt)
}

func (p *Perf) tptTickL(tpt float64) {
	// If it has been long enough since we started incrementing this slot, seal
	// it and move to the next slot. In this way, we always expect
	// len(p.times) == len(p.tpts)
	if time.Since(p.times[len(p.times)-1]).Milliseconds() > int64(1000/p.sampleHz) {
		p.tpts = append(p.tpts, 0.0)
		p.times = append(p.times, time.Now())
	}
	// Increment the current tpt slot.
	p.tpts[len(p.tpts)-1] += tpt
}

func (p *Perf) SumTicks() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	sum := float64(0)
	for _, tpt := range p.tpts {
		sum += tpt
	}
	return sum
}

func (p *Perf) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == 0 {
		atomic.StoreUint32(&p.done, 1)
		p.teardownPprof()
		p.teardownPprofMem()
		p.teardownUtil()
		p.teardownTpt()
	}
}

// Only count cycles on cores we can run on
func GetActiveCores() map[string]bool {
	cores := map[string]bool{}
	m, err := linuxsched.SchedGetAffinity(os.Getpid())
	if err != nil {
		db.DPrintf(db.ALWAYS, "Error getting affinity mask: %v", err)
		return cores
	}
	for i := uint(0); i < linuxsched.MAX_CORES; i++ {
		if m.Test(i) {
			cores[fmt.Sprintf("cpu%d", i)] = true
		}
	}
	return cores
}

// GetCPUSample returns busy and total seconds summed over cores.
func GetCPUSample(cores map[string]bool) (busy, total float64, err error) {
	ts, err := cpu.Times(true)
	if err != nil {
		return 0, 0, err
	}
	for _, t := range ts {
		if !cores[t.CPU] {
			continue
		}
		b := t.User + t.System + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
		busy += b
		total += b + t.Idle
	}
	return busy, total, nil
}

func (p *Perf) monitorCPUUtil() {
	sleepMsecs := 1000 / p.sampleHz
	busy0, total0, err := GetCPUSample(p.cores)
	if err != nil {
		db.DPrintf(db.ALWAYS, "Error CPU sample: %v", err)
	}
	for atomic.LoadUint32(&p.done) != 1 {
		time.Sleep(time.Duration(sleepMsecs) * time.Millisecond)
		busy1, total1, err := GetCPUSample(p.cores)
		if err != nil {
			db.DPrintf(db.ALWAYS, "Error CPU sample: %v", err)
			continue
		}
		busyDelta := busy1 - busy0
		totalDelta := total1 - total0
		util := 0.0
		if totalDelta > 0 {
			util = 100.0 * busyDelta / totalDelta
		}
		db.DPrintf(db.CPU_UTIL, "CPU util: %f [busy: %f, total: %f]", util, busyDelta, totalDelta)
		p.cpuCyclesBusy = append(p.cpuCyclesBusy, busyDelta)
		p.cpuCyclesTotal = append(p.cpuCyclesTotal, totalDelta)
		p.cpuUtilPct = append(p.cpuUtilPct, util)
		busy0 = busy1
		total0 = total1
	}
	p.utilChan <- true
}

func (p *Perf) setupCPUUtil(fpath string) error {
	p.mu.Lock()

	f, err := os.Create(fpath)
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("Create util file %v: %v", fpath, err)
	}
	p.util.active = true
	p.util.file = f
	// Pre-allocate a large number of entries (40 secs worth)
	p.cpuCyclesBusy = make([]float64, 0, 40*p.sampleHz)
	p.cpuCyclesTotal = make([]float64, 0, 40*p.sampleHz)
	p.cpuUtilPct = make([]float64, 0, 40*p.sampleHz)
	p.cores = GetActiveCores()

	p.mu.Unlock()

	go p.monitorCPUUtil()
	return nil
}

func (p *Perf) setupTpt(fpath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.Create(fpath)
	if err != nil {
		return fmt.Errorf("Create tpt file %v: %v", fpath, err)
	}
	p.tpt.active = true
	p.tpt.file = f
	p.times = make([]time.Time, 0, 40*p.sampleHz)
	p.tpts = make([]float64, 0, 40*p.sampleHz)
	p.times = append(p.times, time.Now())
	p.tpts = append(p.tpts, 0.0)
	return nil
}

func (p *Perf) setupPprof(fpath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.Create(fpath)
	if err != nil {
		return fmt.Errorf("Create pprof file %v: %v", fpath, err)
	}
	p.pprof.active = true
	p.pprof.file = f
	if err := pprof.StartCPUProfile(f); err != nil {
		debug.PrintStack()
		return fmt.Errorf("StartCPUProfile: %v", err)
	}
	return nil
}

func (p *Perf) setupPprofMem(fpath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.Create(fpath)
	if err != nil {
		return fmt.Errorf("Create pprofMem file %v: %v", fpath, err)
	}
	p.pprofMem.active = true
	p.pprofMem.file = f
	return nil
}

// Caller holds lock.
func (p *Perf) teardownPprof() {
	if p.pprof.active {
		db.DPrintf(db.PERF, "Tear down pprof perf tracker")
		// Avoid double-closing
		p.pprof.active = false
		pprof.StopCPUProfile()
		if err := p.pprof.file.Sync(); err != nil {
			db.DPrintf(db.ALWAYS, "Error sync pprof file: %v", err)
		}
		if err := p.pprof.file.Close(); err != nil {
			db.DPrintf(db.ALWAYS, "Error close pprof file: %v", err)
		}
	}
}

// Caller holds lock.
func (p *Perf) teardownPprofMem() {
	if p.pprofMem.active {
		// Avoid double-closing
		p.pprofMem.active = false
		if err := pprof.WriteHeapProfile(p.pprofMem.file); err != nil {
			db.DPrintf(db.ALWAYS, "could not write memory profile: %v", err)
		}
		p.pprofMem.file.Close()
	}
}

// Caller holds lock.
func (p *Perf) teardownUtil() {
	if p.util.active {
		<-p.utilChan
		// Avoid double-closing
		p.util.active = false
		for i := 0; i < len(p.cpuCyclesBusy); i++ {
			if _, err := p.util.file.WriteString(fmt.Sprintf("%f,%f,%f\n", p.cpuUtilPct[i], p.cpuCyclesBusy[i], p.cpuCyclesTotal[i])); err != nil {
				db.DPrintf(db.ALWAYS, "Error writing to util file: %v", err)
				break
			}
		}
		p.util.file.Close()
	}
}

// Caller holds lock.
func (p *Perf) teardownTpt() {
	if p.tpt.active {
		p.tpt.active = false
		db.DPrintf(db.PERF, "Tear down tpt perf tracker num entries %v", len(p.times))
		for i := 0; i < len(p.times); i++ {
			if _, err := p.tpt.file.WriteString(fmt.Sprintf("%vus,%f\n", p.times[i].UnixMicro(), p.tpts[i])); err != nil {
				db.DPrintf(db.ALWAYS, "Error writing to tpt file: %v", err)
				break
			}
		}
		p.tpt.file.Close()
	}
}
