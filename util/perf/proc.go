package perf

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	db "mmbench/debug"
)

// ProcSample is this process's user+system CPU time at an instant.
type ProcSample struct {
	t   time.Time
	cpu float64
}

func SampleProc() (ProcSample, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcSample{}, err
	}
	ts, err := p.Times()
	if err != nil {
		return ProcSample{}, err
	}
	return ProcSample{t: time.Now(), cpu: ts.User + ts.System}, nil
}

// UtilBetween is the CPU utilization in percent of one core between two
// samples; 400 means four cores were busy for the whole interval.
func UtilBetween(s0, s1 ProcSample) float64 {
	secs := s1.t.Sub(s0.t).Seconds()
	if secs <= 0 {
		return 0
	}
	return 100.0 * (s1.cpu - s0.cpu) / secs
}

// Some convenience functions for logging performance-related data
func LogPhase(label db.Tselector, phase string, start time.Time) {
	// Bail out early if not logging
	if !db.WillBePrinted(label) {
		return
	}
	db.DPrintf(label, "%s took %v", phase, time.Since(start))
}
