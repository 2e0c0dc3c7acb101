//go:build !linux

package sched

import (
	"runtime"
)

const MAX_CORES = 1024

// Without affinity masks every core is usable.
type CPUMask struct {
	n int
}

func (m *CPUMask) Test(i uint) bool {
	return int(i) < m.n
}

func (m *CPUMask) Count() int {
	return m.n
}

func SchedGetAffinity(pid int) (*CPUMask, error) {
	return &CPUMask{n: runtime.NumCPU()}, nil
}

func GetNCores() uint {
	return uint(runtime.NumCPU())
}

func NDefaultWorkers() int {
	return runtime.NumCPU()
}
