//go:build linux

package sched

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Size of the kernel cpu_set_t.
const MAX_CORES = 1024

type CPUMask struct {
	set unix.CPUSet
}

func (m *CPUMask) Test(i uint) bool {
	return m.set.IsSet(int(i))
}

func (m *CPUMask) Count() int {
	return m.set.Count()
}

func SchedGetAffinity(pid int) (*CPUMask, error) {
	m := &CPUMask{}
	if err := unix.SchedGetaffinity(pid, &m.set); err != nil {
		return nil, err
	}
	return m, nil
}

// Number of cores in the machine; the affinity mask may cover fewer.
func GetNCores() uint {
	return uint(runtime.NumCPU())
}

// NDefaultWorkers is the worker count used when none is configured: the
// number of cores this process may run on.
func NDefaultWorkers() int {
	m, err := SchedGetAffinity(0)
	if err != nil || m.Count() == 0 {
		return int(GetNCores())
	}
	return m.Count()
}
