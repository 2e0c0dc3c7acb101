package sched_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	linuxsched "mmbench/util/linux/sched"
)

func TestCompile(t *testing.T) {
}

func TestBasic(t *testing.T) {
	pid := os.Getpid()
	// Get the cores we can run on
	m, err := linuxsched.SchedGetAffinity(pid)
	assert.Nil(t, err, "SchedGetAffinity")
	n := 0
	for i := uint(0); i < linuxsched.MAX_CORES; i++ {
		if m.Test(i) {
			n++
		}
	}
	assert.True(t, n > 0, "Number of cores")
	assert.True(t, uint(n) <= linuxsched.GetNCores(), "Mask exceeds cores")
	assert.Equal(t, m.Count(), linuxsched.NDefaultWorkers())
}
