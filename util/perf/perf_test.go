package perf_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "mmbench/debug"
	"mmbench/util/perf"
)

func TestCompile(t *testing.T) {
}

func TestGetSamples(t *testing.T) {
	cores := perf.GetActiveCores()
	assert.True(t, len(cores) > 0, "cores")
	busy, total, err := perf.GetCPUSample(cores)
	assert.Nil(t, err)
	assert.True(t, busy < total, "busy %v total %v", busy, total)
}

// Spin in order to consume a core fully.
func spin(done chan bool) {
	for {
		select {
		case <-done:
			return
		default:
		}
	}
}

func TestProcUtil(t *testing.T) {
	done := make(chan bool)
	go spin(done)
	s0, err := perf.SampleProc()
	require.Nil(t, err)
	time.Sleep(300 * time.Millisecond)
	s1, err := perf.SampleProc()
	require.Nil(t, err)
	done <- true

	util := perf.UtilBetween(s0, s1)
	db.DPrintf(db.TEST, "Util (1 spinner): %v", util)
	assert.True(t, util >= 50.0, "Util too low: %v", util)
	assert.Equal(t, 0.0, perf.UtilBetween(s1, s0))
}

func TestParseLabels(t *testing.T) {
	l := perf.ParseLabels("MATMUL_PPROF;;SWEEP_CPU;")
	assert.Equal(t, 2, len(l))
	assert.True(t, l[perf.MATMUL+perf.PPROF])
	assert.True(t, l[perf.SWEEP+perf.CPU])
}

func TestNoLabels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "perf")
	p, err := perf.NewPerfLabels(perf.MATMUL, nil, dir, 50)
	require.Nil(t, err)
	p.TptTick(10)
	assert.Equal(t, 0.0, p.SumTicks())
	p.Done()
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "no output dir without labels")
}

func TestOutputFiles(t *testing.T) {
	dir := t.TempDir()
	lbls := perf.ParseLabels("MATMUL_PPROF_MEM;MATMUL_CPU;MATMUL_TPT")
	p, err := perf.NewPerfLabels(perf.MATMUL, lbls, dir, 50)
	require.Nil(t, err)
	p.TptTick(3)
	p.TptTick(4)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 7.0, p.SumTicks())
	p.Done()
	// Idempotent
	p.Done()

	for _, suffix := range []string{"-pprof-mem.out", "-cpu.out", "-tpt.out"} {
		m, err := filepath.Glob(filepath.Join(dir, "matmul-*"+suffix))
		assert.Nil(t, err)
		assert.Equal(t, 1, len(m), "suffix %v", suffix)
	}
}
