package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmbench/benchmarks"
	"mmbench/param"
	"mmbench/util/perf"
)

func TestRunModes(t *testing.T) {
	cfg := param.Default()
	cfg.Size = 8
	cfg.Threads = 2
	cfg.Budget = time.Millisecond
	sc := &benchmarks.SweepConfig{Trials: 1, MinPow: 2, MaxPow: 2, MaxThreads: 2, FixedBudget: time.Millisecond, InitialDim: 8}
	nolbls := map[perf.Tselector]bool{}

	var out bytes.Buffer
	require.Nil(t, run("threads", cfg, sc, nolbls, t.TempDir(), &out))
	assert.True(t, strings.HasPrefix(out.String(), "Matrix multiplication of size 4\n"), out.String())

	out.Reset()
	require.Nil(t, run("trials", cfg, sc, nolbls, t.TempDir(), &out))
	assert.True(t, strings.HasPrefix(out.String(), "Matrix multiplication of size 8 using 2 threads\n"), out.String())

	out.Reset()
	require.Nil(t, run("gustafson", cfg, sc, nolbls, t.TempDir(), &out))
	assert.True(t, strings.Contains(out.String(), "CSV:"), out.String())

	assert.NotNil(t, run("bogus", cfg, sc, nolbls, t.TempDir(), &out))
}
