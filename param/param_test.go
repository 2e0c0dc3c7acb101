package param_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmbench/param"
)

func TestCompile(t *testing.T) {
}

func TestDefault(t *testing.T) {
	cfg := param.Default()
	assert.Equal(t, 1024, cfg.Size)
	assert.Equal(t, param.DEFAULT_THREADS, cfg.Threads)
	assert.Equal(t, time.Second, cfg.Budget)
	assert.Equal(t, 1, cfg.PollInterval)
	assert.Equal(t, param.PARTITION_CONTIGUOUS, cfg.Partition)
	assert.Equal(t, 0, cfg.Low)
	assert.Equal(t, 9, cfg.High)
	assert.Equal(t, 50, cfg.Perf.CPU_UTIL_SAMPLE_HZ)
	assert.Nil(t, cfg.Validate())
}

func TestReadConfigFile(t *testing.T) {
	pn := filepath.Join(t.TempDir(), "mm.yaml")
	err := os.WriteFile(pn, []byte("size: 256\nbudget: 250ms\npartition: strided\n"), 0644)
	require.Nil(t, err)

	cfg, err := param.ReadConfigFile(param.Default(), pn)
	require.Nil(t, err)
	assert.Equal(t, 256, cfg.Size)
	assert.Equal(t, 250*time.Millisecond, cfg.Budget)
	assert.Equal(t, param.PARTITION_STRIDED, cfg.Partition)
	// Untouched fields keep their defaults.
	assert.Equal(t, 9, cfg.High)

	_, err = param.ReadConfigFile(param.Default(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := []string{
		"HOME=/root",
		"MMBENCH_CONFIG=/nonexistent",
		"MMBENCH_BUDGET=-1s",
		"MMBENCH_POLL_INTERVAL=64",
		"MMBENCH_PRINT=true",
		"MMBENCH_SEED=7",
	}
	cfg, err := param.ApplyEnv(param.Default(), env)
	require.Nil(t, err)
	assert.Equal(t, -time.Second, cfg.Budget)
	assert.Equal(t, 64, cfg.PollInterval)
	assert.True(t, cfg.Print)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 1024, cfg.Size)

	_, err = param.ApplyEnv(param.Default(), []string{"MMBENCH_BOGUS=1"})
	assert.NotNil(t, err)
	_, err = param.ApplyEnv(param.Default(), []string{"MMBENCH_BUDGET=soon"})
	assert.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	cfg := param.Default()
	cfg.Threads = 0
	assert.NotNil(t, cfg.Validate())
	cfg.Threads = 4
	assert.Nil(t, cfg.Validate())
	cfg.Partition = "diagonal"
	assert.NotNil(t, cfg.Validate())
	cfg.Partition = param.PARTITION_STRIDED
	cfg.PollInterval = 0
	assert.NotNil(t, cfg.Validate())
	cfg.PollInterval = 1
	cfg.Low, cfg.High = 5, 1
	assert.NotNil(t, cfg.Validate())
}
