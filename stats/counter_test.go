package stats_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"mmbench/stats"
)

func TestCompile(t *testing.T) {
}

func TestIncConcurrent(t *testing.T) {
	const (
		N     = 64
		NITER = 1000
	)
	var c stats.Tcounter
	var wg sync.WaitGroup
	wg.Add(N)
	for i := 0; i < N; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < NITER; j++ {
				stats.Inc(&c, 2)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(2*N*NITER), stats.Read(&c))
}

func TestMax(t *testing.T) {
	var m stats.Tcounter
	var wg sync.WaitGroup
	for i := int64(1); i <= 100; i++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			stats.Max(&m, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int64(100), stats.Read(&m))
	stats.Max(&m, 3)
	assert.Equal(t, int64(100), stats.Read(&m))
}
