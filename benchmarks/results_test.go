package benchmarks_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mmbench/benchmarks"
)

func TestResults(t *testing.T) {
	rs := benchmarks.NewResults(4, "steps")
	for i, d := range []time.Duration{4 * time.Second, time.Second, 2 * time.Second, 3 * time.Second} {
		assert.Equal(t, i, rs.Append(d, 1000*float64(i+1)))
	}
	assert.Equal(t, 4, rs.Len())
	lat, tpt := rs.Mean()
	assert.Equal(t, 2500*time.Millisecond, lat)
	// 250, 2000, 1500, 1333.33 steps/sec
	assert.InDelta(t, (250.0+2000.0+1500.0+4000.0/3.0)/4.0, tpt, 1e-6)
	assert.Equal(t, time.Second, rs.Fastest())
	assert.Equal(t, 4000.0, rs.MaxAmt())
	p100, t100 := rs.Percentile(100)
	assert.Equal(t, 4*time.Second, p100)
	assert.InDelta(t, 2000.0, t100, 1e-6)
	p50, _ := rs.Percentile(50)
	assert.Equal(t, 2*time.Second, p50)

	lsum, tsum := rs.Summary()
	assert.True(t, strings.Contains(lsum, "Latency"), lsum)
	assert.True(t, strings.Contains(tsum, "steps/sec"), tsum)
	assert.Equal(t, 4, strings.Count(rs.String(), "\n"))
}

func TestResultsZeroDuration(t *testing.T) {
	rs := benchmarks.NewResults(1, "steps")
	rs.Append(0, 0)
	_, tpt := rs.Mean()
	assert.Equal(t, 0.0, tpt)
	assert.Equal(t, time.Duration(0), rs.Fastest())
}
