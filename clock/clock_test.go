package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mmbench/clock"
)

func TestMonotonic(t *testing.T) {
	c := clock.NewMonotonic()
	t0 := c.Now()
	time.Sleep(10 * time.Millisecond)
	t1 := c.Now()
	assert.True(t, t1 > t0, "t0 %v t1 %v", t0, t1)
	assert.True(t, t1-t0 >= int64(10*time.Millisecond), "delta %v", t1-t0)
}

func TestManual(t *testing.T) {
	c := clock.NewManual(time.Millisecond)
	assert.Equal(t, int64(0), c.Now())
	assert.Equal(t, int64(time.Millisecond), c.Now())
	assert.Equal(t, int64(2), c.Reads())
	c.Advance(time.Second)
	assert.Equal(t, int64(time.Second+2*time.Millisecond), c.Now())
	assert.Equal(t, 1.0, clock.Seconds(int64(time.Second)))
}
