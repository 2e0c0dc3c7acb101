package stats

import (
	"sync/atomic"
)

// Tcounter is safe for concurrent use; the zero value is ready.
type Tcounter = atomic.Int64

func Inc(c *Tcounter, v int64) {
	c.Add(v)
}

func Max(max *Tcounter, v int64) {
	for {
		old := max.Load()
		if v <= old {
			return
		}
		if ok := max.CompareAndSwap(old, v); ok {
			return
		}
		// retry
	}
}

func Read(c *Tcounter) int64 {
	return c.Load()
}
