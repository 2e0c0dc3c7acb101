package mm

import (
	"fmt"
	"time"

	"mmbench/stats"
)

type Result struct {
	// Multiply-accumulate steps completed by all workers.
	Steps int64
	// N³, the steps of the full product.
	Max       int64
	PerWorker []int64
	Elapsed   time.Duration
	Nthread   int
	Complete  bool

	total     stats.Tcounter
	maxWorker stats.Tcounter
}

func newResult(n, nthread int) *Result {
	nn := int64(n)
	return &Result{
		Max:       nn * nn * nn,
		PerWorker: make([]int64, nthread),
		Nthread:   nthread,
	}
}

// Imbalance is the busiest worker's steps over the mean; 1.0 is a perfect
// split.
func (r *Result) Imbalance() float64 {
	if r.Steps == 0 {
		return 1.0
	}
	mean := float64(r.Steps) / float64(r.Nthread)
	return float64(stats.Read(&r.maxWorker)) / mean
}

// Rate is steps per second of elapsed time.
func (r *Result) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Steps) / r.Elapsed.Seconds()
}

func (r *Result) String() string {
	return fmt.Sprintf("&{ Steps:%v Max:%v Elapsed:%v Nthread:%v Complete:%v PerWorker:%v }",
		r.Steps, r.Max, r.Elapsed, r.Nthread, r.Complete, r.PerWorker)
}
