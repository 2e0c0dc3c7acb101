package benchmarks

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"

	db "mmbench/debug"
)

type Results struct {
	dur  []time.Duration // Duration.
	amt  []float64       // Amount (e.g. multiply-accumulate steps).
	unit string
	lat  []float64 // To avoid converting to float slices many times for the stats library.
	tpt  []float64 // To avoid converting to float slices many times for the stats library.
}

func NewResults(n int, unit string) *Results {
	r := &Results{}
	r.dur = make([]time.Duration, 0, n)
	r.amt = make([]float64, 0, n)
	r.unit = unit
	r.lat = nil
	r.tpt = nil
	return r
}

func (r *Results) Len() int {
	return len(r.dur)
}

// Add a data point, and return its index.
func (r *Results) Append(d time.Duration, amt float64) int {
	i := len(r.dur)
	r.dur = append(r.dur, d)
	r.amt = append(r.amt, amt)
	// Kill cache
	r.lat = nil
	r.tpt = nil
	return i
}

func (r *Results) Mean() (time.Duration, float64) {
	lat, tpt := r.toFloats()

	l, err := stats.Mean(lat)
	if err != nil {
		db.DFatalf("Error Mean in Results.Mean: %v", err)
	}
	t, err := stats.Mean(tpt)
	if err != nil {
		db.DFatalf("Error Mean in Results.Mean: %v", err)
	}
	return time.Duration(int64(l)), t
}

func (r *Results) StdDev() (time.Duration, float64) {
	lat, tpt := r.toFloats()

	l, err := stats.StandardDeviation(lat)
	if err != nil {
		db.DFatalf("Error StandardDeviation in Results.StdDev: %v", err)
	}
	t, err := stats.StandardDeviation(tpt)
	if err != nil {
		db.DFatalf("Error StandardDeviation in Results.StdDev: %v", err)
	}
	return time.Duration(int64(l)), t
}

// Calculate percentile. Note, this calculates the percentile separately for
// tpt & latency, and thus the results for each may correspond to different
// points. (i.e., the lowest-latency datapoint may not be the lowest-throughput
// datapoint).
func (r *Results) Percentile(p float64) (time.Duration, float64) {
	if p < 0.0 || p > 100.0 {
		db.DFatalf("Bad percentile, not in [0, 100.0]: %v", p)
	}

	lat, tpt := r.toFloats()

	l, err := stats.Percentile(lat, p)
	if err != nil {
		db.DFatalf("Error calculating percentile %v: %v", p, err)
	}
	t, err := stats.Percentile(tpt, p)
	if err != nil {
		db.DFatalf("Error calculating percentile %v: %v", p, err)
	}
	return time.Duration(int64(l)), t
}

// Fastest is the shortest duration recorded.
func (r *Results) Fastest() time.Duration {
	lat, _ := r.toFloats()
	l, err := stats.Min(lat)
	if err != nil {
		db.DFatalf("Error Min in Results.Fastest: %v", err)
	}
	return time.Duration(int64(l))
}

// MaxAmt is the largest amount recorded.
func (r *Results) MaxAmt() float64 {
	m, err := stats.Max(r.amt)
	if err != nil {
		db.DFatalf("Error Max in Results.MaxAmt: %v", err)
	}
	return m
}

// Convert time.Duration to float for stats library, and calculate tpt. Cache
// the results of conversion.
func (r *Results) toFloats() ([]float64, []float64) {
	// If already calculated & cached, return cached conversion.
	if r.lat != nil && r.tpt != nil {
		return r.lat, r.tpt
	}

	lat := make([]float64, len(r.dur))
	tpt := make([]float64, len(r.amt))

	for i := range r.dur {
		lat[i] = float64(r.dur[i])
		if r.dur[i] > 0 {
			tpt[i] = r.amt[i] / r.dur[i].Seconds()
		}
	}

	// Cache conversion.
	r.lat = lat
	r.tpt = tpt

	return lat, tpt
}

// Print summary of results.
func (r *Results) Summary() (string, string) {
	meanL, meanT := r.Mean()
	stdL, stdT := r.StdDev()
	medianL, medianT := r.Percentile(50)
	p75L, p75T := r.Percentile(75)
	p90L, p90T := r.Percentile(90)
	p99L, p99T := r.Percentile(99)
	p100L, p100T := r.Percentile(100)
	fstring := "Stats:\n Mean: %v\n Std: %v\n 50: %v\n 75: %v\n 90: %v\n 99: %v\n 100: %v"
	lsum := fmt.Sprintf("\n= Latency "+fstring,
		meanL, stdL, medianL, p75L, p90L, p99L, p100L)
	rate := func(t float64) string {
		return humanize.SIWithDigits(t, 2, r.unit+"/sec")
	}
	tsum := fmt.Sprintf("\n= Throughput "+fstring,
		rate(meanT), rate(stdT), rate(medianT), rate(p75T), rate(p90T), rate(p99T), rate(p100T))
	return lsum, tsum
}

func (r *Results) String() string {
	if len(r.dur) == 0 {
		db.DFatalf("Error no results")
	}
	_, tpt := r.toFloats()
	s := ""
	for i := 0; i < len(r.dur); i++ {
		s += fmt.Sprintf("&{ Lat %v Amt %s Tpt %s }\n", r.dur[i], humanize.Comma(int64(r.amt[i])),
			humanize.SIWithDigits(tpt[i], 2, r.unit+"/sec"))
	}
	return s
}
