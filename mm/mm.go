package mm

import (
	"fmt"
	"sync"
	"time"

	"mmbench/clock"
	db "mmbench/debug"
	"mmbench/matrix"
	"mmbench/stats"
)

// UNLIMITED disables the deadline.
const UNLIMITED time.Duration = -1

type Config struct {
	Nthread   int
	Budget    time.Duration
	Poll      int
	Partition Tpartition
}

func (cfg Config) String() string {
	return fmt.Sprintf("&{ Nthread:%v Budget:%v Poll:%v Partition:%v }", cfg.Nthread, cfg.Budget, cfg.Poll, cfg.Partition)
}

// The start time and budget shared read-only by all workers.
type deadline struct {
	clk    clock.Clock
	start  int64
	budget int64
}

func (d *deadline) expired() bool {
	if d.budget < 0 {
		return false
	}
	return d.clk.Now()-d.start >= d.budget
}

// Mult adds a×b into c using cfg.Nthread workers, each of which owns
// whole rows of c. Before an innermost step a worker reads clk (every
// cfg.Poll steps) and stops all its loops once cfg.Budget has elapsed
// since the start of the phase. Cells a worker did not finish hold a sum
// over a prefix of k. Running out of time is not an error.
func Mult(clk clock.Clock, cfg Config, a, b, c *matrix.Matrix) (*Result, error) {
	if a == nil || b == nil || c == nil {
		return nil, fmt.Errorf("Mult: nil matrix")
	}
	n := a.N()
	if b.N() != n || c.N() != n {
		return nil, fmt.Errorf("Mult: dimension mismatch %d %d %d", a.N(), b.N(), c.N())
	}
	if cfg.Nthread < 1 {
		return nil, fmt.Errorf("Mult: bad thread count %d", cfg.Nthread)
	}
	poll := int64(cfg.Poll)
	if poll < 1 {
		poll = 1
	}

	d := &deadline{clk: clk, start: clk.Now(), budget: int64(cfg.Budget)}
	res := newResult(n, cfg.Nthread)

	db.DPrintf(db.MATMUL, "Mult n %d cfg %v", n, cfg)

	if n == 0 {
		res.Elapsed = time.Duration(clk.Now() - d.start)
		res.Complete = true
		return res, nil
	}

	var wg sync.WaitGroup
	wg.Add(cfg.Nthread)
	for w := 0; w < cfg.Nthread; w++ {
		go func(w int) {
			defer wg.Done()
			rows := cfg.Partition.Rows(w, cfg.Nthread, n)
			cnt := multRows(d, poll, rows, a, b, c)
			stats.Inc(&res.total, cnt)
			stats.Max(&res.maxWorker, cnt)
			res.PerWorker[w] = cnt
			db.DPrintf(db.MATMUL_WORKER, "worker %d rows %v steps %d", w, rows, cnt)
		}(w)
	}
	wg.Wait()

	res.Elapsed = time.Duration(clk.Now() - d.start)
	res.Steps = stats.Read(&res.total)
	res.Complete = res.Steps == res.Max
	db.DPrintf(db.MATMUL, "Mult done %v", res)
	return res, nil
}

// multRows runs one worker's loop nest and returns its private step
// count.
func multRows(d *deadline, poll int64, rows Trows, a, b, c *matrix.Matrix) int64 {
	n := a.N()
	bm := b.Rows()
	cnt := int64(0)
	left := int64(0)
	for i := rows.lo; i < rows.hi; i += rows.stride {
		ai := a.Row(i)
		ci := c.Row(i)
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				if left == 0 {
					if d.expired() {
						return cnt
					}
					left = poll
				}
				left--
				ci[j] += ai[k] * bm[k][j]
				cnt++
			}
		}
	}
	return cnt
}
