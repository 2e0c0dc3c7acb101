package mm

import (
	"fmt"
)

type Tpartition int

const (
	// Worker w owns rows [w*N/T, (w+1)*N/T).
	CONTIGUOUS Tpartition = iota
	// Worker w owns rows w, w+T, w+2T, ...
	STRIDED
)

func (p Tpartition) String() string {
	switch p {
	case CONTIGUOUS:
		return "contiguous"
	case STRIDED:
		return "strided"
	default:
		return fmt.Sprintf("Tpartition(%d)", int(p))
	}
}

func ParsePartition(s string) (Tpartition, error) {
	switch s {
	case "contiguous":
		return CONTIGUOUS, nil
	case "strided":
		return STRIDED, nil
	default:
		return CONTIGUOUS, fmt.Errorf("unknown partition %q", s)
	}
}

// Trows is the set of whole rows owned by one worker: lo, lo+stride, ...
// up to but excluding hi.
type Trows struct {
	lo     int
	hi     int
	stride int
}

func (r Trows) Len() int {
	if r.lo >= r.hi {
		return 0
	}
	return (r.hi - r.lo + r.stride - 1) / r.stride
}

func (r Trows) String() string {
	return fmt.Sprintf("[%d:%d:%d]", r.lo, r.hi, r.stride)
}

// Rows returns the rows of an n-row matrix owned by worker w of nw. The
// row sets of the nw workers are disjoint and together cover [0, n).
func (p Tpartition) Rows(w, nw, n int) Trows {
	switch p {
	case STRIDED:
		return Trows{lo: w, hi: n, stride: nw}
	default:
		return Trows{lo: w * n / nw, hi: (w + 1) * n / nw, stride: 1}
	}
}

// RowList expands r into its row indices.
func RowList(r Trows) []int {
	l := make([]int, 0, r.Len())
	for i := r.lo; i < r.hi; i += r.stride {
		l = append(l, i)
	}
	return l
}
