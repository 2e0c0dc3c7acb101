package matrix

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Matrix is a square N×N float32 matrix. All elements share one backing
// slice and rows are consecutive sub-slices of it, so the elements of a
// row are contiguous and no two rows alias.
type Matrix struct {
	n    int
	data []float32
	rows [][]float32
}

func NewMatrix(n int) (*Matrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("NewMatrix: bad dimension %d", n)
	}
	if n > 0 && n > math.MaxInt/n {
		return nil, fmt.Errorf("NewMatrix: dimension %d overflows", n)
	}
	m := &Matrix{
		n:    n,
		data: make([]float32, n*n),
		rows: make([][]float32, n),
	}
	for i := 0; i < n; i++ {
		m.rows[i] = m.data[i*n : (i+1)*n : (i+1)*n]
	}
	return m, nil
}

// Footprint is the size in bytes of an N×N matrix's elements.
func Footprint(n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("Footprint: bad dimension %d", n)
	}
	if n > 0 && uint64(n) > math.MaxUint64/4/uint64(n) {
		return 0, fmt.Errorf("Footprint: dimension %d overflows", n)
	}
	return uint64(n) * uint64(n) * 4, nil
}

func NewMatrixFromRows(rows [][]float32) (*Matrix, error) {
	m, err := NewMatrix(len(rows))
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != m.n {
			return nil, fmt.Errorf("NewMatrixFromRows: row %d has %d elements, want %d", i, len(r), m.n)
		}
		copy(m.rows[i], r)
	}
	return m, nil
}

func (m *Matrix) N() int {
	return m.n
}

func (m *Matrix) Row(i int) []float32 {
	return m.rows[i]
}

func (m *Matrix) Rows() [][]float32 {
	return m.rows
}

func (m *Matrix) At(i, j int) float32 {
	return m.rows[i][j]
}

func (m *Matrix) Set(i, j int, v float32) {
	m.rows[i][j] = v
}

// Bytes is the size of the element storage.
func (m *Matrix) Bytes() uint64 {
	return uint64(len(m.data)) * 4
}

func (m *Matrix) Fill(v float32) {
	for i := range m.data {
		m.data[i] = v
	}
}

func (m *Matrix) FillZero() {
	m.Fill(0.0)
}

// FillRandom sets every element to an integer-valued float drawn
// uniformly from [low, high].
func (m *Matrix) FillRandom(src rand.Source, low, high int) {
	u := distuv.Uniform{Min: float64(low), Max: float64(high + 1), Src: src}
	for i := range m.data {
		v := math.Floor(u.Rand())
		// Rand may return Max itself
		if v > float64(high) {
			v = float64(high)
		}
		m.data[i] = float32(v)
	}
}

func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

func (m *Matrix) Copy() *Matrix {
	c, _ := NewMatrix(m.n)
	copy(c.data, m.data)
	return c
}

func (m *Matrix) Equal(o *Matrix) bool {
	if m.n != o.n {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func (m *Matrix) Print(w io.Writer) error {
	for i := 0; i < m.n; i++ {
		if _, err := fmt.Fprintf(w, "row =%4d: ", i); err != nil {
			return err
		}
		for j := 0; j < m.n; j++ {
			if _, err := fmt.Fprintf(w, "%6.2f  ", m.rows[i][j]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (m *Matrix) String() string {
	return fmt.Sprintf("&{ N:%v }", m.n)
}
