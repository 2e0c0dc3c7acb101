package matrix

import (
	"gonum.org/v1/gonum/mat"
)

// Dense converts m to a float64 gonum matrix. gonum rejects empty
// matrices, so Dense returns nil for N=0.
func (m *Matrix) Dense() *mat.Dense {
	if m.n == 0 {
		return nil
	}
	s := make([]float64, len(m.data))
	for i, v := range m.data {
		s[i] = float64(v)
	}
	return mat.NewDense(m.n, m.n, s)
}

func FromDense(d *mat.Dense) *Matrix {
	r, _ := d.Dims()
	m, _ := NewMatrix(r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			m.rows[i][j] = float32(d.At(i, j))
		}
	}
	return m
}

// Product computes a×b in float64 with gonum and rounds the result to
// float32. For integer inputs whose sums stay below 2^24 it is exact.
func Product(a, b *Matrix) *Matrix {
	if a.n == 0 {
		m, _ := NewMatrix(0)
		return m
	}
	var c mat.Dense
	c.Mul(a.Dense(), b.Dense())
	return FromDense(&c)
}
