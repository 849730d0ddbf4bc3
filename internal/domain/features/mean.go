package features

import "math"

// mean accumulates finite samples; non-finite samples are treated as missing.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	m.sum += x
	m.n++
}

func (m *mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	v := m.sum / float64(m.n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
