package quality

import "gonum.org/v1/gonum/floats"

// ring is a fixed-capacity buffer of frame times in seconds.
type ring struct {
	data []float64
	pos  int
	full bool
}

func newRing(n int) *ring {
	return &ring{data: make([]float64, max(1, n))}
}

func (r *ring) push(v float64) {
	r.data[r.pos] = v
	r.pos++
	if r.pos >= len(r.data) {
		r.pos = 0
		r.full = true
	}
}

func (r *ring) len() int {
	if r.full {
		return len(r.data)
	}
	return r.pos
}

// mean of the stored values. Order is irrelevant, so the backing array is
// summed in place.
func (r *ring) mean() float64 {
	n := r.len()
	if n == 0 {
		return 0
	}
	return floats.Sum(r.data[:n]) / float64(n)
}

func (r *ring) reset() {
	r.pos = 0
	r.full = false
}
