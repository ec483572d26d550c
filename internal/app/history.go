package app

// HeadingRing is a circular buffer of recently emitted headings, feeding the
// trend strip in the readout panel.
type HeadingRing struct {
	buf   []float64
	pos   int
	count int
}

// NewHeadingRing creates a new circular buffer with the given capacity.
func NewHeadingRing(capacity int) *HeadingRing {
	return &HeadingRing{
		buf: make([]float64, capacity),
	}
}

// Push adds a heading to the ring buffer.
func (r *HeadingRing) Push(deg float64) {
	r.buf[r.pos] = deg
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored headings in chronological order.
func (r *HeadingRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		start := r.pos
		n := copy(result, r.buf[start:])
		copy(result[n:], r.buf[:start])
	}
	return result
}

// Last returns the most recent heading, or 0 if empty.
func (r *HeadingRing) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := (r.pos - 1 + len(r.buf)) % len(r.buf)
	return r.buf[idx]
}

// Len returns the number of stored headings.
func (r *HeadingRing) Len() int {
	return r.count
}

// Clear empties the ring. Called when a sensing session restarts.
func (r *HeadingRing) Clear() {
	r.pos = 0
	r.count = 0
}
