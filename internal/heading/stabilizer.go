package heading

// DisplayUpdate is one visible change to push at the renderer.
type DisplayUpdate struct {
	Heading  float64 // smoothed heading, degrees [0, 360)
	Rotation float64 // continuous rotation target, degrees, unbounded
}

// Stabilizer turns a stream of raw headings into smoothed display headings
// and a continuous rotation target for needle animation.
//
// The rotation target accumulates signed shortest-path deltas instead of
// being recomputed from the heading, so it never jumps the long way around
// when the heading wraps past 0/360. Its magnitude grows without bound over
// a session; an animator interpolates through it directly.
//
// Updates must be serialized; the Bubble Tea update loop provides that.
type Stabilizer struct {
	alpha     float64 // smoothing coefficient, (0, 1]
	threshold float64 // minimum visible change in degrees

	initialized bool
	smoothed    float64

	lastEmitted    float64
	hasLastEmitted bool

	// rotationRef tracks the heading at which rotation was last accumulated.
	// It equals lastEmitted in normal operation; if it is ever unset while
	// lastEmitted is set, Update self-heals instead of using a stale delta.
	rotationRef    float64
	hasRotationRef bool
	rotation       float64
}

// NewStabilizer creates a stabilizer with the given smoothing coefficient
// (lower = steadier, higher = more responsive) and emission threshold in
// degrees.
func NewStabilizer(alpha, threshold float64) *Stabilizer {
	return &Stabilizer{alpha: alpha, threshold: threshold}
}

// Reset clears all filter state. Must be called whenever a sensing session
// (re)starts; a partial reset would compute deltas against the prior session.
func (s *Stabilizer) Reset() {
	s.initialized = false
	s.smoothed = 0
	s.lastEmitted = 0
	s.hasLastEmitted = false
	s.rotationRef = 0
	s.hasRotationRef = false
	s.rotation = 0
}

// Update folds one raw heading (degrees, [0, 360)) into the filter. It
// returns a DisplayUpdate and true when the change is large enough to show;
// sub-threshold samples still move the filter but emit nothing.
func (s *Stabilizer) Update(raw float64) (DisplayUpdate, bool) {
	if !s.initialized {
		s.smoothed = Normalize(raw)
		s.initialized = true
		return s.emit(), true
	}

	diff := Delta(raw, s.smoothed)
	s.smoothed = Normalize(s.smoothed + s.alpha*diff)

	if !s.hasLastEmitted {
		return s.emit(), true
	}

	if abs(Delta(s.smoothed, s.lastEmitted)) < s.threshold {
		return DisplayUpdate{}, false
	}

	if !s.hasRotationRef {
		// Inconsistent bookkeeping; re-seed rather than propagate a stale
		// delta and treat this as a fresh emission.
		return s.emit(), true
	}

	s.rotation -= Delta(s.smoothed, s.rotationRef)
	s.rotationRef = s.smoothed
	s.lastEmitted = s.smoothed
	return DisplayUpdate{Heading: s.smoothed, Rotation: s.rotation}, true
}

// Heading returns the current smoothed heading and whether the filter has
// been seeded by at least one sample.
func (s *Stabilizer) Heading() (float64, bool) {
	return s.smoothed, s.initialized
}

// emit seeds the emission state from the current smoothed heading. The
// rotation target starts at the negative heading: the needle rotates
// opposite to the device so it keeps pointing at magnetic north.
func (s *Stabilizer) emit() DisplayUpdate {
	s.lastEmitted = s.smoothed
	s.hasLastEmitted = true
	s.rotationRef = s.smoothed
	s.hasRotationRef = true
	s.rotation = -s.smoothed
	return DisplayUpdate{Heading: s.smoothed, Rotation: s.rotation}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
