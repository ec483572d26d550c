package heading

import (
	"errors"
	"math"
	"sync"
)

// Extraction errors. All of them mean "no heading for this sample";
// the caller skips the sample and keeps its previous state.
var (
	// ErrAwaitingPair means only one of the gravity/magnetic vectors has
	// arrived in the current accumulation window.
	ErrAwaitingPair = errors.New("heading: awaiting second sensor vector")

	// ErrDegenerateField means the gravity and magnetic vectors are too
	// close to parallel (or too small) to define an orientation.
	ErrDegenerateField = errors.New("heading: degenerate gravity/magnetic pair")

	// ErrBadSample means the sample payload is malformed (non-finite values).
	ErrBadSample = errors.New("heading: malformed orientation sample")
)

// Vec3 is a 3-component sensor vector in device coordinates.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// RotationMatrix is a row-major 3x3 matrix mapping device coordinates to
// world coordinates (x east, y north, z up).
type RotationMatrix [9]float64

// Azimuth returns the rotation about the vertical axis in radians.
func (m RotationMatrix) Azimuth() float64 {
	return math.Atan2(m[1], m[4])
}

// MatrixExtractor derives a heading from fused rotation-matrix samples.
type MatrixExtractor struct{}

// Extract returns the heading in degrees [0, 360) for one matrix sample.
func (MatrixExtractor) Extract(m RotationMatrix) (float64, error) {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrBadSample
		}
	}
	return Normalize(Degrees(m.Azimuth())), nil
}

// VectorExtractor derives a heading from separately-arriving gravity and
// geomagnetic vector samples. It buffers the latest vector of each kind and
// produces a heading only once both are present; the pair is then cleared so
// a stale vector is never combined with a fresh one indefinitely. Safe for
// concurrent offers from multiple sensor goroutines.
type VectorExtractor struct {
	mu           sync.Mutex
	gravity      Vec3
	magnetic     Vec3
	haveGravity  bool
	haveMagnetic bool
}

func NewVectorExtractor() *VectorExtractor {
	return &VectorExtractor{}
}

// OfferGravity buffers a gravity estimate and attempts extraction.
func (e *VectorExtractor) OfferGravity(v Vec3) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gravity = v
	e.haveGravity = true
	return e.extractLocked()
}

// OfferMagnetic buffers a geomagnetic field estimate and attempts extraction.
func (e *VectorExtractor) OfferMagnetic(v Vec3) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.magnetic = v
	e.haveMagnetic = true
	return e.extractLocked()
}

// Reset drops any buffered vectors. Called at session start.
func (e *VectorExtractor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.haveGravity = false
	e.haveMagnetic = false
}

func (e *VectorExtractor) extractLocked() (float64, error) {
	if !e.haveGravity || !e.haveMagnetic {
		return 0, ErrAwaitingPair
	}
	// The attempt consumes the pair whether or not it succeeds; the next
	// heading always comes from two fresh vectors.
	a, m := e.gravity, e.magnetic
	e.haveGravity = false
	e.haveMagnetic = false

	rot, err := RotationFromVectors(a, m)
	if err != nil {
		return 0, err
	}
	return Normalize(Degrees(rot.Azimuth())), nil
}

// Minimum magnitudes below which the orientation is undefined: a device in
// free fall, or a magnetic vector (near-)parallel to gravity.
const (
	minGravityNorm = 0.1 // m/s^2
	minHorizNorm   = 0.1 // uT
)

// RotationFromVectors builds a device-to-world rotation matrix from a gravity
// vector and a geomagnetic field vector, both in device coordinates.
func RotationFromVectors(gravity, geomagnetic Vec3) (RotationMatrix, error) {
	if gravity.norm() < minGravityNorm {
		return RotationMatrix{}, ErrDegenerateField
	}

	h := cross(geomagnetic, gravity)
	normH := h.norm()
	if normH < minHorizNorm {
		return RotationMatrix{}, ErrDegenerateField
	}

	h = h.scale(1 / normH)
	a := gravity.scale(1 / gravity.norm())
	m := cross(a, h)

	return RotationMatrix{
		h.X, h.Y, h.Z,
		m.X, m.Y, m.Z,
		a.X, a.Y, a.Z,
	}, nil
}

// QuaternionMatrix converts a unit quaternion (w, x, y, z) into a rotation
// matrix with the same convention as the fused rotation-vector samples.
func QuaternionMatrix(w, x, y, z float64) RotationMatrix {
	sqX := 2 * x * x
	sqY := 2 * y * y
	sqZ := 2 * z * z
	xy := 2 * x * y
	xz := 2 * x * z
	yz := 2 * y * z
	wx := 2 * w * x
	wy := 2 * w * y
	wz := 2 * w * z

	return RotationMatrix{
		1 - sqY - sqZ, xy - wz, xz + wy,
		xy + wz, 1 - sqX - sqZ, yz - wx,
		xz - wy, yz + wx, 1 - sqX - sqY,
	}
}
