package sensor

import (
	"errors"

	"compass.klederson.com/internal/heading"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUnavailable is returned from Start when the host lacks the sensors a
// source needs (no IIO magnetometer, no matching BLE peripheral). It is a
// session-start failure; sources never fail mid-stream.
var ErrUnavailable = errors.New("sensor: required capability unavailable")

// VectorKind tags which physical quantity a vector sample carries.
type VectorKind int

const (
	VectorGravity VectorKind = iota
	VectorMagnetic
)

func (k VectorKind) String() string {
	if k == VectorMagnetic {
		return "magnetic"
	}
	return "gravity"
}

// MatrixSampleMsg is sent via tea.Program.Send for each fused
// rotation-matrix orientation sample.
type MatrixSampleMsg struct {
	M heading.RotationMatrix
}

// VectorSampleMsg is sent via tea.Program.Send for each gravity or magnetic
// field sample. The two kinds arrive independently.
type VectorSampleMsg struct {
	Kind VectorKind
	V    heading.Vec3
}

// SourceErrorMsg reports a sample-delivery error. The stream keeps going.
type SourceErrorMsg struct {
	Err error
}

// Source is a stream of orientation samples pushed into the program.
type Source interface {
	// Start begins sample delivery in a goroutine. Must be called before
	// p.Run(). An error means the source cannot provide samples at all.
	Start(p *tea.Program) error

	// Stop halts sample delivery.
	Stop()
}
