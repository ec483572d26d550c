package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"compass.klederson.com/internal/config"
	"compass.klederson.com/internal/heading"
	tea "github.com/charmbracelet/bubbletea"
)

// MockSource generates a wandering heading for demo mode: a slow drift with
// sinusoidal wobble and per-sample jitter, emitting whichever sample kind the
// configured variant consumes.
type MockSource struct {
	variant config.Variant
	program *tea.Program

	base    float64 // slowly drifting true heading
	drift   float64 // degrees per tick
	phase   float64
	running bool
	cancel  context.CancelFunc
}

// NewMockSource creates a demo source emitting samples for the given variant.
func NewMockSource(variant config.Variant) *MockSource {
	return &MockSource{
		variant: variant,
		base:    rand.Float64() * 360,
		drift:   (rand.Float64() - 0.5) * 0.8,
		phase:   rand.Float64() * 2 * math.Pi,
	}
}

// Start begins emitting fake samples.
func (s *MockSource) Start(p *tea.Program) error {
	s.program = p
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx)
	return nil
}

// Stop halts the mock source.
func (s *MockSource) Stop() {
	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *MockSource) loop(ctx context.Context) {
	ticker := time.NewTicker(config.SampleInterval)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.running {
				return
			}
			t += config.SampleInterval.Seconds()
			s.emit(t)
		}
	}
}

func (s *MockSource) emit(t float64) {
	// Occasionally reverse the drift so the needle changes direction.
	if rand.Float64() < 0.004 {
		s.drift = -s.drift
	}
	s.base = heading.Normalize(s.base + s.drift)

	deg := heading.Normalize(s.base + 6*math.Sin(t*0.4+s.phase) + (rand.Float64()-0.5)*2)

	if s.variant == config.VariantMatrix {
		s.program.Send(MatrixSampleMsg{M: yawMatrix(deg)})
		return
	}

	// Dual-vector mode: gravity and magnetic field a flat device at this
	// heading would measure, sent as independent samples like real drivers
	// deliver them.
	const g, horiz, vert = 9.81, 24.0, 41.6
	sin, cos := math.Sincos(heading.Radians(deg))
	noise := func() float64 { return (rand.Float64() - 0.5) * 0.2 }

	s.program.Send(VectorSampleMsg{
		Kind: VectorGravity,
		V:    heading.Vec3{X: noise(), Y: noise(), Z: g + noise()},
	})
	s.program.Send(VectorSampleMsg{
		Kind: VectorMagnetic,
		V:    heading.Vec3{X: -horiz*sin + noise(), Y: horiz*cos + noise(), Z: -vert + noise()},
	})
}

// yawMatrix is the rotation matrix of a flat device at the given heading.
func yawMatrix(deg float64) heading.RotationMatrix {
	sin, cos := math.Sincos(heading.Radians(deg))
	return heading.RotationMatrix{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	}
}
