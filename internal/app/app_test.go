package app

import (
	"math"
	"testing"

	"compass.klederson.com/internal/config"
	"compass.klederson.com/internal/heading"
	"compass.klederson.com/internal/sensor"
	tea "github.com/charmbracelet/bubbletea"
)

// sampleVectors returns the gravity and magnetic field a flat device at the
// given heading would measure.
func sampleVectors(deg float64) (gravity, magnetic heading.Vec3) {
	sin, cos := math.Sincos(heading.Radians(deg))
	gravity = heading.Vec3{X: 0, Y: 0, Z: 9.81}
	magnetic = heading.Vec3{X: -24 * sin, Y: 24 * cos, Z: -41.6}
	return
}

func feed(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	nm, _ := m.Update(msg)
	return nm.(Model)
}

func feedPair(t *testing.T, m Model, deg float64) Model {
	t.Helper()
	gravity, magnetic := sampleVectors(deg)
	m = feed(t, m, sensor.VectorSampleMsg{Kind: sensor.VectorGravity, V: gravity})
	return feed(t, m, sensor.VectorSampleMsg{Kind: sensor.VectorMagnetic, V: magnetic})
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_VectorPairProducesDisplay(t *testing.T) {
	m := New(true, "iio", "", config.VariantDualVector, 0.15, 0.5)

	m = feedPair(t, m, 70)
	if !m.haveDisplay {
		t.Fatal("no display after a complete vector pair")
	}
	if math.Abs(heading.Delta(m.display.Heading, 70)) > 1e-6 {
		t.Errorf("Heading=%v want 70", m.display.Heading)
	}
	if math.Abs(m.display.Rotation+70) > 1e-6 {
		t.Errorf("Rotation=%v want -70", m.display.Rotation)
	}
	if m.emits != 1 || m.samples != 1 {
		t.Errorf("emits=%d samples=%d want 1, 1", m.emits, m.samples)
	}
}

func TestModel_HalfPairProducesNothing(t *testing.T) {
	m := New(true, "iio", "", config.VariantDualVector, 0.15, 0.5)

	gravity, _ := sampleVectors(70)
	m = feed(t, m, sensor.VectorSampleMsg{Kind: sensor.VectorGravity, V: gravity})
	if m.haveDisplay || m.samples != 0 || m.rejected != 0 {
		t.Fatalf("half a pair mutated state: %+v", m)
	}
}

func TestModel_DegeneratePairRejected(t *testing.T) {
	m := New(true, "iio", "", config.VariantDualVector, 0.15, 0.5)

	m = feed(t, m, sensor.VectorSampleMsg{Kind: sensor.VectorGravity, V: heading.Vec3{Z: 9.81}})
	m = feed(t, m, sensor.VectorSampleMsg{Kind: sensor.VectorMagnetic, V: heading.Vec3{Z: -48}})
	if m.haveDisplay {
		t.Fatal("degenerate pair produced a display update")
	}
	if m.rejected != 1 {
		t.Errorf("rejected=%d want 1", m.rejected)
	}
}

func TestModel_MatrixVariantIgnoresVectors(t *testing.T) {
	m := New(true, "ble", "", config.VariantMatrix, 0.15, 0.5)

	m = feedPair(t, m, 120)
	if m.haveDisplay || m.samples != 0 {
		t.Fatal("matrix session consumed vector samples")
	}
}

func TestModel_MatrixSample(t *testing.T) {
	m := New(true, "ble", "", config.VariantMatrix, 1.0, 0.5)

	sin, cos := math.Sincos(heading.Radians(200))
	msg := sensor.MatrixSampleMsg{M: heading.RotationMatrix{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	}}
	m = feed(t, m, msg)
	if !m.haveDisplay {
		t.Fatal("no display after matrix sample")
	}
	if math.Abs(heading.Delta(m.display.Heading, 200)) > 1e-6 {
		t.Errorf("Heading=%v want 200", m.display.Heading)
	}
}

func TestModel_PauseAndResumeResetsSession(t *testing.T) {
	m := New(true, "iio", "", config.VariantDualVector, 0.15, 0.5)

	m = feedPair(t, m, 350)
	m = feed(t, m, key("p"))

	// Paused: samples are dropped entirely.
	m = feedPair(t, m, 10)
	if m.samples != 1 {
		t.Fatalf("paused session consumed a sample: samples=%d", m.samples)
	}

	// Resume starts a fresh session: the next pair seeds from scratch, with
	// no shortest-path delta against the pre-pause heading.
	m = feed(t, m, key("s"))
	if m.haveDisplay {
		t.Fatal("resume kept the previous session's display")
	}
	m = feedPair(t, m, 90)
	if !m.haveDisplay {
		t.Fatal("no display after resume")
	}
	if math.Abs(m.display.Rotation+90) > 1e-6 {
		t.Errorf("Rotation=%v want -90 (fresh seed)", m.display.Rotation)
	}
	if m.emits != 1 {
		t.Errorf("emits=%d want 1 after session reset", m.emits)
	}
}

func TestModel_RecalibrateClearsHistory(t *testing.T) {
	m := New(true, "iio", "", config.VariantDualVector, 0.15, 0.5)

	m = feedPair(t, m, 45)
	if m.shared.history.Len() != 1 {
		t.Fatalf("history=%d want 1", m.shared.history.Len())
	}
	m = feed(t, m, key("r"))
	if m.shared.history.Len() != 0 || m.haveDisplay || m.samples != 0 {
		t.Fatal("recalibrate left session state behind")
	}
}

func TestModel_TickEasesNeedle(t *testing.T) {
	m := New(true, "iio", "", config.VariantDualVector, 1.0, 0.5)

	m = feedPair(t, m, 40)
	// First emission snaps the needle.
	if m.needle != m.display.Rotation {
		t.Fatalf("needle=%v want snap to %v", m.needle, m.display.Rotation)
	}

	m = feedPair(t, m, 60)
	before := math.Abs(m.display.Rotation - m.needle)
	m = feed(t, m, TickMsg{})
	after := math.Abs(m.display.Rotation - m.needle)
	if after >= before {
		t.Errorf("tick did not move needle toward target: %v -> %v", before, after)
	}
}

func TestModel_SourceErrorShown(t *testing.T) {
	m := New(true, "iio", "", config.VariantDualVector, 0.15, 0.5)

	m = feed(t, m, sensor.SourceErrorMsg{Err: errTest})
	if m.lastErr != errTest {
		t.Errorf("lastErr=%v want %v", m.lastErr, errTest)
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "sensor glitch" }
