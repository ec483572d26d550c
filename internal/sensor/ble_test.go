package sensor

import (
	"encoding/binary"
	"math"
	"testing"

	"compass.klederson.com/internal/heading"
)

func quatPayload(w, x, y, z float64) []byte {
	const q30 = 1 << 30
	buf := make([]byte, 16)
	for i, v := range []float64{w, x, y, z} {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(int32(v*q30)))
	}
	return buf
}

func TestParseQuaternion_YawHeading(t *testing.T) {
	var ex heading.MatrixExtractor
	for _, deg := range []float64{0, 45, 133, 290} {
		// Device at heading deg = rotation of -deg about the vertical axis.
		half := heading.Radians(-deg) / 2
		m, err := parseQuaternion(quatPayload(math.Cos(half), 0, 0, math.Sin(half)))
		if err != nil {
			t.Fatalf("parse %v: %v", deg, err)
		}
		got, err := ex.Extract(m)
		if err != nil {
			t.Fatalf("extract %v: %v", deg, err)
		}
		// 2Q30 quantization leaves well under a hundredth of a degree.
		if math.Abs(heading.Delta(got, deg)) > 0.01 {
			t.Errorf("heading=%v want %v", got, deg)
		}
	}
}

func TestParseQuaternion_ShortPayload(t *testing.T) {
	if _, err := parseQuaternion(make([]byte, 8)); err == nil {
		t.Fatal("8-byte payload accepted")
	}
}

func TestParseQuaternion_NegativeComponents(t *testing.T) {
	buf := quatPayload(-0.5, 0.25, -0.25, 0.75)
	m, err := parseQuaternion(buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("matrix has non-finite entries: %v", m)
		}
	}
}
