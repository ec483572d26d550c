package heading

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalize_Range(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{361, 1},
		{720.25, 0.25},
		{-1, 359},
		{-360, 0},
		{-725, 355},
	}
	for _, c := range cases {
		if got := Normalize(c.in); math.Abs(got-c.want) > eps {
			t.Errorf("Normalize(%v)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for deg := 0.0; deg < 360; deg += 7.3 {
		n := Normalize(deg)
		if got := Normalize(n); got != n {
			t.Fatalf("Normalize(Normalize(%v))=%v want %v", deg, got, n)
		}
	}
}

func TestNormalize_PeriodInvariant(t *testing.T) {
	for _, k := range []float64{-3, -1, 1, 2, 10} {
		for deg := 0.0; deg < 360; deg += 11.7 {
			if got := Normalize(deg + 360*k); math.Abs(got-Normalize(deg)) > 1e-6 {
				t.Fatalf("Normalize(%v+360*%v)=%v want %v", deg, k, got, Normalize(deg))
			}
		}
	}
}

func TestDelta_WrapCorrect(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{359, 1, -2},
		{1, 359, 2},
		{10, 350, 20},
		{350, 10, -20},
		{180, 0, -180},
		{90, 90, 0},
		{0.5, 359.5, 1},
	}
	for _, c := range cases {
		if got := Delta(c.a, c.b); math.Abs(got-c.want) > eps {
			t.Errorf("Delta(%v, %v)=%v want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestDelta_Antisymmetric(t *testing.T) {
	for a := 0.0; a < 360; a += 13.1 {
		for b := 0.0; b < 360; b += 17.9 {
			d, rd := Delta(a, b), Delta(b, a)
			// 180 is its own antipode: both directions are the shortest path.
			if math.Abs(math.Abs(d)-180) < eps {
				continue
			}
			if math.Abs(d+rd) > 1e-6 {
				t.Fatalf("Delta(%v,%v)=%v, Delta(%v,%v)=%v: not antisymmetric", a, b, d, b, a, rd)
			}
		}
	}
}

func TestDelta_BoundedMagnitude(t *testing.T) {
	for a := 0.0; a < 360; a += 3.7 {
		for b := 0.0; b < 360; b += 5.3 {
			d := Delta(a, b)
			if d < -180-eps || d >= 180+eps {
				t.Fatalf("Delta(%v,%v)=%v outside [-180, 180)", a, b, d)
			}
		}
	}
}

func TestCompassPoint(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{11, "N"},
		{12, "NNE"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{237, "WSW"},
		{270, "W"},
		{315, "NW"},
		{359, "N"},
	}
	for _, c := range cases {
		if got := CompassPoint(c.deg); got != c.want {
			t.Errorf("CompassPoint(%v)=%q want %q", c.deg, got, c.want)
		}
	}
}
