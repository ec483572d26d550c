package heading

import "math"

// Normalize wraps a degree value into [0, 360).
func Normalize(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}

// Delta returns the signed shortest rotation from b to a in degrees.
// Result is in [-180, 180), correctly crossing the 0/360 boundary:
// Delta(1, 359) = 2, not -358.
func Delta(a, b float64) float64 {
	d := math.Mod(a-b+180, 360) - 180
	if d < -180 {
		d += 360
	}
	return d
}

// Radians converts a heading in degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// compassPoints are the 16-wind names, clockwise from north.
var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint returns the 16-wind name for a heading in degrees,
// e.g. CompassPoint(237) = "WSW".
func CompassPoint(deg float64) string {
	idx := int(math.Round(Normalize(deg)/22.5)) % 16
	return compassPoints[idx]
}
