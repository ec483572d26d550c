package ui

import (
	"math"
	"strings"

	"compass.klederson.com/internal/heading"
)

// RenderDial renders the compass card with a needle at the given continuous
// rotation angle (degrees, unbounded accumulator; sin/cos absorb the winding).
// The cardinal letters rotate with the card while the lubber mark at the top
// stays fixed to the device; the needle points at magnetic north.
func RenderDial(width, height int, rotationDeg float64, seeded bool) string {
	if width < 9 || height < 5 {
		return ""
	}

	grid := make([][]byte, height)
	isNeedle := make([][]bool, height)
	isTail := make([][]bool, height)
	isCard := make([][]bool, height)
	for i := range grid {
		grid[i] = make([]byte, width)
		isNeedle[i] = make([]bool, width)
		isTail[i] = make([]bool, width)
		isCard[i] = make([]bool, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	fcx := float64(width) / 2.0
	fcy := float64(height) / 2.0
	rx := fcx - 3.0 // horizontal radius in columns
	ry := fcy - 2.0 // vertical radius in rows
	if rx < 3 {
		rx = 3
	}
	if ry < 2 {
		ry = 2
	}

	// Dial ring
	steps := 96
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		col := int(math.Round(fcx + rx*math.Sin(a)))
		row := int(math.Round(fcy - ry*math.Cos(a)))
		if col >= 0 && col < width && row >= 0 && row < height && grid[row][col] == ' ' {
			grid[row][col] = ringChar(a)
		}
	}

	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))

	// Cross hairs (faint axes)
	for r := cy - int(ry) + 1; r < cy+int(ry); r++ {
		if r >= 0 && r < height && r != cy && grid[r][cx] == ' ' {
			grid[r][cx] = ':'
		}
	}
	for c := cx - int(rx) + 1; c < cx+int(rx); c++ {
		if c >= 0 && c < width && c != cx && grid[cy][c] == ' ' {
			grid[cy][c] = '.'
		}
	}

	// Fixed lubber mark: device forward, top of the dial.
	lubberRow := cy - int(math.Round(ry)) - 1
	setGrid(grid, width, height, cx, lubberRow, 'v')

	// Rotating cardinal letters, placed just outside the ring. The card
	// turns opposite to the device so the letters track true directions.
	// A letter passing under the lubber mark wins the cell.
	rot := heading.Radians(rotationDeg)
	for i, letter := range []byte{'N', 'E', 'S', 'W'} {
		a := rot + float64(i)*math.Pi/2
		col := int(math.Round(fcx + (rx+2)*math.Sin(a)))
		row := int(math.Round(fcy - (ry+1)*math.Cos(a)))
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = letter
			isCard[row][col] = true
		}
	}

	// Center
	setGrid(grid, width, height, cx, cy, '+')

	if seeded {
		drawNeedle(grid, isNeedle, isTail, width, height, fcx, fcy, rx, ry, rot)
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			ch := grid[row][col]
			switch {
			case isCard[row][col] && ch == 'N':
				sb.WriteString(StyleDialMark.Render(string(ch)))
			case isCard[row][col]:
				sb.WriteString(StyleCardinal.Render(string(ch)))
			case isNeedle[row][col]:
				sb.WriteString(StyleNeedle.Render(string(ch)))
			case isTail[row][col]:
				sb.WriteString(StyleNeedleTail.Render(string(ch)))
			case ch == '+' || ch == 'v':
				sb.WriteString(StyleDialMark.Render(string(ch)))
			case ch == ':' || ch == '.':
				sb.WriteString(StyleDialAxis.Render(string(ch)))
			case ch != ' ':
				sb.WriteString(StyleDialRing.Render(string(ch)))
			default:
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// drawNeedle draws the north-pointing shaft, its arrowhead, and a short
// south tail.
func drawNeedle(grid [][]byte, isNeedle, isTail [][]bool, width, height int, fcx, fcy, rx, ry, rot float64) {
	sinA := math.Sin(rot)
	cosA := math.Cos(rot)

	shaftSteps := int(math.Max(rx, ry))
	if shaftSteps < 2 {
		shaftSteps = 2
	}

	var tipCol, tipRow int
	for s := 1; s <= shaftSteps; s++ {
		t := float64(s) / float64(shaftSteps) * 0.85
		col := int(math.Round(fcx + t*rx*sinA))
		row := int(math.Round(fcy - t*ry*cosA))
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = shaftChar(rot)
			isNeedle[row][col] = true
			tipCol, tipRow = col, row
		}
	}
	if tipCol >= 0 && tipCol < width && tipRow >= 0 && tipRow < height {
		grid[tipRow][tipCol] = arrowTip(rot)
		isNeedle[tipRow][tipCol] = true
	}

	tailSteps := shaftSteps / 2
	if tailSteps < 1 {
		tailSteps = 1
	}
	for s := 1; s <= tailSteps; s++ {
		t := float64(s) / float64(shaftSteps) * 0.85
		col := int(math.Round(fcx - t*rx*sinA))
		row := int(math.Round(fcy + t*ry*cosA))
		if col >= 0 && col < width && row >= 0 && row < height && !isNeedle[row][col] {
			grid[row][col] = shaftChar(rot)
			isTail[row][col] = true
		}
	}
}

func setGrid(grid [][]byte, w, h, col, row int, ch byte) {
	if col >= 0 && col < w && row >= 0 && row < h {
		grid[row][col] = ch
	}
}

func ringChar(a float64) byte {
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	sector := int(math.Round(a/(math.Pi/4))) % 8
	switch sector {
	case 0, 4:
		return '-'
	case 1, 5:
		return '\\'
	case 2, 6:
		return '|'
	case 3, 7:
		return '/'
	}
	return '-'
}

// shaftChar returns the line character for a given angle direction.
func shaftChar(a float64) byte {
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	sector := int(math.Round(a/(math.Pi/4))) % 8
	switch sector {
	case 0, 4: // N, S
		return '|'
	case 2, 6: // E, W
		return '-'
	case 1, 5: // NE, SW
		return '\\'
	case 3, 7: // SE, NW
		return '/'
	}
	return '|'
}

// arrowTip returns the arrowhead character for a given angle.
func arrowTip(a float64) byte {
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	sector := int(math.Round(a/(math.Pi/4))) % 8
	switch sector {
	case 0:
		return '^'
	case 1:
		return '/'
	case 2:
		return '>'
	case 3:
		return '\\'
	case 4:
		return 'v'
	case 5:
		return '/'
	case 6:
		return '<'
	case 7:
		return '\\'
	}
	return '*'
}
