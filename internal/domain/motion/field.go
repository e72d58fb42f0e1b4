package motion

import "math"

// DefaultCell is the filing grid pitch in pixels.
const DefaultCell = 44

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Field lays out filings in a grid that fills the viewport.
type Field struct {
	Cell int
}

// Grid returns max(1, floor(dim/cell)) columns and rows.
func (f Field) Grid(width, height int) (cols, rows int) {
	cell := f.Cell
	if cell <= 0 {
		cell = DefaultCell
	}
	return max(1, width/cell), max(1, height/cell)
}

// Filing is one grid element that turns towards the shared pointer.
type Filing struct {
	Col, Row int
	Center   Point
	pointer  Reader[Point]
}

// Angle is the rotation in degrees from the filing centre towards the pointer.
func (f Filing) Angle() float64 {
	p := f.pointer.Get()
	return math.Atan2(p.Y-f.Center.Y, p.X-f.Center.X) * 180 / math.Pi
}

// Filings lays out one filing per cell, each reading the same pointer.
// Cells stretch to fill the viewport, so centres use the real cell size.
func (f Field) Filings(width, height int, pointer Reader[Point]) []Filing {
	cols, rows := f.Grid(width, height)
	cw := float64(width) / float64(cols)
	ch := float64(height) / float64(rows)
	out := make([]Filing, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, Filing{
				Col:     c,
				Row:     r,
				Center:  Point{X: (float64(c) + 0.5) * cw, Y: (float64(r) + 0.5) * ch},
				pointer: pointer,
			})
		}
	}
	return out
}
