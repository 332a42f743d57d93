package main

import (
	"math"
	"strings"

	"github.com/jakecoffman/cp"
)

// grid is a character raster of the camera's view, row 0 at the top.
type grid struct {
	cols, rows int
	cells      [][]rune

	// origin is the world position of the top-left corner.
	origin       cp.Vector
	cellW, cellH float64
}

func newGrid(cols, rows int, center, size cp.Vector) *grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &grid{
		cols:   cols,
		rows:   rows,
		cells:  make([][]rune, rows),
		origin: cp.Vector{X: center.X - size.X/2, Y: center.Y + size.Y/2},
		cellW:  size.X / float64(cols),
		cellH:  size.Y / float64(rows),
	}
	for r := range g.cells {
		g.cells[r] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g *grid) cell(p cp.Vector) (col, row int, ok bool) {
	if g.cellW <= 0 || g.cellH <= 0 {
		return 0, 0, false
	}
	col = int(math.Floor((p.X - g.origin.X) / g.cellW))
	row = int(math.Floor((g.origin.Y - p.Y) / g.cellH))
	ok = col >= 0 && col < g.cols && row >= 0 && row < g.rows
	return col, row, ok
}

// center returns the world position at the middle of a cell.
func (g *grid) center(col, row int) cp.Vector {
	return cp.Vector{
		X: g.origin.X + (float64(col)+0.5)*g.cellW,
		Y: g.origin.Y - (float64(row)+0.5)*g.cellH,
	}
}

func (g *grid) put(p cp.Vector, ch rune) {
	if col, row, ok := g.cell(p); ok {
		g.cells[row][col] = ch
	}
}

func (g *grid) vline(x float64, ch rune) {
	col, _, _ := g.cell(cp.Vector{X: x, Y: g.origin.Y})
	if col < 0 || col >= g.cols {
		return
	}
	for r := range g.cells {
		g.cells[r][col] = ch
	}
}

func (g *grid) hline(y float64, ch rune) {
	_, row, _ := g.cell(cp.Vector{X: g.origin.X, Y: y})
	if row < 0 || row >= g.rows {
		return
	}
	for c := range g.cells[row] {
		g.cells[row][c] = ch
	}
}

// fillGrid marks the cells that hold a world grid intersection.
func (g *grid) fillGrid(step float64, ch rune) {
	if step <= 0 {
		return
	}
	for x := math.Ceil(g.origin.X/step) * step; x < g.origin.X+g.cellW*float64(g.cols); x += step {
		for y := math.Floor(g.origin.Y/step) * step; y > g.origin.Y-g.cellH*float64(g.rows); y -= step {
			g.put(cp.Vector{X: x, Y: y}, ch)
		}
	}
}

// ring marks cells whose centers lie on the circle within half a cell.
func (g *grid) ring(c cp.Vector, radius float64, ch rune) {
	tol := math.Max(g.cellW, g.cellH) / 2
	for row := range g.cells {
		for col := range g.cells[row] {
			d := g.center(col, row).Distance(c)
			if math.Abs(d-radius) <= tol {
				g.cells[row][col] = ch
			}
		}
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for r, line := range g.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}
