// Package grid partitions a rectangular sensor field into a lattice of
// square cells and precomputes the per-cell attributes that drive cover
// selection and tour growth.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Params describes the field geometry in metres.
type Params struct {
	WidthMeters           float64
	HeightMeters          float64
	CellSideMeters        float64
	CollectionRangeMeters float64
}

// Validate checks the field geometry. The collection range must reach every
// corner of a cell from its centre (side × √2 / 2), otherwise a segment
// could sit inside a cell that cannot collect it.
func (p Params) Validate() error {
	if p.WidthMeters <= 0 || p.HeightMeters <= 0 {
		return fmt.Errorf("grid: field dimensions must be positive, got %.2fx%.2f", p.WidthMeters, p.HeightMeters)
	}
	if p.CellSideMeters <= 0 {
		return fmt.Errorf("grid: cell side must be positive, got %.2f", p.CellSideMeters)
	}
	minRange := p.CellSideMeters * math.Sqrt2 / 2
	if p.CollectionRangeMeters < minRange {
		return fmt.Errorf("grid: collection range %.2fm cannot cover a %.2fm cell, need at least %.2fm",
			p.CollectionRangeMeters, p.CellSideMeters, minRange)
	}
	return nil
}

// Grid is the immutable lattice over one sensor field.
type Grid struct {
	Rows int
	Cols int
	Side float64

	cells    []*Cell
	segments []*Segment
	center   *Cell
}

// New builds the lattice for a field and binds every segment to the cells
// that can reach it.
func New(points []r2.Point, p Params) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, errors.New("grid: no segments to cover")
	}

	rows := int(math.Ceil(p.HeightMeters / p.CellSideMeters))
	cols := int(math.Ceil(p.WidthMeters / p.CellSideMeters))

	g := &Grid{
		Rows:     rows,
		Cols:     cols,
		Side:     p.CellSideMeters,
		cells:    make([]*Cell, 0, rows*cols),
		segments: make([]*Segment, 0, len(points)),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			g.cells = append(g.cells, &Cell{
				Index: row*cols + col,
				Row:   row,
				Col:   col,
				Location: r2.Point{
					X: (float64(col) + 0.5) * p.CellSideMeters,
					Y: (float64(row) + 0.5) * p.CellSideMeters,
				},
				TourID:    Unassigned,
				VirtualID: Unassigned,
			})
		}
	}
	g.center = g.CellAt(rows/2, cols/2)

	for i, pt := range points {
		if pt.X < 0 || pt.X > p.WidthMeters || pt.Y < 0 || pt.Y > p.HeightMeters {
			return nil, fmt.Errorf("grid: segment %d at (%.1f, %.1f) lies outside the %.0fx%.0fm field",
				i, pt.X, pt.Y, p.WidthMeters, p.HeightMeters)
		}
		g.segments = append(g.segments, &Segment{ID: i, Location: pt})
	}

	// Bind each segment to every cell whose centre is within collection
	// range. The √2/2 bound above guarantees at least the containing cell.
	for _, cell := range g.cells {
		for _, seg := range g.segments {
			if cell.Location.Sub(seg.Location).Norm() <= p.CollectionRangeMeters {
				cell.Segments = append(cell.Segments, seg)
			}
		}
		cell.Access = len(cell.Segments)
	}

	for _, cell := range g.cells {
		cell.Neighbors = g.NeighborsAt(cell.Row, cell.Col, 1)
		cell.Proximity = CellDistance(cell, g.center)
	}

	// One-hop signal reach counts distinct segments across the neighbor
	// set, not the cell's own.
	for _, cell := range g.cells {
		seen := make(map[int]struct{})
		for _, nbr := range cell.Neighbors {
			for _, seg := range nbr.Segments {
				seen[seg.ID] = struct{}{}
			}
		}
		cell.SignalHopCount = len(seen)
	}

	return g, nil
}

// Cells returns all lattice cells in row-major order.
func (g *Grid) Cells() []*Cell {
	return g.cells
}

// Segments returns the sensor segments in input order.
func (g *Grid) Segments() []*Segment {
	return g.segments
}

// Center returns the damaged-area placeholder cell at the lattice centre.
func (g *Grid) Center() *Cell {
	return g.center
}

// CellAt returns the cell at (row, col), or nil when out of range.
func (g *Grid) CellAt(row, col int) *Cell {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Cols {
		return nil
	}
	return g.cells[row*g.Cols+col]
}

// MaxDimension returns the larger of the grid's row and column counts. Ring
// searches out to this radius are guaranteed to have seen the whole grid.
func (g *Grid) MaxDimension() int {
	if g.Rows > g.Cols {
		return g.Rows
	}
	return g.Cols
}

// CellDistance is the lattice (Chebyshev) distance between two cells, the
// number of king moves separating them.
func CellDistance(a, b *Cell) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}

// NeighborsAt returns the cells at exactly the given lattice distance from
// (row, col), in row-major scan order. Radius 1 yields the classic
// 8-connected neighborhood.
func (g *Grid) NeighborsAt(row, col, radius int) []*Cell {
	if radius <= 0 {
		return nil
	}
	var ring []*Cell
	for r := row - radius; r <= row+radius; r++ {
		for c := col - radius; c <= col+radius; c++ {
			if r == row && c == col {
				continue
			}
			dr := r - row
			if dr < 0 {
				dr = -dr
			}
			dc := c - col
			if dc < 0 {
				dc = -dc
			}
			if dr != radius && dc != radius {
				continue
			}
			if cell := g.CellAt(r, c); cell != nil {
				ring = append(ring, cell)
			}
		}
	}
	return ring
}
