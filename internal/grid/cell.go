package grid

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Unassigned marks a cell that does not yet belong to any tour or
// virtual cluster.
const Unassigned = -1

// Segment is a fixed sensor site that must be reached by some collection
// cell. Collector is stamped during cover selection and names the one cell
// responsible for collecting this segment's data.
type Segment struct {
	ID        int
	Location  r2.Point
	Collector *Cell
}

func (s *Segment) String() string {
	return fmt.Sprintf("SEG %d", s.ID)
}

// Cell is one square region of the field lattice. Cells are created once at
// grid construction; planning only stamps TourID, VirtualID and the
// Collector back-references on segments.
type Cell struct {
	Index int
	Row   int
	Col   int

	// Location is the cell centre in field metres.
	Location r2.Point

	// Segments lists every segment within collection range of the centre.
	Segments []*Segment

	// Neighbors holds the adjacent cells (8-connectivity).
	Neighbors []*Cell

	// Access is the number of reachable segments and acts as the cell's
	// usability weight during cover selection.
	Access int

	// Proximity is the lattice distance to the damaged-area centre cell.
	Proximity int

	// SignalHopCount is the number of distinct segments reachable through
	// the cell's one-hop neighbors.
	SignalHopCount int

	TourID    int
	VirtualID int
}

func (c *Cell) String() string {
	return fmt.Sprintf("CELL %d (%d,%d)", c.Index, c.Row, c.Col)
}

// Assigned reports whether the cell belongs to a tour.
func (c *Cell) Assigned() bool {
	return c.TourID != Unassigned
}
