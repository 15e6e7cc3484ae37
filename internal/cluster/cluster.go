// Package cluster provides the grouping primitives tours are built from:
// mutable cell clusters, nearest-pair search and the pairwise merge used to
// reduce singleton clusters into virtual clusters.
package cluster

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/avewell/fieldtours-backend-go/internal/grid"
	"github.com/avewell/fieldtours-backend-go/internal/spatial"
)

// Kind distinguishes the four cluster roles in a plan.
type Kind int

const (
	Tour Kind = iota
	Hub
	Virtual
	VirtualHub
)

func (k Kind) String() string {
	switch k {
	case Tour:
		return "TOUR"
	case Hub:
		return "HUB"
	case Virtual:
		return "VC"
	case VirtualHub:
		return "VHUB"
	}
	return "UNKNOWN"
}

// Cluster is a mutable grouping of cells. Tours and the hub stamp TourID on
// their members, virtual clusters stamp VirtualID, the virtual hub stamps
// nothing so its placeholder cell never counts as part of a virtual cluster.
type Cluster struct {
	ID   int
	Kind Kind

	Cells []*grid.Cell

	// Recent is the most recently added member, the growth frontier.
	Recent *grid.Cell

	// Anchor is the hub member cell nearest this cluster, maintained by the
	// planner whenever hub membership changes.
	Anchor *grid.Cell

	Completed bool
}

// New returns an empty cluster of the given kind and id.
func New(kind Kind, id int) *Cluster {
	return &Cluster{ID: id, Kind: kind}
}

func (c *Cluster) String() string {
	return fmt.Sprintf("%s %d", c.Kind, c.ID)
}

// Size returns the member count.
func (c *Cluster) Size() int {
	return len(c.Cells)
}

// Contains reports whether the cell is a member.
func (c *Cluster) Contains(cell *grid.Cell) bool {
	for _, m := range c.Cells {
		if m == cell {
			return true
		}
	}
	return false
}

// Add appends a cell, stamps its id for the cluster's kind and advances
// Recent.
func (c *Cluster) Add(cell *grid.Cell) {
	c.Cells = append(c.Cells, cell)
	c.stamp(cell, c.ID)
	c.Recent = cell
}

// Remove drops a cell from the membership and clears its stamp. When the
// removed cell was Recent, the last remaining member takes its place.
func (c *Cluster) Remove(cell *grid.Cell) {
	for i, m := range c.Cells {
		if m != cell {
			continue
		}
		c.Cells = append(c.Cells[:i], c.Cells[i+1:]...)
		c.stamp(cell, grid.Unassigned)
		if c.Recent == cell {
			if len(c.Cells) > 0 {
				c.Recent = c.Cells[len(c.Cells)-1]
			} else {
				c.Recent = nil
			}
		}
		return
	}
}

// Relabel changes the cluster id and restamps every member accordingly.
// Virtual cluster ids are rewritten after the angular sort, so stamps
// applied at merge time must follow.
func (c *Cluster) Relabel(id int) {
	c.ID = id
	for _, cell := range c.Cells {
		c.stamp(cell, id)
	}
}

// Restamp reapplies the cluster's id to every member. Used after
// membership is restored wholesale from a snapshot.
func (c *Cluster) Restamp() {
	for _, cell := range c.Cells {
		c.stamp(cell, c.ID)
	}
}

func (c *Cluster) stamp(cell *grid.Cell, id int) {
	switch c.Kind {
	case Tour, Hub:
		cell.TourID = id
	case Virtual:
		cell.VirtualID = id
	}
}

// Locations returns the member cell centres in membership order.
func (c *Cluster) Locations() []r2.Point {
	pts := make([]r2.Point, len(c.Cells))
	for i, cell := range c.Cells {
		pts[i] = cell.Location
	}
	return pts
}

// Centroid is the mean member location, the cluster's position for angular
// ordering and merge distance.
func (c *Cluster) Centroid() r2.Point {
	return spatial.Centroid(c.Locations())
}

// NearestCells returns the cross-collection pair of cells at minimal centre
// distance, with the first minimal pair winning ties. Either side being
// empty yields nils.
func NearestCells(a, b []*grid.Cell) (*grid.Cell, *grid.Cell, float64) {
	locsA := make([]r2.Point, len(a))
	for i, cell := range a {
		locsA[i] = cell.Location
	}
	locsB := make([]r2.Point, len(b))
	for i, cell := range b {
		locsB[i] = cell.Location
	}
	i, j, d := spatial.NearestIndices(locsA, locsB)
	if i < 0 || j < 0 {
		return nil, nil, d
	}
	return a[i], b[j], d
}
