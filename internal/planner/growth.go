package planner

import (
	"github.com/avewell/fieldtours-backend-go/internal/cluster"
	"github.com/avewell/fieldtours-backend-go/internal/grid"
)

// growMovementDominant maps every virtual cluster straight onto a real
// tour with the same id and full membership. When movement cost dominates
// the coarse virtual grouping is already energy-acceptable, so no
// cell-by-cell refinement runs and the hub stays at the damaged centre.
func (p *Planner) growMovementDominant() {
	for _, vc := range p.virtual {
		tour := cluster.New(cluster.Tour, vc.ID)
		for _, cell := range vc.Cells {
			tour.Add(cell)
		}
		p.tours = append(p.tours, tour)
	}
	p.updateAnchors()
}

// greedyExpansion grows one real tour per virtual cluster cell by cell.
// Each round the cheapest incomplete tour (hub included) claims one new
// cell; a tour with no claimable cell is marked completed. The loop ends
// when every tour and the hub are completed.
func (p *Planner) greedyExpansion() {
	for _, vc := range p.virtual {
		tour := cluster.New(cluster.Tour, vc.ID)
		seed, _, _ := cluster.NearestCells(vc.Cells, p.hub.Cells)
		tour.Add(seed)
		p.tours = append(p.tours, tour)
	}
	p.updateAnchors()

	round := 1
	for {
		least := p.cheapestIncomplete()
		if least == nil {
			return
		}
		round++

		unassigned := p.unassignedCover()
		if len(unassigned) == 0 {
			least.Completed = true
			p.logf("ROUND %d: all cells assigned, marking %s completed", round, least)
			continue
		}

		if least == p.hub {
			p.growHub(round, unassigned)
			continue
		}
		p.growTour(round, least)
	}
}

// cheapestIncomplete picks the lowest-energy tour that is not yet
// completed, scanning regular tours first and the hub last. Nil means
// growth is finished.
func (p *Planner) cheapestIncomplete() *cluster.Cluster {
	var least *cluster.Cluster
	var leastEnergy float64
	for _, c := range p.allTours() {
		if c.Completed {
			continue
		}
		e := p.model.TotalEnergy(c.ID)
		if least == nil || e < leastEnergy {
			least = c
			leastEnergy = e
		}
	}
	return least
}

func (p *Planner) unassignedCover() []*grid.Cell {
	var free []*grid.Cell
	for _, cell := range p.cover {
		if !cell.Assigned() {
			free = append(free, cell)
		}
	}
	return free
}

// growHub grows the hub by one cell. The first growth relocates the hub
// off the damaged-area placeholder onto the unassigned cell closest to
// the centre; afterwards the hub expands toward the unassigned cell
// nearest its growth frontier.
func (p *Planner) growHub(round int, unassigned []*grid.Cell) {
	if len(p.hub.Cells) == 1 && p.hub.Cells[0] == p.damaged {
		best := unassigned[0]
		for _, cell := range unassigned[1:] {
			if cell.Proximity < best.Proximity {
				best = cell
			}
		}

		// Replace the placeholder rather than appending, and return its
		// id to the unassigned state.
		p.damaged.TourID = grid.Unassigned
		p.hub.Cells = []*grid.Cell{best}
		best.TourID = p.hub.ID
		p.hub.Recent = best
		p.logf("ROUND %d: moved %s to %s", round, p.hub, best)
	} else {
		best, _, _ := cluster.NearestCells(unassigned, []*grid.Cell{p.hub.Recent})
		p.hub.Add(best)
		p.logf("ROUND %d: added %s to %s", round, best, p.hub)
	}
	p.updateAnchors()
}

// growTour grows one regular tour by a single cell: first from its own
// virtual cluster's unassigned members nearest the growth frontier, then
// outward through expanding rings restricted to angularly adjacent
// virtual clusters. Hitting an already-assigned cell first is a boundary
// collision and completes the tour.
func (p *Planner) growTour(round int, least *cluster.Cluster) {
	vc := p.virtualByID(least.ID)

	var candidates []*grid.Cell
	for _, cell := range vc.Cells {
		if !cell.Assigned() {
			candidates = append(candidates, cell)
		}
	}

	var best *grid.Cell
	if len(candidates) > 0 {
		best, _, _ = cluster.NearestCells(candidates, []*grid.Cell{least.Recent})
	} else {
		best = p.searchAdjacentRings(least)
	}

	if best != nil {
		least.Add(best)
		p.logf("ROUND %d: added %s to %s", round, best, least)
		return
	}
	if least.Completed {
		p.logf("ROUND %d: boundary reached, marking %s completed", round, least)
		return
	}
	least.Completed = true
	p.logf("ROUND %d: no candidate found, marking %s completed", round, least)
}

// searchAdjacentRings walks rings of increasing radius around the tour's
// growth frontier looking for a cell of an angularly adjacent virtual
// cluster. The first such cell decides the outcome: unassigned grows the
// tour, assigned completes it.
func (p *Planner) searchAdjacentRings(least *cluster.Cluster) *grid.Cell {
	recent := least.Recent
	for radius := 1; radius <= p.grid.MaxDimension(); radius++ {
		for _, nbr := range p.grid.NeighborsAt(recent.Row, recent.Col, radius) {
			if nbr.VirtualID == grid.Unassigned {
				continue
			}
			diff := nbr.VirtualID - least.ID
			if diff != 1 && diff != -1 {
				continue
			}
			if nbr.Assigned() {
				least.Completed = true
				return nil
			}
			return nbr
		}
	}
	return nil
}
