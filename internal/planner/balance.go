package planner

import (
	"fmt"

	"github.com/avewell/fieldtours-backend-go/internal/cluster"
	"github.com/avewell/fieldtours-backend-go/internal/grid"
)

// snapshot captures the minimal state a balancing round mutates: the
// membership and growth frontier of the touched clusters. Restoring puts
// every moved cell back verbatim, stamps included.
type snapshot struct {
	clusters []*cluster.Cluster
	cells    [][]*grid.Cell
	recents  []*grid.Cell
}

func takeSnapshot(clusters ...*cluster.Cluster) *snapshot {
	s := &snapshot{clusters: clusters}
	for _, c := range clusters {
		members := make([]*grid.Cell, len(c.Cells))
		copy(members, c.Cells)
		s.cells = append(s.cells, members)
		s.recents = append(s.recents, c.Recent)
	}
	return s
}

func (s *snapshot) restore() {
	for i, c := range s.clusters {
		c.Cells = s.cells[i]
		c.Recent = s.recents[i]
		c.Restamp()
	}
}

// balanceNeighbors is the neighbor-restricted balancing pass. Each round
// the most expensive tour hands its cell nearest the cheapest id-adjacent
// tour over to that tour; a round that fails to shrink the energy spread
// is reverted and ends the pass.
func (p *Planner) balanceNeighbors() (int, error) {
	all := p.allTours()
	rounds := 0
	for {
		if rounds > maxBalanceRounds {
			return rounds, fmt.Errorf("%w after %d rounds of neighbor balancing", ErrOptimizationLost, rounds)
		}

		before := p.energyStdDev()
		most := p.mostExpensive(all)

		var recipient *cluster.Cluster
		var recipientEnergy float64
		for _, c := range all {
			diff := c.ID - most.ID
			if diff != 1 && diff != -1 {
				continue
			}
			e := p.model.TotalEnergy(c.ID)
			if recipient == nil || e < recipientEnergy {
				recipient = c
				recipientEnergy = e
			}
		}
		if recipient == nil {
			return rounds, nil
		}

		mover, _, _ := cluster.NearestCells(most.Cells, recipient.Cells)
		if mover == nil {
			return rounds, nil
		}

		snap := takeSnapshot(most, recipient)
		most.Remove(mover)
		recipient.Add(mover)
		p.updateAnchors()

		rounds++
		after := p.energyStdDev()
		p.logf("completed %d rounds of neighbor balancing", rounds)

		if after >= before {
			snap.restore()
			p.updateAnchors()
			return rounds, nil
		}
	}
}

// balanceFull is the full balancing pass. Each round compares the global
// cheapest and most expensive tours against the hub and shuttles anchor-
// nearest cells through the hub accordingly; a round that fails to shrink
// the energy spread is reverted whole and ends the pass.
func (p *Planner) balanceFull() (int, error) {
	all := p.allTours()
	rounds := 0
	for {
		if rounds > maxBalanceRounds {
			return rounds, fmt.Errorf("%w after %d rounds of full balancing", ErrOptimizationLost, rounds)
		}

		before := p.energyStdDev()
		least := p.cheapest(all)
		most := p.mostExpensive(all)

		var snap *snapshot
		switch {
		case p.hub == least:
			// Shrink the most expensive tour into the hub.
			if most.Anchor == nil {
				return rounds, nil
			}
			_, in, _ := cluster.NearestCells([]*grid.Cell{most.Anchor}, most.Cells)
			if in == nil {
				return rounds, nil
			}
			snap = takeSnapshot(most, p.hub)
			most.Remove(in)
			p.hub.Add(in)

		case p.hub == most:
			// Grow the cheapest tour from the hub.
			if least.Anchor == nil {
				return rounds, nil
			}
			out, _, _ := cluster.NearestCells(p.hub.Cells, []*grid.Cell{least.Anchor})
			if out == nil {
				return rounds, nil
			}
			snap = takeSnapshot(p.hub, least)
			p.hub.Remove(out)
			least.Add(out)

		default:
			// Hub is neither extreme: grow the cheapest from the hub and
			// shrink the most expensive into it, one shared improvement
			// check for both moves.
			if least.Anchor == nil || most.Anchor == nil {
				return rounds, nil
			}
			out, _, _ := cluster.NearestCells(p.hub.Cells, []*grid.Cell{least.Anchor})
			if out == nil {
				return rounds, nil
			}
			snap = takeSnapshot(p.hub, least, most)
			p.hub.Remove(out)
			least.Add(out)

			_, in, _ := cluster.NearestCells([]*grid.Cell{most.Anchor}, most.Cells)
			if in == nil {
				snap.restore()
				p.updateAnchors()
				return rounds, nil
			}
			most.Remove(in)
			p.hub.Add(in)
		}
		p.updateAnchors()

		rounds++
		after := p.energyStdDev()
		p.logf("completed %d rounds of full balancing", rounds)

		if after >= before {
			snap.restore()
			p.updateAnchors()
			return rounds, nil
		}
	}
}

func (p *Planner) cheapest(all []*cluster.Cluster) *cluster.Cluster {
	best := all[0]
	bestEnergy := p.model.TotalEnergy(best.ID)
	for _, c := range all[1:] {
		if e := p.model.TotalEnergy(c.ID); e < bestEnergy {
			best = c
			bestEnergy = e
		}
	}
	return best
}

func (p *Planner) mostExpensive(all []*cluster.Cluster) *cluster.Cluster {
	best := all[0]
	bestEnergy := p.model.TotalEnergy(best.ID)
	for _, c := range all[1:] {
		if e := p.model.TotalEnergy(c.ID); e > bestEnergy {
			best = c
			bestEnergy = e
		}
	}
	return best
}
