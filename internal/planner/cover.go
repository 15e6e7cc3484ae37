package planner

import (
	"fmt"

	"github.com/avewell/fieldtours-backend-go/internal/grid"
)

// selectCover runs the greedy weighted set cover over the grid and
// replaces the planner's working cell collection with the result. Every
// segment ends up bound to exactly one covering cell.
func (p *Planner) selectCover() error {
	segments := p.grid.Segments()
	covered := make(map[int]struct{}, len(segments))
	var cover []*grid.Cell

	for len(covered) < len(segments) {
		var candidate *grid.Cell
		candidateUnion := 0

		// Cells are scanned in ascending row-major index order so ties the
		// comparison chain cannot break fall to the earliest cell.
		for _, cell := range p.grid.Cells() {
			if cell.Access == 0 {
				continue
			}
			if candidate == nil {
				candidate = cell
				candidateUnion = unionSize(covered, cell)
			}
			// The very first pick bootstraps the cover with the first
			// eligible cell.
			if len(covered) == 0 {
				break
			}
			if cell == p.damaged {
				continue
			}

			cellUnion := unionSize(covered, cell)
			if coverBetter(cell, cellUnion, candidate, candidateUnion) {
				candidate = cell
				candidateUnion = cellUnion
			}
		}

		for _, seg := range candidate.Segments {
			covered[seg.ID] = struct{}{}
		}
		cover = append(cover, candidate)
	}

	p.logf("cover selected: %d cells for %d segments", len(cover), len(segments))

	if len(cover) <= p.agents {
		return fmt.Errorf("%w: %d cover cells cannot support %d agents",
			ErrInsufficientCover, len(cover), p.agents)
	}

	// Bind each segment to its covering cell. Later cover cells win when
	// reaches overlap, so every segment has exactly one collector.
	for _, cell := range cover {
		for _, seg := range cell.Segments {
			seg.Collector = cell
		}
	}

	p.cover = cover
	return nil
}

// unionSize is the covered-segment count after hypothetically adding the
// cell's reach.
func unionSize(covered map[int]struct{}, cell *grid.Cell) int {
	size := len(covered)
	for _, seg := range cell.Segments {
		if _, ok := covered[seg.ID]; !ok {
			size++
		}
	}
	return size
}

// coverBetter decides whether cell displaces the standing candidate:
// larger covered union first, then lower access, then higher one-hop
// signal reach, then lower proximity to the damaged centre.
func coverBetter(cell *grid.Cell, cellUnion int, candidate *grid.Cell, candidateUnion int) bool {
	if cellUnion != candidateUnion {
		return cellUnion > candidateUnion
	}
	if cell.Access != candidate.Access {
		return cell.Access < candidate.Access
	}
	if cell.SignalHopCount != candidate.SignalHopCount {
		return cell.SignalHopCount > candidate.SignalHopCount
	}
	return cell.Proximity < candidate.Proximity
}
