package energy

import (
	"github.com/golang/geo/r2"

	"github.com/avewell/fieldtours-backend-go/internal/grid"
	"github.com/avewell/fieldtours-backend-go/internal/spatial"
)

// FieldModel is the default cost model: a first-order radio model for
// communication plus constant-power locomotion over a spanning-tree tour
// length estimate. The estimate deliberately ignores intra-tour visit
// order, so the price of a tour depends on membership alone.
type FieldModel struct {
	params Params
	grid   *grid.Grid
	site   Membership
}

// NewFieldModel builds a model over one grid, reading tour membership
// through site.
func NewFieldModel(p Params, g *grid.Grid, site Membership) *FieldModel {
	return &FieldModel{params: p, grid: g, site: site}
}

// TotalEnergy prices one tour: movement plus communication.
func (m *FieldModel) TotalEnergy(tourID int) float64 {
	return m.MovementEnergy(tourID) + m.CommsEnergy(tourID)
}

// TotalMovementEnergy prices locomotion for the whole configuration. With
// initial set, the entire cover is priced as one provisional tour rooted at
// the damaged-area centre.
func (m *FieldModel) TotalMovementEnergy(initial bool) float64 {
	if initial {
		cover := m.site.CoverCells()
		pts := make([]r2.Point, 0, len(cover)+1)
		for _, cell := range cover {
			pts = append(pts, cell.Location)
		}
		pts = append(pts, m.grid.Center().Location)
		return 2 * spatial.SpanningTreeLength(pts) * m.params.MoveJPerMeter
	}

	var total float64
	for _, id := range m.site.TourIDs() {
		total += m.MovementEnergy(id)
	}
	return total
}

// TotalCommsEnergy prices communication for the whole configuration. With
// initial set, every bound segment is counted regardless of tours.
func (m *FieldModel) TotalCommsEnergy(initial bool) float64 {
	if initial {
		var total float64
		for _, seg := range m.grid.Segments() {
			if seg.Collector != nil {
				total += m.segmentCost(seg, seg.Collector)
			}
		}
		return total
	}

	var total float64
	for _, id := range m.site.TourIDs() {
		total += m.CommsEnergy(id)
	}
	return total
}

// MovementEnergy doubles the spanning-tree weight over the tour's cell
// centres, with the tour's anchor included so non-hub tours pay for the
// hop back to the hub ring.
func (m *FieldModel) MovementEnergy(tourID int) float64 {
	cells := m.site.TourCells(tourID)
	if len(cells) == 0 {
		return 0
	}

	pts := make([]r2.Point, 0, len(cells)+1)
	for _, cell := range cells {
		pts = append(pts, cell.Location)
	}
	if anchor := m.site.TourAnchor(tourID); anchor != nil {
		pts = append(pts, anchor.Location)
	}
	return 2 * spatial.SpanningTreeLength(pts) * m.params.MoveJPerMeter
}

// CommsEnergy sums transmit and receive cost over the segments collected
// by the tour's cells. Only the bound collector pays for a segment, never
// the other cells that merely reach it.
func (m *FieldModel) CommsEnergy(tourID int) float64 {
	var total float64
	for _, cell := range m.site.TourCells(tourID) {
		for _, seg := range cell.Segments {
			if seg.Collector == cell {
				total += m.segmentCost(seg, cell)
			}
		}
	}
	return total
}

func (m *FieldModel) segmentCost(seg *grid.Segment, cell *grid.Cell) float64 {
	d := spatial.Distance(seg.Location, cell.Location)
	transmit := m.params.SegmentPayloadBits * (m.params.ElecJPerBit + m.params.AmpJPerBitM2*d*d)
	receive := m.params.SegmentPayloadBits * m.params.ElecJPerBit
	return transmit + receive
}
