// Package energy prices tours. The planner treats the model as an oracle
// and calls it repeatedly inside its optimization loops, so implementations
// must be pure functions of the current tour membership.
package energy

import "github.com/avewell/fieldtours-backend-go/internal/grid"

// Model is the cost oracle consumed by the planner. TotalEnergy prices one
// tour; the two aggregate methods price the whole configuration, either the
// pre-clustering state (initial) or the current tours.
type Model interface {
	TotalEnergy(tourID int) float64
	TotalMovementEnergy(initial bool) float64
	TotalCommsEnergy(initial bool) float64
}

// Membership is the narrow view of planner state a model reads through.
// The planner keeps ownership of all mutable state.
type Membership interface {
	// CoverCells returns the working cover, the cells tours are built from.
	CoverCells() []*grid.Cell

	// TourIDs lists every live tour id, the hub included.
	TourIDs() []int

	// TourCells returns the current members of one tour.
	TourCells(id int) []*grid.Cell

	// TourAnchor returns the tour's hub-side anchor cell, or nil for the
	// hub itself.
	TourAnchor(id int) *grid.Cell
}

// Params holds the radio and motion constants of the default model.
type Params struct {
	// MoveJPerMeter is the agent's locomotion cost.
	MoveJPerMeter float64

	// ElecJPerBit and AmpJPerBitM2 are the first-order radio model
	// electronics and amplifier constants.
	ElecJPerBit  float64
	AmpJPerBitM2 float64

	// SegmentPayloadBits is the data volume each segment hands over per
	// collection visit.
	SegmentPayloadBits float64
}

// DefaultParams returns constants that keep movement and communication
// costs within the same order of magnitude on a kilometre-scale field.
func DefaultParams() Params {
	return Params{
		MoveJPerMeter:      1.0,
		ElecJPerBit:        50e-9,
		AmpJPerBitM2:       100e-12,
		SegmentPayloadBits: 1e8,
	}
}
