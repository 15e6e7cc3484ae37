package planner

import "errors"

var (
	// ErrInsufficientCover means the greedy cover did not exceed the agent
	// count: too few relay points to support the fleet.
	ErrInsufficientCover = errors.New("insufficient cover for agent fleet")

	// ErrOptimizationLost means a balancing loop kept improving past its
	// round bound without converging.
	ErrOptimizationLost = errors.New("optimization got lost")
)
