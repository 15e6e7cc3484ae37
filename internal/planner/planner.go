// Package planner implements the cluster-formation and energy-balancing
// engine: greedy segment cover, virtual cluster construction, strategy
// branching on the movement/communication energy ratio, cell-by-cell tour
// growth and hill-climbing energy balancing.
package planner

import (
	"errors"
	"fmt"
	"log"

	"github.com/avewell/fieldtours-backend-go/internal/cluster"
	"github.com/avewell/fieldtours-backend-go/internal/energy"
	"github.com/avewell/fieldtours-backend-go/internal/grid"
	"github.com/avewell/fieldtours-backend-go/internal/stats"
)

// Branch names the planning strategy the branch selector routed into.
type Branch string

const (
	BranchMovementDominant Branch = "movement_dominant"
	BranchCommsDominant    Branch = "comms_dominant"
	BranchBalanced         Branch = "balanced"
)

// dominanceRatio is the threshold of "A dominates B": B below one fifth
// of A.
const dominanceRatio = 0.2

// maxBalanceRounds bounds both balancing passes. A pass still improving
// beyond it is treated as divergent.
const maxBalanceRounds = 100

// Options configures a planning run.
type Options struct {
	// AgentCount is the fleet size. The plan produces AgentCount-1 regular
	// tours plus the hub tour.
	AgentCount int

	// Energy parameterizes the default cost model. Ignored when Model is
	// set; zero value selects energy.DefaultParams.
	Energy energy.Params

	// Model overrides the cost oracle. Nil selects the default field model
	// over this planner's own state.
	Model energy.Model

	// Logger receives progress lines. Nil selects the process logger.
	Logger *log.Logger
}

// Planner owns all mutable state of one planning run. A Planner plans
// once; runs never share state, so no locking is involved.
type Planner struct {
	grid   *grid.Grid
	agents int
	logger *log.Logger
	model  energy.Model

	damaged    *grid.Cell
	cover      []*grid.Cell
	virtual    []*cluster.Cluster
	virtualHub *cluster.Cluster
	tours      []*cluster.Cluster
	hub        *cluster.Cluster
}

// Result is the finalized plan: the chosen strategy, the cover, the
// regular tours and the hub, plus the energy figures the run was steered
// by.
type Result struct {
	Branch Branch

	Cover []*grid.Cell
	Tours []*cluster.Cluster
	Hub   *cluster.Cluster

	InitialMovementEnergy float64
	InitialCommsEnergy    float64

	// PreBalanceStdDev and FinalStdDev are the per-tour energy spread
	// before and after balancing. Branches without a balancing pass carry
	// the same value in both.
	PreBalanceStdDev float64
	FinalStdDev      float64

	BalancerRounds int
}

// New prepares a planner over a built grid. The hub and virtual hub start
// with the damaged-area placeholder cell as their only member.
func New(g *grid.Grid, opts Options) (*Planner, error) {
	if g == nil {
		return nil, errors.New("planner: nil grid")
	}
	if opts.AgentCount < 2 {
		return nil, fmt.Errorf("planner: at least 2 agents required, got %d", opts.AgentCount)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	hubID := opts.AgentCount - 1
	p := &Planner{
		grid:       g,
		agents:     opts.AgentCount,
		logger:     logger,
		damaged:    g.Center(),
		hub:        cluster.New(cluster.Hub, hubID),
		virtualHub: cluster.New(cluster.VirtualHub, hubID),
	}
	p.virtualHub.Add(p.damaged)
	p.hub.Add(p.damaged)

	p.model = opts.Model
	if p.model == nil {
		params := opts.Energy
		if params == (energy.Params{}) {
			params = energy.DefaultParams()
		}
		p.model = energy.NewFieldModel(params, g, p)
	}
	return p, nil
}

// Plan runs cover selection, virtual clustering, branch selection and the
// selected growth/balancing strategy, and returns the finalized tours.
func (p *Planner) Plan() (*Result, error) {
	if p.cover != nil {
		return nil, errors.New("planner: plan already executed")
	}

	if err := p.selectCover(); err != nil {
		return nil, err
	}
	p.buildVirtualClusters()

	movement := p.model.TotalMovementEnergy(true)
	comms := p.model.TotalCommsEnergy(true)
	p.logf("initial movement energy: %.2f", movement)
	p.logf("initial comms energy: %.2f", comms)

	res := &Result{
		InitialMovementEnergy: movement,
		InitialCommsEnergy:    comms,
	}

	var rounds int
	var err error
	switch {
	case dominates(movement, comms):
		p.logf("movement energy dominates, mapping virtual clusters directly")
		res.Branch = BranchMovementDominant
		p.growMovementDominant()
		res.PreBalanceStdDev = p.energyStdDev()

	case dominates(comms, movement):
		p.logf("comms energy dominates, balancing across tour neighbors")
		res.Branch = BranchCommsDominant
		p.growMovementDominant()
		res.PreBalanceStdDev = p.energyStdDev()
		rounds, err = p.balanceNeighbors()

	default:
		p.logf("energies are comparable, growing greedily then balancing")
		res.Branch = BranchBalanced
		p.greedyExpansion()
		res.PreBalanceStdDev = p.energyStdDev()
		rounds, err = p.balanceFull()
	}
	if err != nil {
		return nil, err
	}

	res.Cover = p.cover
	res.Tours = p.tours
	res.Hub = p.hub
	res.BalancerRounds = rounds
	res.FinalStdDev = p.energyStdDev()
	p.logf("plan complete: branch=%s tours=%d rounds=%d stddev=%.4f",
		res.Branch, len(res.Tours), rounds, res.FinalStdDev)
	return res, nil
}

// Model exposes the cost oracle the plan was priced with. Callers use it
// to break finished tours down into movement and communication shares.
func (p *Planner) Model() energy.Model {
	return p.model
}

// dominates reports whether b is below one fifth of a. A zero a never
// dominates.
func dominates(a, b float64) bool {
	if a == 0 {
		return false
	}
	return b/a < dominanceRatio
}

func (p *Planner) logf(format string, args ...interface{}) {
	p.logger.Printf("[Planner] "+format, args...)
}

// allTours returns the regular tours followed by the hub, the iteration
// order every selection loop uses.
func (p *Planner) allTours() []*cluster.Cluster {
	all := make([]*cluster.Cluster, 0, len(p.tours)+1)
	all = append(all, p.tours...)
	all = append(all, p.hub)
	return all
}

func (p *Planner) tourByID(id int) *cluster.Cluster {
	if p.hub != nil && p.hub.ID == id {
		return p.hub
	}
	for _, t := range p.tours {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (p *Planner) virtualByID(id int) *cluster.Cluster {
	for _, vc := range p.virtual {
		if vc.ID == id {
			return vc
		}
	}
	return nil
}

// energyStdDev is the population standard deviation of per-tour energy
// across the regular tours and the hub.
func (p *Planner) energyStdDev() float64 {
	all := p.allTours()
	energies := make([]float64, len(all))
	for i, c := range all {
		energies[i] = p.model.TotalEnergy(c.ID)
	}
	return stats.PopStdDev(energies)
}

// updateAnchors repoints every tour's anchor at the hub member cell
// nearest that tour. Called whenever hub membership changes.
func (p *Planner) updateAnchors() {
	for _, t := range p.tours {
		anchor, _, _ := cluster.NearestCells(p.hub.Cells, t.Cells)
		t.Anchor = anchor
	}
}

// The default energy model reads tour membership back through the planner.
var _ energy.Membership = (*Planner)(nil)

// CoverCells returns the working cover.
func (p *Planner) CoverCells() []*grid.Cell {
	return p.cover
}

// TourIDs lists the live tour ids, hub last.
func (p *Planner) TourIDs() []int {
	ids := make([]int, 0, len(p.tours)+1)
	for _, t := range p.tours {
		ids = append(ids, t.ID)
	}
	ids = append(ids, p.hub.ID)
	return ids
}

// TourCells returns the member cells of one tour.
func (p *Planner) TourCells(id int) []*grid.Cell {
	if t := p.tourByID(id); t != nil {
		return t.Cells
	}
	return nil
}

// TourAnchor returns a regular tour's hub-side anchor, nil for the hub.
func (p *Planner) TourAnchor(id int) *grid.Cell {
	if id == p.hub.ID {
		return nil
	}
	if t := p.tourByID(id); t != nil {
		return t.Anchor
	}
	return nil
}
