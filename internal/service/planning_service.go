package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/avewell/fieldtours-backend-go/internal/cluster"
	"github.com/avewell/fieldtours-backend-go/internal/energy"
	"github.com/avewell/fieldtours-backend-go/internal/grid"
	"github.com/avewell/fieldtours-backend-go/internal/models"
	"github.com/avewell/fieldtours-backend-go/internal/planner"
	"github.com/avewell/fieldtours-backend-go/internal/repository"
	"github.com/avewell/fieldtours-backend-go/internal/stats"
)

// PlanningService handles business logic for planning runs
type PlanningService struct {
	missions *repository.MissionRepository
	segments *repository.SegmentRepository
	runs     *repository.PlanningRunRepository
	tours    *repository.TourRepository
	energy   energy.Params

	// sync forces the worker to run inline. Tests flip this to observe a
	// finished run without polling.
	sync bool
}

// NewPlanningService creates a new planning service
func NewPlanningService(
	missions *repository.MissionRepository,
	segments *repository.SegmentRepository,
	runs *repository.PlanningRunRepository,
	tours *repository.TourRepository,
	energyParams energy.Params,
) *PlanningService {
	return &PlanningService{
		missions: missions,
		segments: segments,
		runs:     runs,
		tours:    tours,
		energy:   energyParams,
	}
}

// CreateRun inserts a pending run for the mission and hands it to the
// background worker. The returned run is still pending.
func (s *PlanningService) CreateRun(missionPublicID string, agentCount int) (*models.PlanningRun, error) {
	mission, err := s.missions.GetByPublicID(missionPublicID)
	if err != nil {
		return nil, err
	}
	if agentCount < 2 {
		return nil, fmt.Errorf("at least 2 agents required, got %d", agentCount)
	}

	run := &models.PlanningRun{
		PublicID:   uuid.New().String(),
		MissionID:  mission.ID,
		AgentCount: agentCount,
		Status:     models.RunStatusPending,
	}
	if err := s.runs.Create(run); err != nil {
		return nil, err
	}

	if s.sync {
		s.executePlanningRun(run.ID, mission, agentCount)
	} else {
		go s.executePlanningRun(run.ID, mission, agentCount)
	}
	return run, nil
}

// executePlanningRun drives one run from pending to completed or failed.
// Each run owns all of its planning state; runs for different missions
// may execute concurrently without sharing anything.
func (s *PlanningService) executePlanningRun(runID int64, mission *models.Mission, agentCount int) {
	log.Printf("[PlanningRun] starting run %d for mission %s (%d agents)", runID, mission.PublicID, agentCount)

	if err := s.runs.MarkAsRunning(runID); err != nil {
		log.Printf("[PlanningRun] run %d: %v", runID, err)
		return
	}

	result, model, err := s.planMission(mission, agentCount)
	if err != nil {
		log.Printf("[PlanningRun] run %d failed: %v", runID, err)
		if markErr := s.runs.MarkAsFailed(runID, err.Error()); markErr != nil {
			log.Printf("[PlanningRun] run %d: %v", runID, markErr)
		}
		return
	}

	if err := s.tours.CreateForRun(runID, buildTourRows(result, model)); err != nil {
		log.Printf("[PlanningRun] run %d failed: %v", runID, err)
		if markErr := s.runs.MarkAsFailed(runID, err.Error()); markErr != nil {
			log.Printf("[PlanningRun] run %d: %v", runID, markErr)
		}
		return
	}

	summary := &models.PlanningRun{
		Branch:                string(result.Branch),
		CoverSize:             len(result.Cover),
		InitialMovementEnergy: result.InitialMovementEnergy,
		InitialCommsEnergy:    result.InitialCommsEnergy,
		FinalEnergyStdDev:     result.FinalStdDev,
		BalancerRounds:        result.BalancerRounds,
	}
	if err := s.runs.MarkAsCompleted(runID, summary); err != nil {
		log.Printf("[PlanningRun] run %d: %v", runID, err)
		return
	}

	log.Printf("[PlanningRun] run %d completed: branch=%s tours=%d stddev=%.4f",
		runID, result.Branch, len(result.Tours)+1, result.FinalStdDev)
}

// planMission loads a mission's field and runs the planner over it.
func (s *PlanningService) planMission(mission *models.Mission, agentCount int) (*planner.Result, *energy.FieldModel, error) {
	segments, err := s.segments.ListByMission(mission.ID)
	if err != nil {
		return nil, nil, err
	}

	g, err := grid.New(SegmentPoints(segments), grid.Params{
		WidthMeters:           mission.WidthMeters,
		HeightMeters:          mission.HeightMeters,
		CellSideMeters:        mission.CellSideMeters,
		CollectionRangeMeters: mission.CollectionRangeMeters,
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := planner.New(g, planner.Options{AgentCount: agentCount, Energy: s.energy})
	if err != nil {
		return nil, nil, err
	}

	result, err := p.Plan()
	if err != nil {
		return nil, nil, err
	}

	// The planner built the default field model from our params, so the
	// per-tour movement/comms breakdown is always available here.
	model := p.Model().(*energy.FieldModel)
	return result, model, nil
}

// buildTourRows flattens a plan into persistable tour and cell rows,
// regular tours first and the hub last.
func buildTourRows(result *planner.Result, model *energy.FieldModel) []*models.Tour {
	rows := make([]*models.Tour, 0, len(result.Tours)+1)
	for _, tour := range result.Tours {
		rows = append(rows, tourRow(tour.ID, false, tourCells(tour), model))
	}
	rows = append(rows, tourRow(result.Hub.ID, true, tourCells(result.Hub), model))
	return rows
}

// tourCells projects a cluster's member cells into rows, keeping the
// assignment order.
func tourCells(c *cluster.Cluster) []models.TourCell {
	cells := make([]models.TourCell, len(c.Cells))
	for i, cell := range c.Cells {
		cells[i] = models.TourCell{
			Row:      cell.Row,
			Col:      cell.Col,
			X:        cell.Location.X,
			Y:        cell.Location.Y,
			Position: i,
		}
	}
	return cells
}

func tourRow(id int, isHub bool, cells []models.TourCell, model *energy.FieldModel) *models.Tour {
	movement := model.MovementEnergy(id)
	comms := model.CommsEnergy(id)
	return &models.Tour{
		TourIndex:      id,
		IsHub:          isHub,
		CellCount:      len(cells),
		MovementEnergy: movement,
		CommsEnergy:    comms,
		TotalEnergy:    movement + comms,
		Cells:          cells,
	}
}

// GetRun retrieves a run by public UUID
func (s *PlanningService) GetRun(publicID string) (*models.PlanningRun, error) {
	return s.runs.GetByPublicID(publicID)
}

// ListRuns retrieves a mission's runs by mission public UUID
func (s *PlanningService) ListRuns(missionPublicID string, limit int, offset int) ([]*models.PlanningRun, error) {
	mission, err := s.missions.GetByPublicID(missionPublicID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.runs.ListByMission(mission.ID, limit, offset)
}

// GetTours retrieves a completed run's tours with member cells
func (s *PlanningService) GetTours(runPublicID string) ([]*models.Tour, error) {
	run, err := s.runs.GetByPublicID(runPublicID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, fmt.Errorf("run %s is %s, not completed", runPublicID, run.Status)
	}
	return s.tours.ListByRunWithCells(run.ID)
}

// EnergyReport summarizes per-tour energy for a completed run. CV is the
// coefficient of variation of per-tour totals, a scale-free balance figure.
type EnergyReport struct {
	Run         *models.PlanningRun     `json:"run"`
	Tours       []*models.Tour          `json:"tours"`
	TotalEnergy float64                 `json:"total_energy"`
	Summary     stats.FiveNumberSummary `json:"summary"`
	StdDev      float64                 `json:"stddev"`
	CV          float64                 `json:"cv"`
}

// GetEnergy builds the per-tour energy report for a completed run
func (s *PlanningService) GetEnergy(runPublicID string) (*EnergyReport, error) {
	run, err := s.runs.GetByPublicID(runPublicID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, fmt.Errorf("run %s is %s, not completed", runPublicID, run.Status)
	}

	tours, err := s.tours.ListByRun(run.ID)
	if err != nil {
		return nil, err
	}

	totals := make([]float64, len(tours))
	for i, tour := range tours {
		totals[i] = tour.TotalEnergy
	}

	return &EnergyReport{
		Run:         run,
		Tours:       tours,
		TotalEnergy: stats.Sum(totals),
		Summary:     stats.Summarize(totals),
		StdDev:      stats.PopStdDev(totals),
		CV:          stats.CoefficientOfVariation(totals),
	}, nil
}
