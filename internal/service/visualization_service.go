package service

import (
	"fmt"
	"io"

	"github.com/golang/geo/r2"

	"github.com/avewell/fieldtours-backend-go/internal/models"
	"github.com/avewell/fieldtours-backend-go/internal/render"
	"github.com/avewell/fieldtours-backend-go/internal/repository"
)

// VisualizationService assembles frontend-ready geometry for finished runs
// and drives the map and report renderers.
type VisualizationService struct {
	missions *repository.MissionRepository
	segments *repository.SegmentRepository
	runs     *repository.PlanningRunRepository
	tours    *repository.TourRepository
}

// NewVisualizationService creates a new visualization service
func NewVisualizationService(
	missions *repository.MissionRepository,
	segments *repository.SegmentRepository,
	runs *repository.PlanningRunRepository,
	tours *repository.TourRepository,
) *VisualizationService {
	return &VisualizationService{missions: missions, segments: segments, runs: runs, tours: tours}
}

// TourGeometry is everything a map view needs to draw one finished run.
type TourGeometry struct {
	Run      *models.PlanningRun `json:"run"`
	Mission  *models.Mission     `json:"mission"`
	Segments []*models.Segment   `json:"segments"`
	Tours    []*models.Tour      `json:"tours"`
}

// GetTourGeometry retrieves the field, segments and tours of a completed run
func (s *VisualizationService) GetTourGeometry(runPublicID string) (*TourGeometry, error) {
	return s.load(runPublicID)
}

func (s *VisualizationService) load(runPublicID string) (*TourGeometry, error) {
	run, err := s.runs.GetByPublicID(runPublicID)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusCompleted {
		return nil, fmt.Errorf("run %s is %s, not completed", runPublicID, run.Status)
	}

	mission, err := s.missions.GetByID(run.MissionID)
	if err != nil {
		return nil, err
	}
	segments, err := s.segments.ListByMission(mission.ID)
	if err != nil {
		return nil, err
	}
	tours, err := s.tours.ListByRunWithCells(run.ID)
	if err != nil {
		return nil, err
	}

	return &TourGeometry{Run: run, Mission: mission, Segments: segments, Tours: tours}, nil
}

// WriteMapPNG renders a completed run's tour map as a PNG image
func (s *VisualizationService) WriteMapPNG(runPublicID string, w io.Writer) error {
	geo, err := s.load(runPublicID)
	if err != nil {
		return err
	}

	m := render.TourMap{
		Title:        fmt.Sprintf("%s relay tours", geo.Mission.Name),
		WidthMeters:  geo.Mission.WidthMeters,
		HeightMeters: geo.Mission.HeightMeters,
		Segments:     SegmentPoints(geo.Segments),
		Tours:        tourPaths(geo.Tours),
	}
	return m.WritePNG(w)
}

// WriteEnergyHTML renders a completed run's per-tour energy chart as HTML
func (s *VisualizationService) WriteEnergyHTML(runPublicID string, w io.Writer) error {
	geo, err := s.load(runPublicID)
	if err != nil {
		return err
	}

	rep := render.EnergyReport{
		Title:    fmt.Sprintf("%s energy", geo.Mission.Name),
		Subtitle: fmt.Sprintf("run %s, branch %s", geo.Run.PublicID, geo.Run.Branch),
		Tours:    tourEnergies(geo.Tours),
	}
	return rep.WriteHTML(w)
}

func tourPaths(tours []*models.Tour) []render.TourPath {
	paths := make([]render.TourPath, len(tours))
	for i, tour := range tours {
		cells := make([]r2.Point, len(tour.Cells))
		for j, cell := range tour.Cells {
			cells[j] = r2.Point{X: cell.X, Y: cell.Y}
		}
		paths[i] = render.TourPath{Label: tourLabel(tour), IsHub: tour.IsHub, Cells: cells}
	}
	return paths
}

func tourEnergies(tours []*models.Tour) []render.TourEnergy {
	energies := make([]render.TourEnergy, len(tours))
	for i, tour := range tours {
		energies[i] = render.TourEnergy{
			Label:    tourLabel(tour),
			Movement: tour.MovementEnergy,
			Comms:    tour.CommsEnergy,
		}
	}
	return energies
}

func tourLabel(tour *models.Tour) string {
	if tour.IsHub {
		return "hub"
	}
	return fmt.Sprintf("tour %d", tour.TourIndex)
}
