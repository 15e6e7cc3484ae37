package service

import (
	"fmt"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/avewell/fieldtours-backend-go/internal/grid"
	"github.com/avewell/fieldtours-backend-go/internal/models"
	"github.com/avewell/fieldtours-backend-go/internal/repository"
)

// MissionService handles business logic for missions
type MissionService struct {
	missions *repository.MissionRepository
	segments *repository.SegmentRepository
}

// NewMissionService creates a new mission service
func NewMissionService(missions *repository.MissionRepository, segments *repository.SegmentRepository) *MissionService {
	return &MissionService{missions: missions, segments: segments}
}

// CreateMissionInput carries a mission creation request. Explicit
// segments win over generation; with neither the request is rejected.
type CreateMissionInput struct {
	Name                  string
	WidthMeters           float64
	HeightMeters          float64
	CellSideMeters        float64
	CollectionRangeMeters float64

	Segments      []models.Segment
	GenerateCount int
	Seed          int64
}

// CreateMission validates the field geometry, materializes the segment
// set and persists both.
func (s *MissionService) CreateMission(in CreateMissionInput) (*models.Mission, error) {
	params := grid.Params{
		WidthMeters:           in.WidthMeters,
		HeightMeters:          in.HeightMeters,
		CellSideMeters:        in.CellSideMeters,
		CollectionRangeMeters: in.CollectionRangeMeters,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	segments := in.Segments
	if len(segments) == 0 {
		if in.GenerateCount <= 0 {
			return nil, fmt.Errorf("mission needs explicit segments or a positive generate_count")
		}
		segments = GenerateSegments(in.GenerateCount, in.WidthMeters, in.HeightMeters, in.Seed)
	}
	for _, seg := range segments {
		if seg.X < 0 || seg.X > in.WidthMeters || seg.Y < 0 || seg.Y > in.HeightMeters {
			return nil, fmt.Errorf("segment (%.1f, %.1f) lies outside the field", seg.X, seg.Y)
		}
	}

	mission := &models.Mission{
		PublicID:              uuid.New().String(),
		Name:                  in.Name,
		WidthMeters:           in.WidthMeters,
		HeightMeters:          in.HeightMeters,
		CellSideMeters:        in.CellSideMeters,
		CollectionRangeMeters: in.CollectionRangeMeters,
	}
	if mission.Name == "" {
		mission.Name = "mission-" + mission.PublicID[:8]
	}

	if err := s.missions.Create(mission); err != nil {
		return nil, err
	}
	if err := s.segments.CreateBatch(mission.ID, segments); err != nil {
		return nil, fmt.Errorf("failed to store segments: %w", err)
	}
	mission.SegmentCount = len(segments)

	return mission, nil
}

// GetMission retrieves a mission by public UUID
func (s *MissionService) GetMission(publicID string) (*models.Mission, error) {
	return s.missions.GetByPublicID(publicID)
}

// ListMissions retrieves missions, newest first
func (s *MissionService) ListMissions(limit int, offset int) ([]*models.Mission, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.missions.List(limit, offset)
}

// GetSegments retrieves a mission's segments by mission public UUID
func (s *MissionService) GetSegments(publicID string) ([]*models.Segment, error) {
	mission, err := s.missions.GetByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	return s.segments.ListByMission(mission.ID)
}

// GenerateSegments scatters count segments uniformly over a width x
// height field. The same seed reproduces the same field.
func GenerateSegments(count int, width, height float64, seed int64) []models.Segment {
	rng := rand.New(rand.NewSource(seed))
	segments := make([]models.Segment, count)
	for i := range segments {
		segments[i] = models.Segment{
			X: rng.Float64() * width,
			Y: rng.Float64() * height,
		}
	}
	return segments
}

// SegmentPoints converts segment rows into the planar points the grid
// builder consumes.
func SegmentPoints(segments []*models.Segment) []r2.Point {
	points := make([]r2.Point, len(segments))
	for i, seg := range segments {
		points[i] = r2.Point{X: seg.X, Y: seg.Y}
	}
	return points
}
