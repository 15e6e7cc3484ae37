package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avewell/fieldtours-backend-go/internal/models"
	"github.com/avewell/fieldtours-backend-go/internal/planner"
)

func TestCreateRunCompletesPlan(t *testing.T) {
	t.Parallel()
	s := newTestServices(t)
	mission := createFourCornerMission(t, s.missions)

	created, err := s.planning.CreateRun(mission.PublicID, 3)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusPending, created.Status, "CreateRun returns the run as inserted")

	run, err := s.planning.GetRun(created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, string(planner.BranchBalanced), run.Branch)
	assert.Equal(t, 4, run.CoverSize)
	assert.InDelta(t, 369.879, run.InitialMovementEnergy, 0.01)
	assert.InDelta(t, 800.0, run.InitialCommsEnergy, 1e-6)
	assert.GreaterOrEqual(t, run.BalancerRounds, 1)
	assert.GreaterOrEqual(t, run.FinalEnergyStdDev, 0.0)
	assert.Empty(t, run.ErrorMessage)
	assert.Greater(t, run.StartTime, int64(0))
	assert.GreaterOrEqual(t, run.EndTime, run.StartTime)

	tours, err := s.planning.GetTours(created.PublicID)
	require.NoError(t, err)
	require.Len(t, tours, 3, "two tours plus the hub")

	totalCells := 0
	for i, tour := range tours {
		assert.Equal(t, i, tour.TourIndex)
		assert.Greater(t, tour.RunID, int64(0))
		assert.Len(t, tour.Cells, tour.CellCount)
		assert.InDelta(t, tour.MovementEnergy+tour.CommsEnergy, tour.TotalEnergy, 1e-9)
		for pos, cell := range tour.Cells {
			assert.Equal(t, pos, cell.Position)
		}
		totalCells += tour.CellCount
	}
	assert.False(t, tours[0].IsHub)
	assert.False(t, tours[1].IsHub)
	assert.True(t, tours[2].IsHub, "hub carries the highest tour index")
	assert.Equal(t, 4, totalCells, "every cover cell lands in exactly one tour")
}

func TestCreateRunValidation(t *testing.T) {
	t.Parallel()
	s := newTestServices(t)
	mission := createFourCornerMission(t, s.missions)

	t.Run("too few agents", func(t *testing.T) {
		_, err := s.planning.CreateRun(mission.PublicID, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 2 agents")

		runs, listErr := s.planning.ListRuns(mission.PublicID, 0, 0)
		require.NoError(t, listErr)
		assert.Empty(t, runs, "rejected requests leave no run behind")
	})

	t.Run("unknown mission", func(t *testing.T) {
		_, err := s.planning.CreateRun("no-such-mission", 3)
		require.Error(t, err)
	})
}

func TestCreateRunMarksFailureWhenCoverTooSmall(t *testing.T) {
	t.Parallel()
	s := newTestServices(t)
	mission := createFourCornerMission(t, s.missions)

	// Four cover cells cannot support ten agents, so the worker must
	// record the planner's refusal on the run row.
	created, err := s.planning.CreateRun(mission.PublicID, 10)
	require.NoError(t, err)

	run, err := s.planning.GetRun(created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "insufficient cover")
	assert.Greater(t, run.EndTime, int64(0))

	_, err = s.planning.GetTours(created.PublicID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not completed")

	_, err = s.planning.GetEnergy(created.PublicID)
	require.Error(t, err)
}

func TestListRuns(t *testing.T) {
	t.Parallel()
	s := newTestServices(t)
	mission := createFourCornerMission(t, s.missions)

	first, err := s.planning.CreateRun(mission.PublicID, 2)
	require.NoError(t, err)
	second, err := s.planning.CreateRun(mission.PublicID, 3)
	require.NoError(t, err)

	runs, err := s.planning.ListRuns(mission.PublicID, 0, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.PublicID, runs[0].PublicID, "newest run first")
	assert.Equal(t, first.PublicID, runs[1].PublicID)
}

func TestGetEnergyReport(t *testing.T) {
	t.Parallel()
	s := newTestServices(t)
	mission := createFourCornerMission(t, s.missions)

	created, err := s.planning.CreateRun(mission.PublicID, 3)
	require.NoError(t, err)

	report, err := s.planning.GetEnergy(created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, created.PublicID, report.Run.PublicID)
	require.Len(t, report.Tours, 3)

	assert.LessOrEqual(t, report.Summary.Min, report.Summary.Median)
	assert.LessOrEqual(t, report.Summary.Median, report.Summary.Max)
	assert.InDelta(t, report.Run.FinalEnergyStdDev, report.StdDev, 1e-6,
		"persisted spread must match the one recomputed from tour rows")

	var total float64
	for _, tour := range report.Tours {
		total += tour.TotalEnergy
	}
	assert.InDelta(t, total, report.TotalEnergy, 1e-9)
	assert.Greater(t, report.CV, 0.0)
}
