package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avewell/fieldtours-backend-go/internal/models"
)

// PlanningRunRepository handles database operations for planning runs
type PlanningRunRepository struct {
	db *sql.DB
}

// NewPlanningRunRepository creates a new planning run repository
func NewPlanningRunRepository(db *sql.DB) *PlanningRunRepository {
	return &PlanningRunRepository{db: db}
}

// Create creates a new planning run in pending state
func (r *PlanningRunRepository) Create(run *models.PlanningRun) error {
	query := `
		INSERT INTO planning_runs (public_id, mission_id, agent_count, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, run.PublicID, run.MissionID, run.AgentCount, run.Status)
	if err != nil {
		return fmt.Errorf("failed to create planning run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

const runColumns = `
	id, public_id, mission_id, agent_count, status, branch, cover_size,
	initial_movement_energy, initial_comms_energy, final_energy_stddev,
	balancer_rounds, error_message, start_time, end_time, created_at, updated_at
`

func scanRun(row rowScanner) (*models.PlanningRun, error) {
	run := &models.PlanningRun{}
	err := row.Scan(
		&run.ID,
		&run.PublicID,
		&run.MissionID,
		&run.AgentCount,
		&run.Status,
		&run.Branch,
		&run.CoverSize,
		&run.InitialMovementEnergy,
		&run.InitialCommsEnergy,
		&run.FinalEnergyStdDev,
		&run.BalancerRounds,
		&run.ErrorMessage,
		&run.StartTime,
		&run.EndTime,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetByID retrieves a planning run by internal ID
func (r *PlanningRunRepository) GetByID(id int64) (*models.PlanningRun, error) {
	query := `SELECT ` + runColumns + ` FROM planning_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("planning run not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planning run: %w", err)
	}

	return run, nil
}

// GetByPublicID retrieves a planning run by its public UUID
func (r *PlanningRunRepository) GetByPublicID(publicID string) (*models.PlanningRun, error) {
	query := `SELECT ` + runColumns + ` FROM planning_runs WHERE public_id = ?`

	run, err := scanRun(r.db.QueryRow(query, publicID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("planning run not found: %s", publicID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planning run: %w", err)
	}

	return run, nil
}

// ListByMission retrieves planning runs for a mission, newest first
func (r *PlanningRunRepository) ListByMission(missionID int64, limit int, offset int) ([]*models.PlanningRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM planning_runs
		WHERE mission_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, missionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list planning runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.PlanningRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planning run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// MarkAsRunning marks a run as running
func (r *PlanningRunRepository) MarkAsRunning(id int64) error {
	now := time.Now().Unix()
	query := `
		UPDATE planning_runs
		SET status = ?, start_time = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusRunning, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark run as running: %w", err)
	}

	return nil
}

// MarkAsCompleted marks a run as completed and stores the plan figures
func (r *PlanningRunRepository) MarkAsCompleted(id int64, run *models.PlanningRun) error {
	now := time.Now().Unix()
	query := `
		UPDATE planning_runs
		SET status = ?, branch = ?, cover_size = ?,
			initial_movement_energy = ?, initial_comms_energy = ?,
			final_energy_stddev = ?, balancer_rounds = ?,
			end_time = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		models.RunStatusCompleted,
		run.Branch,
		run.CoverSize,
		run.InitialMovementEnergy,
		run.InitialCommsEnergy,
		run.FinalEnergyStdDev,
		run.BalancerRounds,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark run as completed: %w", err)
	}

	return nil
}

// MarkAsFailed marks a run as failed with an error message
func (r *PlanningRunRepository) MarkAsFailed(id int64, errorMessage string) error {
	now := time.Now().Unix()
	query := `
		UPDATE planning_runs
		SET status = ?, end_time = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.Exec(query, models.RunStatusFailed, now, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark run as failed: %w", err)
	}

	return nil
}
