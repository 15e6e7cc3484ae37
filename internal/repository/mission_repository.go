package repository

import (
	"database/sql"
	"fmt"

	"github.com/avewell/fieldtours-backend-go/internal/models"
)

// MissionRepository handles database operations for missions
type MissionRepository struct {
	db *sql.DB
}

// NewMissionRepository creates a new mission repository
func NewMissionRepository(db *sql.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// Create creates a new mission
func (r *MissionRepository) Create(mission *models.Mission) error {
	query := `
		INSERT INTO missions (
			public_id, name, width_m, height_m, cell_side_m, collection_range_m
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		mission.PublicID,
		mission.Name,
		mission.WidthMeters,
		mission.HeightMeters,
		mission.CellSideMeters,
		mission.CollectionRangeMeters,
	)
	if err != nil {
		return fmt.Errorf("failed to create mission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	mission.ID = id
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const missionColumns = `
	m.id, m.public_id, m.name, m.width_m, m.height_m, m.cell_side_m,
	m.collection_range_m,
	(SELECT COUNT(*) FROM segments s WHERE s.mission_id = m.id) AS segment_count,
	m.created_at, m.updated_at
`

func scanMission(row rowScanner) (*models.Mission, error) {
	mission := &models.Mission{}
	err := row.Scan(
		&mission.ID,
		&mission.PublicID,
		&mission.Name,
		&mission.WidthMeters,
		&mission.HeightMeters,
		&mission.CellSideMeters,
		&mission.CollectionRangeMeters,
		&mission.SegmentCount,
		&mission.CreatedAt,
		&mission.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return mission, nil
}

// GetByID retrieves a mission by internal ID
func (r *MissionRepository) GetByID(id int64) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions m WHERE m.id = ?`

	mission, err := scanMission(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mission not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}

	return mission, nil
}

// GetByPublicID retrieves a mission by its public UUID
func (r *MissionRepository) GetByPublicID(publicID string) (*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions m WHERE m.public_id = ?`

	mission, err := scanMission(r.db.QueryRow(query, publicID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mission not found: %s", publicID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}

	return mission, nil
}

// List retrieves missions ordered by creation time, newest first
func (r *MissionRepository) List(limit int, offset int) ([]*models.Mission, error) {
	query := `
		SELECT ` + missionColumns + `
		FROM missions m
		ORDER BY m.created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []*models.Mission
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, mission)
	}

	return missions, nil
}
