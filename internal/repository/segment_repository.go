package repository

import (
	"database/sql"
	"fmt"

	"github.com/avewell/fieldtours-backend-go/internal/database"
	"github.com/avewell/fieldtours-backend-go/internal/models"
)

// SegmentRepository handles database operations for mission segments
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// CreateBatch inserts all segments of a mission in one transaction
func (r *SegmentRepository) CreateBatch(missionID int64, segments []models.Segment) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO segments (mission_id, x, y) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare segment insert: %w", err)
		}
		defer stmt.Close()

		for _, seg := range segments {
			if _, err := stmt.Exec(missionID, seg.X, seg.Y); err != nil {
				return fmt.Errorf("failed to insert segment: %w", err)
			}
		}
		return nil
	})
}

// ListByMission retrieves all segments for a mission in insertion order
func (r *SegmentRepository) ListByMission(missionID int64) ([]*models.Segment, error) {
	query := `
		SELECT id, mission_id, x, y, created_at
		FROM segments
		WHERE mission_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	defer rows.Close()

	var segments []*models.Segment
	for rows.Next() {
		seg := &models.Segment{}
		err := rows.Scan(&seg.ID, &seg.MissionID, &seg.X, &seg.Y, &seg.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

// CountByMission counts the segments of a mission
func (r *SegmentRepository) CountByMission(missionID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM segments WHERE mission_id = ?`, missionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count segments: %w", err)
	}
	return count, nil
}
