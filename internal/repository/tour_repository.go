package repository

import (
	"database/sql"
	"fmt"

	"github.com/avewell/fieldtours-backend-go/internal/database"
	"github.com/avewell/fieldtours-backend-go/internal/models"
)

// TourRepository handles database operations for planned tours
type TourRepository struct {
	db *sql.DB
}

// NewTourRepository creates a new tour repository
func NewTourRepository(db *sql.DB) *TourRepository {
	return &TourRepository{db: db}
}

// CreateForRun inserts a run's tours and their member cells in one
// transaction. Tour and cell IDs are filled in on success.
func (r *TourRepository) CreateForRun(runID int64, tours []*models.Tour) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		tourStmt, err := tx.Prepare(`
			INSERT INTO tours (
				run_id, tour_index, is_hub, cell_count,
				movement_energy, comms_energy, total_energy
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare tour insert: %w", err)
		}
		defer tourStmt.Close()

		cellStmt, err := tx.Prepare(`
			INSERT INTO tour_cells (tour_id, cell_row, cell_col, x, y, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare tour cell insert: %w", err)
		}
		defer cellStmt.Close()

		for _, tour := range tours {
			result, err := tourStmt.Exec(
				runID,
				tour.TourIndex,
				tour.IsHub,
				tour.CellCount,
				tour.MovementEnergy,
				tour.CommsEnergy,
				tour.TotalEnergy,
			)
			if err != nil {
				return fmt.Errorf("failed to insert tour %d: %w", tour.TourIndex, err)
			}

			tourID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get last insert id: %w", err)
			}
			tour.ID = tourID
			tour.RunID = runID

			for i := range tour.Cells {
				cell := &tour.Cells[i]
				cellResult, err := cellStmt.Exec(tourID, cell.Row, cell.Col, cell.X, cell.Y, cell.Position)
				if err != nil {
					return fmt.Errorf("failed to insert tour cell: %w", err)
				}
				cellID, err := cellResult.LastInsertId()
				if err != nil {
					return fmt.Errorf("failed to get last insert id: %w", err)
				}
				cell.ID = cellID
				cell.TourID = tourID
			}
		}
		return nil
	})
}

// ListByRun retrieves a run's tours ordered by tour index, without cells
func (r *TourRepository) ListByRun(runID int64) ([]*models.Tour, error) {
	query := `
		SELECT id, run_id, tour_index, is_hub, cell_count,
			   movement_energy, comms_energy, total_energy
		FROM tours
		WHERE run_id = ?
		ORDER BY tour_index
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	defer rows.Close()

	var tours []*models.Tour
	for rows.Next() {
		tour := &models.Tour{}
		err := rows.Scan(
			&tour.ID,
			&tour.RunID,
			&tour.TourIndex,
			&tour.IsHub,
			&tour.CellCount,
			&tour.MovementEnergy,
			&tour.CommsEnergy,
			&tour.TotalEnergy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		tours = append(tours, tour)
	}

	return tours, nil
}

// GetCells retrieves a tour's member cells in assignment order
func (r *TourRepository) GetCells(tourID int64) ([]models.TourCell, error) {
	query := `
		SELECT id, tour_id, cell_row, cell_col, x, y, position
		FROM tour_cells
		WHERE tour_id = ?
		ORDER BY position
	`

	rows, err := r.db.Query(query, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tour cells: %w", err)
	}
	defer rows.Close()

	var cells []models.TourCell
	for rows.Next() {
		var cell models.TourCell
		err := rows.Scan(&cell.ID, &cell.TourID, &cell.Row, &cell.Col, &cell.X, &cell.Y, &cell.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tour cell: %w", err)
		}
		cells = append(cells, cell)
	}

	return cells, nil
}

// ListByRunWithCells retrieves a run's tours with member cells populated
func (r *TourRepository) ListByRunWithCells(runID int64) ([]*models.Tour, error) {
	tours, err := r.ListByRun(runID)
	if err != nil {
		return nil, err
	}

	for _, tour := range tours {
		cells, err := r.GetCells(tour.ID)
		if err != nil {
			return nil, err
		}
		tour.Cells = cells
	}

	return tours, nil
}
