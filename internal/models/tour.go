package models

// Tour represents one agent's planned collection tour within a run
type Tour struct {
	ID    int64 `json:"id" db:"id"`
	RunID int64 `json:"run_id" db:"run_id"`

	TourIndex int  `json:"tour_index" db:"tour_index"` // 0..agentCount-1, hub last
	IsHub     bool `json:"is_hub" db:"is_hub"`

	CellCount      int     `json:"cell_count" db:"cell_count"`
	MovementEnergy float64 `json:"movement_energy" db:"movement_energy"`
	CommsEnergy    float64 `json:"comms_energy" db:"comms_energy"`
	TotalEnergy    float64 `json:"total_energy" db:"total_energy"`

	// Member cells in assignment order; populated on detail queries only.
	Cells []TourCell `json:"cells,omitempty" db:"-"`
}

// TourCell represents one grid cell assigned to a tour
type TourCell struct {
	ID     int64 `json:"id" db:"id"`
	TourID int64 `json:"tour_id" db:"tour_id"`

	Row int `json:"row" db:"cell_row"`
	Col int `json:"col" db:"cell_col"`

	// Cell centre (metres)
	X float64 `json:"x" db:"x"`
	Y float64 `json:"y" db:"y"`

	Position int `json:"position" db:"position"` // assignment order within the tour
}
