package models

import "time"

// Segment represents one stranded sensor segment inside a mission field.
// Positions are metres from the field's lower-left corner.
type Segment struct {
	ID        int64 `json:"id" db:"id"`
	MissionID int64 `json:"mission_id" db:"mission_id"`

	X float64 `json:"x" db:"x"`
	Y float64 `json:"y" db:"y"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
