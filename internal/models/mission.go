package models

import "time"

// Mission represents a named sensor field to plan collection tours over
type Mission struct {
	ID       int64  `json:"id" db:"id"`
	PublicID string `json:"public_id" db:"public_id"` // UUID exposed by the API

	Name string `json:"name" db:"name"`

	// Field geometry (metres)
	WidthMeters           float64 `json:"width_m" db:"width_m"`
	HeightMeters          float64 `json:"height_m" db:"height_m"`
	CellSideMeters        float64 `json:"cell_side_m" db:"cell_side_m"`
	CollectionRangeMeters float64 `json:"collection_range_m" db:"collection_range_m"`

	// Derived
	SegmentCount int `json:"segment_count" db:"segment_count"`

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
