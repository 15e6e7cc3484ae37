package models

import "time"

// PlanningRun represents one asynchronous tour-planning execution over a
// mission's segment field
type PlanningRun struct {
	ID        int64  `json:"id" db:"id"`
	PublicID  string `json:"public_id" db:"public_id"` // UUID exposed by the API
	MissionID int64  `json:"mission_id" db:"mission_id"`

	// Input
	AgentCount int `json:"agent_count" db:"agent_count"`

	// Status
	Status string `json:"status" db:"status"` // pending, running, completed, failed
	Branch string `json:"branch,omitempty" db:"branch"`

	// Results
	CoverSize             int     `json:"cover_size" db:"cover_size"`
	InitialMovementEnergy float64 `json:"initial_movement_energy" db:"initial_movement_energy"`
	InitialCommsEnergy    float64 `json:"initial_comms_energy" db:"initial_comms_energy"`
	FinalEnergyStdDev     float64 `json:"final_energy_stddev" db:"final_energy_stddev"`
	BalancerRounds        int     `json:"balancer_rounds" db:"balancer_rounds"`
	ErrorMessage          string  `json:"error_message,omitempty" db:"error_message"`

	// Execution info
	StartTime int64 `json:"start_time,omitempty" db:"start_time"` // Unix timestamp
	EndTime   int64 `json:"end_time,omitempty" db:"end_time"`     // Unix timestamp

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RunStatus constants
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
