package config

import (
	"os"
	"strconv"

	"github.com/avewell/fieldtours-backend-go/internal/energy"
	"github.com/avewell/fieldtours-backend-go/internal/models"
)

// Config carries the deployment settings for the API server.
type Config struct {
	Port          string
	DBPath        string
	JWTSecret     string
	AdminUser     string
	AdminPassword string

	// RateLimitPerMin caps API requests per client IP per minute.
	RateLimitPerMin int

	// SegmentCount seeds generated missions that do not supply explicit
	// segment positions.
	SegmentCount int

	// Plan holds the default field geometry, fleet size and energy
	// constants. API requests and CLI flags override these per run.
	Plan models.PlanParams
}

// Load reads the configuration from environment variables, falling back
// to development defaults.
func Load() *Config {
	return &Config{
		Port:            envStr("PORT", ":8080"),
		DBPath:          envStr("DB_PATH", "./data/fieldtours.db"),
		JWTSecret:       envStr("JWT_SECRET", "your-secret-key-change-in-production"),
		AdminUser:       envStr("ADMIN_USER", "admin"),
		AdminPassword:   envStr("ADMIN_PASSWORD", "admin"),
		RateLimitPerMin: envInt("RATE_LIMIT_PER_MIN", 120),
		SegmentCount:    envInt("SEGMENT_COUNT", 40),
		Plan: models.PlanParams{
			WidthMeters:           envFloat("FIELD_WIDTH_M", 600),
			HeightMeters:          envFloat("FIELD_HEIGHT_M", 600),
			CellSideMeters:        envFloat("CELL_SIDE_M", 30),
			CollectionRangeMeters: envFloat("COLLECTION_RANGE_M", 30),
			AgentCount:            envInt("AGENT_COUNT", 4),
			MoveJPerMeter:         envFloat("MOVE_J_PER_M", 1.0),
			ElecJPerBit:           envFloat("ELEC_J_PER_BIT", 50e-9),
			AmpJPerBitM2:          envFloat("AMP_J_PER_BIT_M2", 100e-12),
			SegmentPayloadBits:    envFloat("SEGMENT_PAYLOAD_BITS", 1e8),
		},
	}
}

// EnergyParams projects the configured energy constants into the cost
// model's parameter struct.
func (c *Config) EnergyParams() energy.Params {
	return energy.Params{
		MoveJPerMeter:      c.Plan.MoveJPerMeter,
		ElecJPerBit:        c.Plan.ElecJPerBit,
		AmpJPerBitM2:       c.Plan.AmpJPerBitM2,
		SegmentPayloadBits: c.Plan.SegmentPayloadBits,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
