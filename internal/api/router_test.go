package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avewell/fieldtours-backend-go/internal/config"
	"github.com/avewell/fieldtours-backend-go/internal/database"
	"github.com/avewell/fieldtours-backend-go/internal/middleware"
	"github.com/avewell/fieldtours-backend-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AdminUser:       "admin",
		AdminPassword:   "planner",
		RateLimitPerMin: 100000,
		SegmentCount:    10,
		Plan: models.PlanParams{
			WidthMeters:           100,
			HeightMeters:          100,
			CellSideMeters:        10,
			CollectionRangeMeters: 10,
			AgentCount:            3,
			MoveJPerMeter:         1.0,
			ElecJPerBit:           5e-7,
			AmpJPerBitM2:          1e-8,
			SegmentPayloadBits:    1e8,
		},
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db, "../../migrations").RunMigrations())

	cfg := testConfig()
	return SetupRouter(cfg, db), cfg
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func login(t *testing.T, r *gin.Engine, cfg *config.Config) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": cfg.AdminUser,
		"password": cfg.AdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &data)
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createMission(t *testing.T, r *gin.Engine, token string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/missions", gin.H{
		"name": "four corners",
		"segments": []gin.H{
			{"x": 15, "y": 15},
			{"x": 85, "y": 15},
			{"x": 85, "y": 85},
			{"x": 15, "y": 85},
		},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var mission models.Mission
	decodeData(t, w, &mission)
	require.NotEmpty(t, mission.PublicID)
	return mission.PublicID
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "admin",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestAuthGuardsMutatingEndpoints(t *testing.T) {
	r, cfg := setupRouter(t)

	t.Run("missing token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/missions", gin.H{"name": "x"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing bearer token")
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/missions", gin.H{"name": "x"}, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with wrong secret", func(t *testing.T) {
		forged, err := middleware.IssueToken("other-secret", cfg.AdminUser)
		require.NoError(t, err)

		w := doJSON(t, r, http.MethodPost, "/api/v1/missions", gin.H{"name": "x"}, forged)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token admits", func(t *testing.T) {
		token := login(t, r, cfg)
		createMission(t, r, token)
	})
}

func TestMissionEndpoints(t *testing.T) {
	r, cfg := setupRouter(t)
	token := login(t, r, cfg)
	missionID := createMission(t, r, token)

	t.Run("get mission", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/missions/"+missionID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var mission models.Mission
		decodeData(t, w, &mission)
		assert.Equal(t, "four corners", mission.Name)
		assert.Equal(t, 4, mission.SegmentCount)
		assert.Equal(t, 100.0, mission.WidthMeters, "omitted geometry falls back to configured defaults")
	})

	t.Run("list missions", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/missions", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), missionID)
	})

	t.Run("get segments", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/missions/"+missionID+"/segments", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Segments []models.Segment `json:"segments"`
			Count    int              `json:"count"`
		}
		decodeData(t, w, &data)
		assert.Equal(t, 4, data.Count)
		require.Len(t, data.Segments, 4)
	})

	t.Run("unknown mission is 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/missions/no-such-mission", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPlanningRunFlow(t *testing.T) {
	r, cfg := setupRouter(t)
	token := login(t, r, cfg)
	missionID := createMission(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/v1/missions/"+missionID+"/runs", gin.H{"agent_count": 3}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var run models.PlanningRun
	decodeData(t, w, &run)
	require.NotEmpty(t, run.PublicID)
	assert.Equal(t, models.RunStatusPending, run.Status)

	// The worker runs in a goroutine; poll until it lands.
	require.Eventually(t, func() bool {
		resp := doJSON(t, r, http.MethodGet, "/api/v1/runs/"+run.PublicID, nil, "")
		if resp.Code != http.StatusOK {
			return false
		}
		var env envelope
		if json.Unmarshal(resp.Body.Bytes(), &env) != nil {
			return false
		}
		var got models.PlanningRun
		if json.Unmarshal(env.Data, &got) != nil {
			return false
		}
		return got.Status == models.RunStatusCompleted || got.Status == models.RunStatusFailed
	}, 10*time.Second, 25*time.Millisecond)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/runs/"+run.PublicID, nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var finished models.PlanningRun
	decodeData(t, resp, &finished)
	require.Equal(t, models.RunStatusCompleted, finished.Status)
	assert.Equal(t, "balanced", finished.Branch)
	assert.Equal(t, 4, finished.CoverSize)

	t.Run("tours", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/runs/"+run.PublicID+"/tours", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Tours []models.Tour `json:"tours"`
			Count int           `json:"count"`
		}
		decodeData(t, w, &data)
		assert.Equal(t, 3, data.Count)
		require.Len(t, data.Tours, 3)
		assert.True(t, data.Tours[2].IsHub)
	})

	t.Run("energy report", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/runs/"+run.PublicID+"/energy", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "summary")
	})

	t.Run("viz geometry", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/viz/runs/"+run.PublicID+"/tours", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "mission")
		assert.Contains(t, w.Body.String(), "tours")
	})

	t.Run("viz map png", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/viz/runs/"+run.PublicID+"/map.png", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

		magic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
		require.Greater(t, w.Body.Len(), len(magic))
		assert.Equal(t, magic, w.Body.Bytes()[:len(magic)])
	})

	t.Run("viz report html", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/viz/runs/"+run.PublicID+"/report.html", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "echarts")
	})

	t.Run("unknown run is 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/runs/no-such-run", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateRunRejectsBadFleet(t *testing.T) {
	r, cfg := setupRouter(t)
	token := login(t, r, cfg)
	missionID := createMission(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/v1/missions/"+missionID+"/runs", gin.H{"agent_count": 1}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 2 agents")
}

func TestRateLimitRejectsFlood(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db, "../../migrations").RunMigrations())

	cfg := testConfig()
	cfg.RateLimitPerMin = 3
	r := SetupRouter(cfg, db)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodGet, "/api/v1/missions", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/missions", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}
