package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avewell/fieldtours-backend-go/internal/config"
	"github.com/avewell/fieldtours-backend-go/internal/handler"
	"github.com/avewell/fieldtours-backend-go/internal/middleware"
	"github.com/avewell/fieldtours-backend-go/internal/repository"
	"github.com/avewell/fieldtours-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers onto the gin
// engine. Mutating endpoints require a JWT from /auth/login; reads are
// open.
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	missionRepo := repository.NewMissionRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)
	runRepo := repository.NewPlanningRunRepository(db)
	tourRepo := repository.NewTourRepository(db)

	missionService := service.NewMissionService(missionRepo, segmentRepo)
	planningService := service.NewPlanningService(missionRepo, segmentRepo, runRepo, tourRepo, cfg.EnergyParams())
	vizService := service.NewVisualizationService(missionRepo, segmentRepo, runRepo, tourRepo)

	authHandler := handler.NewAuthHandler(cfg)
	missionHandler := handler.NewMissionHandler(missionService, cfg.Plan, cfg.SegmentCount)
	runHandler := handler.NewPlanningRunHandler(planningService, cfg.Plan.AgentCount)
	vizHandler := handler.NewVisualizationHandler(vizService)

	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Field Tours API is running",
		})
	})

	auth := middleware.Auth(cfg.JWTSecret)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	{
		api.POST("/auth/login", authHandler.Login)

		missions := api.Group("/missions")
		{
			missions.GET("", missionHandler.ListMissions)
			missions.POST("", auth, missionHandler.CreateMission)
			missions.GET("/:id", missionHandler.GetMission)
			missions.GET("/:id/segments", missionHandler.GetSegments)
			missions.GET("/:id/runs", runHandler.ListRuns)
			missions.POST("/:id/runs", auth, runHandler.CreateRun)
		}

		runs := api.Group("/runs")
		{
			runs.GET("/:id", runHandler.GetRun)
			runs.GET("/:id/tours", runHandler.GetTours)
			runs.GET("/:id/energy", runHandler.GetEnergy)
		}

		viz := api.Group("/viz")
		{
			viz.GET("/runs/:id/tours", vizHandler.GetTourGeometry)
			viz.GET("/runs/:id/map.png", vizHandler.GetMapPNG)
			viz.GET("/runs/:id/report.html", vizHandler.GetReportHTML)
		}
	}

	return r
}
