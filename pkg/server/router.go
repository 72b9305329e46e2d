package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/night-scheduler-api/internal/config"
	"github.com/arnavshah/night-scheduler-api/pkg/auth"
	"github.com/arnavshah/night-scheduler-api/pkg/database"
	"github.com/arnavshah/night-scheduler-api/pkg/export"
	"github.com/arnavshah/night-scheduler-api/pkg/handlers"
	"github.com/arnavshah/night-scheduler-api/pkg/logger"
	"github.com/arnavshah/night-scheduler-api/pkg/metrics"
	"github.com/arnavshah/night-scheduler-api/pkg/middleware/cors"
	"github.com/arnavshah/night-scheduler-api/pkg/middleware/requestid"
)

// Version is reported by GET /.
const Version = "3.0.0"

// App bundles the router with the resources it owns.
type App struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Logger *zap.Logger
}

// Close releases the database and flushes the logger.
func (a *App) Close() {
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.Logger.Sync()
}

// Bootstrap opens the database, makes sure an admin exists and builds the
// router from cfg.
func Bootstrap(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	authService := auth.NewService(cfg.Auth)
	if err := authService.EnsureAdminExists(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, log); err != nil {
		log.Warn("could not ensure admin user", zap.Error(err))
	}

	h := handlers.New(db, authService, log, metrics.New(), export.CalendarOptions{
		Name:     cfg.Calendar.Name,
		Timezone: cfg.Calendar.Timezone,
		Location: cfg.Calendar.Location,
	})

	return &App{Engine: NewRouter(cfg, h), DB: db, Logger: log}, nil
}

// NewRouter registers every route on a fresh engine.
func NewRouter(cfg *config.Config, h *handlers.Handler) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestid.Middleware(),
		cors.New(cfg.CORS.AllowedOrigins),
		logger.GinMiddleware(h.Logger),
	)
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		r.GET("/metrics", h.Metrics.Handler())
	}

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Night Shift Scheduler API",
			"version": Version,
		})
	})

	public := r.Group("/api")
	{
		public.GET("/health", h.Health)
		public.GET("/doctors", h.ListDoctors)
		public.POST("/submit", h.SubmitPreferences)
		public.GET("/schedule", h.GetSchedule)
		public.GET("/export/ics", h.ExportICS)
		public.GET("/export/pdf", h.ExportPDF)
	}

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/doctors", h.CreateDoctor)
		admin.DELETE("/doctors/:id", h.DeactivateDoctor)
		admin.POST("/doctors/:id/activate", h.ActivateDoctor)
		admin.PATCH("/doctors/:id/toggle", h.ToggleDoctor)

		admin.GET("/preferences", h.ListPreferences)
		admin.POST("/generate", h.GenerateMonth)
		admin.POST("/schedule/edit", h.EditSchedule)

		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Scheduler Endpoints
	v1 := r.Group("/v1")
	v1.Use(h.APIKeyMiddleware())
	{
		v1.POST("/schedule/generate", h.GenerateJSON)
		v1.POST("/schedule/validate", h.ValidateSchedule)
		v1.POST("/schedule/csv", h.GenerateCSV)
		v1.GET("/usage", h.GetMyUsage)
	}

	return r
}
