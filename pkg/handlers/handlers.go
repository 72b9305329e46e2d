package handlers

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/night-scheduler-api/pkg/auth"
	"github.com/arnavshah/night-scheduler-api/pkg/database"
	apperrors "github.com/arnavshah/night-scheduler-api/pkg/errors"
	"github.com/arnavshah/night-scheduler-api/pkg/export"
	"github.com/arnavshah/night-scheduler-api/pkg/metrics"
	"github.com/arnavshah/night-scheduler-api/pkg/middleware/requestid"
	"github.com/arnavshah/night-scheduler-api/pkg/models"
	"github.com/arnavshah/night-scheduler-api/pkg/scheduler"
)

//go:embed static/*
var staticEmbed embed.FS

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Auth     *auth.Service
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Validate *validator.Validate
	Calendar export.CalendarOptions

	// NewSeed picks the tie-breaking seed when a request does not pin one.
	NewSeed func() int64
}

// New wires a Handler with its defaults filled in.
func New(db *gorm.DB, authService *auth.Service, log *zap.Logger, m *metrics.Metrics, cal export.CalendarOptions) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		DB:       db,
		Auth:     authService,
		Logger:   log,
		Metrics:  m,
		Validate: models.NewValidator(),
		Calendar: cal,
		NewSeed:  func() int64 { return time.Now().UnixNano() },
	}
}

// respondError writes err as {"error", "code"} with its mapped status.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestid.Value(c)),
		)
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

// bind decodes the JSON body into dst and runs the struct validator on it.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return false
	}
	if err := h.Validate.Struct(dst); err != nil {
		h.respondError(c, apperrors.Clone(apperrors.ErrValidation, models.DescribeValidation(err)))
		return false
	}
	return true
}

// monthQuery reads and checks the required ?month= parameter.
func monthQuery(c *gin.Context) (string, error) {
	month := c.Query("month")
	if month == "" {
		return "", apperrors.Clone(apperrors.ErrValidation, "Month parameter is required")
	}
	if _, err := scheduler.ParseMonth(month); err != nil {
		return "", invalidMonth(err)
	}
	return month, nil
}

func invalidMonth(err error) error {
	return apperrors.Wrap(err, apperrors.ErrInvalidMonth.Code, apperrors.ErrInvalidMonth.Status, apperrors.ErrInvalidMonth.Message)
}

func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Clone(apperrors.ErrValidation, "id must be a positive integer")
	}
	return uint(id), nil
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			h.respondError(c, apperrors.Clone(apperrors.ErrUnauthorized, "Authorization header required"))
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			h.respondError(c, apperrors.Clone(apperrors.ErrUnauthorized, "Invalid token"))
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for scheduler routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			h.respondError(c, apperrors.Clone(apperrors.ErrUnauthorized, "API Key required"))
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			h.respondError(c, apperrors.Clone(apperrors.ErrUnauthorized, "Invalid API Key signature"))
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		err = h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:        key,
			Name:       userID,
			KeyPreview: keyPreview(key),
			RateLimit:  10000,
		}).Error
		if err != nil {
			h.respondError(c, err)
			return
		}

		now := time.Now()
		if err := h.DB.Model(&apiKey).Update("last_used", now).Error; err != nil {
			h.Logger.Warn("could not stamp api key", zap.Uint("key_id", apiKey.ID), zap.Error(err))
		}

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !h.bind(c, &req) {
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		h.respondError(c, apperrors.Clone(apperrors.ErrUnauthorized, "Invalid credentials"))
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		h.respondError(c, apperrors.Clone(apperrors.ErrUnauthorized, "Invalid credentials"))
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		RateLimit int    `json:"rate_limit" validate:"min=0"`
	}
	if !h.bind(c, &req) {
		return
	}

	if req.RateLimit == 0 {
		req.RateLimit = 10000
	}

	key := h.Auth.GenerateHMACKey(req.Name)

	var existing int64
	if err := h.DB.Model(&database.APIKey{}).Where(&database.APIKey{Key: key}).Count(&existing).Error; err != nil {
		h.respondError(c, err)
		return
	}
	if existing > 0 {
		h.respondError(c, apperrors.Clone(apperrors.ErrConflict, "a key with this name already exists"))
		return
	}

	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: keyPreview(key),
		RateLimit:  req.RateLimit,
	}
	if err := h.DB.Create(&apiKey).Error; err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   apiKey.ID,
		"name": req.Name,
		"key":  key,
	})
}

// keyPreview shortens a key for listings (e.g., cli...9f2a)
func keyPreview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Order("id").Find(&keys).Error; err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes an API key
func (h *Handler) RevokeKey(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	res := h.DB.Delete(&database.APIKey{}, id)
	if res.Error != nil {
		h.respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.respondError(c, apperrors.Clone(apperrors.ErrNotFound, "Key not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// Try JSON first, then Form/Query
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			h.respondError(c, apperrors.Clone(apperrors.ErrValidation, "rate_limit is required"))
			return
		}
	}

	if req.RateLimit <= 0 {
		h.respondError(c, apperrors.Clone(apperrors.ErrValidation, "invalid rate limit"))
		return
	}

	res := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit)
	if res.Error != nil {
		h.respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.respondError(c, apperrors.Clone(apperrors.ErrNotFound, "Key not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// Health reports whether the database answers.
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.Logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		h.respondError(c, apperrors.Clone(apperrors.ErrNotFound, "static/index.html not found in embedded FS"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// notFound maps the store's missing-doctor error onto a 404.
func notFound(err error, message string) error {
	if errors.Is(err, database.ErrDoctorNotFound) {
		return apperrors.Wrap(err, apperrors.ErrNotFound.Code, apperrors.ErrNotFound.Status, message)
	}
	return err
}
