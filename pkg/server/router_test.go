package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavshah/night-scheduler-api/internal/config"
	"github.com/arnavshah/night-scheduler-api/pkg/database"
)

func TestBootstrap(t *testing.T) {
	cfg := &config.Config{
		Env:      "test",
		Database: config.DatabaseConfig{Path: "file:bootstrap?mode=memory&cache=shared"},
		Auth: config.AuthConfig{
			JWTSecret:     "jwt",
			MasterSecret:  "master",
			AdminUsername: "chief",
			AdminPassword: "pw",
			BcryptCost:    bcrypt.MinCost,
		},
		Log:      config.LogConfig{Level: "error", Format: "json"},
		Calendar: config.CalendarConfig{Name: "Night Shifts"},
	}

	app, err := Bootstrap(cfg)
	require.NoError(t, err)
	defer app.Close()

	var admins []database.MasterUser
	require.NoError(t, app.DB.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "chief", admins[0].Username)

	w := httptest.NewRecorder()
	app.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
