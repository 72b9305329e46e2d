package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestAllowedOrigins(t *testing.T) {
	r := newEngine([]string{"http://localhost:3000/", "https://*.vercel.app"})

	cases := []struct {
		origin string
		allow  bool
	}{
		{"http://localhost:3000", true},
		{"https://night-shift.vercel.app", true},
		{"https://evil.example.com", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", tc.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		if tc.allow {
			assert.Equal(t, tc.origin, w.Header().Get("Access-Control-Allow-Origin"), tc.origin)
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"), tc.origin)
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), tc.origin)
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"), tc.origin)
		}
	}
}

func TestPreflight(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://anything.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestAnyOriginNeverAllowsCredentials(t *testing.T) {
	r := newEngine(nil)

	for _, origin := range []string{"https://evil.example.com", ""} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"), origin)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"), origin)
	}
}
