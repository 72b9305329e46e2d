package cors

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// New returns a CORS middleware for the given origins. Entries may use a
// single wildcard label, e.g. https://*.vercel.app. Matched origins are
// echoed back with credentials allowed. An empty list answers "*" to every
// origin and never allows credentials.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins = append(origins, strings.TrimRight(origin, "/"))
	}

	return func(c *gin.Context) {
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin := c.GetHeader("Origin"); origin != "" && matchOrigin(origins, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func matchOrigin(origins []string, origin string) bool {
	origin = strings.TrimRight(origin, "/")
	for _, allowed := range origins {
		if allowed == origin {
			return true
		}
		if strings.Contains(allowed, "*") {
			if ok, _ := path.Match(allowed, origin); ok {
				return true
			}
		}
	}
	return false
}
