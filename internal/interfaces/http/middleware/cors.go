package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/infrastructure/config"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Request-ID", "Idempotency-Key"}
)

// CORS builds the cross-origin policy from the HTTP config. Without any
// allowed origin, cross-origin requests get no CORS headers.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	if len(cfg.CORSAllowOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	cc := cors.Config{
		AllowMethods:     orDefault(cfg.CORSAllowMethods, defaultCORSMethods),
		AllowHeaders:     orDefault(cfg.CORSAllowHeaders, defaultCORSHeaders),
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(cfg.CORSAllowOrigins, "*") {
		cc.AllowAllOrigins = true
		cc.AllowCredentials = false
	} else {
		cc.AllowOrigins = cfg.CORSAllowOrigins
	}
	return cors.New(cc)
}

func orDefault(values, def []string) []string {
	if len(values) == 0 {
		return def
	}
	return values
}
