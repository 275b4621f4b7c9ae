package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/interfaces/http/dto"
)

// SwaggerProtection hides the API docs when disabled and, with a non-empty
// allow list, serves them only to the listed IPs or CIDR ranges
func SwaggerProtection(enabled bool, allowed []string) gin.HandlerFunc {
	var nets []*net.IPNet
	for _, entry := range allowed {
		if !strings.Contains(entry, "/") {
			if strings.Contains(entry, ":") {
				entry += "/128"
			} else {
				entry += "/32"
			}
		}
		if _, n, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, n)
		}
	}

	return func(c *gin.Context) {
		if !enabled || (len(allowed) > 0 && !ipAllowed(c.ClientIP(), nets)) {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.ErrCodeRouteNotFound, "API documentation is not available", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

func ipAllowed(ip string, nets []*net.IPNet) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}
