package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// respondError writes the structured error payload used across the API.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// internalError hides upstream failure detail unless running in development.
func (s *Server) internalError(c *gin.Context, message string, err error) {
	payload := gin.H{"error": message}
	if s.Development && err != nil {
		payload["message"] = err.Error()
	}
	c.Error(err) //nolint:errcheck
	c.JSON(http.StatusInternalServerError, payload)
}

// parseTimeQuery reads an optional RFC 3339 or date-only query parameter.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}
