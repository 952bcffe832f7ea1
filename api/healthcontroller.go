package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the liveness endpoint.
func (s *Server) RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
