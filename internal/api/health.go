package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbarros/aquaponia-monitor/internal/version"
)

// getHealth reports process liveness and database reachability.
func (s *Server) getHealth(ctx *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}

	if err != nil {
		s.logger.Error("Health check failed", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}
