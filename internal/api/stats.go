package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vbarros/aquaponia-monitor/internal/models"
)

const defaultStatsDays = 7

// getDailyStats returns the per-day aggregates for the last ?days= days,
// newest first.
func (s *Server) getDailyStats(ctx *gin.Context) {
	days, err := strconv.Atoi(ctx.DefaultQuery("days", strconv.Itoa(defaultStatsDays)))
	if err != nil || days < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	stats, err := s.stats.Recent(ctx.Request.Context(), days)
	if err != nil {
		s.logger.Error("Failed to fetch daily stats", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if stats == nil {
		stats = []models.DailyStat{}
	}

	ctx.JSON(http.StatusOK, stats)
}
