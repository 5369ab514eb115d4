package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbarros/aquaponia-monitor/internal/models"
	"github.com/vbarros/aquaponia-monitor/internal/store"
)

// getLatestReadings returns the ten most recent readings, oldest first.
func (s *Server) getLatestReadings(ctx *gin.Context) {
	readings, err := s.readings.LatestN(ctx.Request.Context(), store.LatestReadingCount)
	if err != nil {
		s.logger.Error("Failed to fetch latest readings", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if readings == nil {
		readings = []models.Reading{}
	}

	ctx.JSON(http.StatusOK, readings)
}

// getReadingsRange returns readings between startDate and endDate inclusive,
// ascending. Both parameters are required; their content is passed to the
// store untouched.
func (s *Server) getReadingsRange(ctx *gin.Context) {
	startDate := ctx.Query("startDate")
	endDate := ctx.Query("endDate")

	if startDate == "" || endDate == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate are required"})
		return
	}

	readings, err := s.readings.Range(ctx.Request.Context(), startDate, endDate)
	if err != nil {
		s.logger.Error("Failed to fetch readings range", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if readings == nil {
		readings = []models.Reading{}
	}

	ctx.JSON(http.StatusOK, readings)
}
