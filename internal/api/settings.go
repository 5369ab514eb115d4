package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbarros/aquaponia-monitor/internal/store"
)

// getSettings returns every setting with its value coerced to a typed form.
func (s *Server) getSettings(ctx *gin.Context) {
	values, err := s.settings.GetAll(ctx.Request.Context())
	if err != nil {
		s.logger.Error("Failed to fetch settings", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, values)
}

// updateSettings upserts the posted settings atomically: all keys are written
// or none are.
func (s *Server) updateSettings(ctx *gin.Context) {
	var values map[string]any
	if err := ctx.ShouldBindJSON(&values); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	if err := s.settings.SetAll(ctx.Request.Context(), values); err != nil {
		if errors.Is(err, store.ErrEmptySettingKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "setting key must not be empty"})
			return
		}

		s.logger.Error("Failed to update settings", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
