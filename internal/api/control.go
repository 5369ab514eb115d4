package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbarros/aquaponia-monitor/internal/relay"
	"github.com/vbarros/aquaponia-monitor/internal/store"
)

type controlRequest struct {
	State *bool `json:"state"`
}

// setDeviceState switches the pump or heater. The device comes from the path
// ("bomba" or "aquecedor"), the desired state from the body. remote_synced
// reports whether the remote channel accepted the mirrored state; the local
// update stands either way.
func (s *Server) setDeviceState(ctx *gin.Context) {
	device := ctx.Param("device")

	var request controlRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.State == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "state is required"})
		return
	}

	synced, err := s.relay.SetDeviceState(ctx.Request.Context(), device, *request.State)
	switch {
	case errors.Is(err, relay.ErrUnknownDevice):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown device"})
		return
	case errors.Is(err, store.ErrNoReadings):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no current state to update"})
		return
	case err != nil:
		s.logger.Error("Failed to update device state", "device", device, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "remote_synced": synced})
}
