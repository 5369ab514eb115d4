package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbarros/aquaponia-monitor/internal/models"
	"github.com/vbarros/aquaponia-monitor/internal/store"
)

// ErrUnknownDevice rejects device identifiers outside the dashboard's
// vocabulary.
var ErrUnknownDevice = errors.New("unknown device")

// Device identifiers as the dashboard sends them.
const (
	DeviceBomba     = "bomba"
	DeviceAquecedor = "aquecedor"
)

// Gateway is the slice of the remote channel client the relay needs.
type Gateway interface {
	Publish(ctx context.Context, reading *models.Reading) (int64, error)
}

// Relay applies device state changes to the current reading and mirrors the
// combined sensor+actuator state to the remote channel.
type Relay struct {
	readings *store.ReadingStore
	gateway  Gateway
	logger   *slog.Logger
}

// New creates a relay. The logger must not be nil.
func New(readings *store.ReadingStore, gateway Gateway, logger *slog.Logger) *Relay {
	return &Relay{
		readings: readings,
		gateway:  gateway,
		logger:   logger,
	}
}

// SetDeviceState sets the pump or heater state on the current reading and
// publishes the updated state to the remote channel. The local store is the
// source of truth: a failed mirror write never rolls the update back, it is
// reported through synced=false so the caller can warn the operator.
//
// With no readings recorded there is nothing to attach the state to and
// store.ErrNoReadings is returned.
func (r *Relay) SetDeviceState(ctx context.Context, device string, state bool) (synced bool, err error) {
	target, err := resolveDevice(device)
	if err != nil {
		return false, err
	}

	if err := r.readings.UpdateStatus(ctx, target, state); err != nil {
		return false, err
	}

	r.logger.Info("Device state updated", "device", device, "state", state)

	latest, err := r.readings.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read back current state: %w", err)
	}

	entryID, err := r.gateway.Publish(ctx, latest)
	if err != nil {
		r.logger.Warn("Remote state mirror failed", "device", device, "error", err)
		return false, nil
	}
	if entryID == 0 {
		r.logger.Warn("Channel rejected state mirror", "device", device)
		return false, nil
	}

	return true, nil
}

func resolveDevice(device string) (store.Device, error) {
	switch device {
	case DeviceBomba:
		return store.DevicePump, nil
	case DeviceAquecedor:
		return store.DeviceHeater, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDevice, device)
	}
}
