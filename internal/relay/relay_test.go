package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/vbarros/aquaponia-monitor/internal/database"
	"github.com/vbarros/aquaponia-monitor/internal/models"
	"github.com/vbarros/aquaponia-monitor/internal/store"
)

type fakeGateway struct {
	entryID int64
	err     error

	published *models.Reading
}

func (g *fakeGateway) Publish(ctx context.Context, reading *models.Reading) (int64, error) {
	g.published = reading
	return g.entryID, g.err
}

func newTestRelay(t *testing.T, gateway Gateway) (*Relay, *store.ReadingStore) {
	t.Helper()

	db, err := database.Setup(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.Setup() error = %v", err)
	}

	readings := store.NewReadingStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(readings, gateway, logger), readings
}

func seedReading(t *testing.T, readings *store.ReadingStore) {
	t.Helper()

	temperature := 26.5
	level := 82.0
	reading := &models.Reading{
		Temperature: &temperature,
		Level:       &level,
		Timestamp:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := readings.Insert(context.Background(), reading); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}

func TestSetDeviceState(t *testing.T) {
	t.Run("updates local state and mirrors it", func(t *testing.T) {
		gateway := &fakeGateway{entryID: 42}
		r, readings := newTestRelay(t, gateway)
		ctx := context.Background()

		seedReading(t, readings)

		synced, err := r.SetDeviceState(ctx, DeviceBomba, true)
		if err != nil {
			t.Fatalf("SetDeviceState() error = %v", err)
		}
		if !synced {
			t.Error("SetDeviceState() synced = false, want true")
		}

		latest, err := readings.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if !latest.PumpStatus {
			t.Error("pump status was not set on the current reading")
		}

		// The mirror carries the combined sensor+actuator state.
		if gateway.published == nil {
			t.Fatal("nothing was published to the channel")
		}
		if !gateway.published.PumpStatus {
			t.Error("published state does not include the pump change")
		}
		if gateway.published.Temperature == nil || *gateway.published.Temperature != 26.5 {
			t.Error("published state does not include the sensor values")
		}
	})

	t.Run("resolves the heater device", func(t *testing.T) {
		gateway := &fakeGateway{entryID: 42}
		r, readings := newTestRelay(t, gateway)
		ctx := context.Background()

		seedReading(t, readings)

		if _, err := r.SetDeviceState(ctx, DeviceAquecedor, true); err != nil {
			t.Fatalf("SetDeviceState() error = %v", err)
		}

		latest, err := readings.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if !latest.HeaterStatus {
			t.Error("heater status was not set on the current reading")
		}
		if latest.PumpStatus {
			t.Error("pump status changed unexpectedly")
		}
	})

	t.Run("rejects unknown devices", func(t *testing.T) {
		gateway := &fakeGateway{}
		r, _ := newTestRelay(t, gateway)

		_, err := r.SetDeviceState(context.Background(), "ventilador", true)
		if !errors.Is(err, ErrUnknownDevice) {
			t.Errorf("SetDeviceState() error = %v, want ErrUnknownDevice", err)
		}
		if gateway.published != nil {
			t.Error("publish was called for an unknown device")
		}
	})

	t.Run("fails with no current state and inserts nothing", func(t *testing.T) {
		gateway := &fakeGateway{}
		r, readings := newTestRelay(t, gateway)
		ctx := context.Background()

		_, err := r.SetDeviceState(ctx, DeviceBomba, true)
		if !errors.Is(err, store.ErrNoReadings) {
			t.Errorf("SetDeviceState() error = %v, want store.ErrNoReadings", err)
		}

		if _, err := readings.Latest(ctx); !errors.Is(err, store.ErrNoReadings) {
			t.Error("a reading was inserted by a failed control call")
		}
	})

	t.Run("keeps local state when the mirror write fails", func(t *testing.T) {
		gateway := &fakeGateway{err: errors.New("channel down")}
		r, readings := newTestRelay(t, gateway)
		ctx := context.Background()

		seedReading(t, readings)

		synced, err := r.SetDeviceState(ctx, DeviceBomba, true)
		if err != nil {
			t.Fatalf("SetDeviceState() error = %v, mirror write is best-effort", err)
		}
		if synced {
			t.Error("SetDeviceState() synced = true, want false for failed mirror")
		}

		latest, err := readings.Latest(ctx)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if !latest.PumpStatus {
			t.Error("local state was rolled back by the failed mirror write")
		}
	})

	t.Run("reports unsynced when the channel rejects the update", func(t *testing.T) {
		gateway := &fakeGateway{entryID: 0}
		r, readings := newTestRelay(t, gateway)

		seedReading(t, readings)

		synced, err := r.SetDeviceState(context.Background(), DeviceBomba, true)
		if err != nil {
			t.Fatalf("SetDeviceState() error = %v", err)
		}
		if synced {
			t.Error("SetDeviceState() synced = true, want false for rejected update")
		}
	})
}
