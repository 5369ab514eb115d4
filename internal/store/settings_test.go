package store

import (
	"context"
	"errors"
	"testing"
)

func TestGetAll_Defaults(t *testing.T) {
	s := NewSettingsStore(openTestDB(t))

	values, err := s.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	// Seeded by the initial migration, with lexical coercion applied.
	if got := values["systemName"]; got != "Aquaponia" {
		t.Errorf("systemName = %v, want %q", got, "Aquaponia")
	}
	if got := values["emailAlerts"]; got != true {
		t.Errorf("emailAlerts = %v (%T), want true", got, got)
	}
	if got := values["tempCriticalMin"]; got != 18.0 {
		t.Errorf("tempCriticalMin = %v (%T), want 18", got, got)
	}
	if got := values["pumpOnTime"]; got != "06:00" {
		t.Errorf("pumpOnTime = %v (%T), want %q", got, got, "06:00")
	}
}

func TestSetAll_RoundTrip(t *testing.T) {
	s := NewSettingsStore(openTestDB(t))
	ctx := context.Background()

	err := s.SetAll(ctx, map[string]any{
		"heaterAuto":      false,
		"tempWarningMax":  27.5,
		"alertEmail":      "fishkeeper@example.com",
		"notifyOnStartup": "true", // string form still reads back as a bool
	})
	if err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}

	values, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	if got := values["heaterAuto"]; got != false {
		t.Errorf("heaterAuto = %v (%T), want false", got, got)
	}
	if got := values["tempWarningMax"]; got != 27.5 {
		t.Errorf("tempWarningMax = %v (%T), want 27.5", got, got)
	}
	if got := values["alertEmail"]; got != "fishkeeper@example.com" {
		t.Errorf("alertEmail = %v, want the stored address", got)
	}
	if got := values["notifyOnStartup"]; got != true {
		t.Errorf("notifyOnStartup = %v (%T), want true", got, got)
	}
}

func TestSetAll_Atomicity(t *testing.T) {
	s := NewSettingsStore(openTestDB(t))
	ctx := context.Background()

	// A batch containing an invalid key must change nothing at all.
	err := s.SetAll(ctx, map[string]any{
		"tempCriticalMin": 99,
		"brandNewKey":     "x",
		"":                "boom",
	})
	if !errors.Is(err, ErrEmptySettingKey) {
		t.Fatalf("SetAll() error = %v, want ErrEmptySettingKey", err)
	}

	values, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	if got := values["tempCriticalMin"]; got != 18.0 {
		t.Errorf("tempCriticalMin = %v, want prior value 18", got)
	}
	if _, exists := values["brandNewKey"]; exists {
		t.Error("brandNewKey was written despite the failed batch")
	}
}

func TestSetAll_Upsert(t *testing.T) {
	s := NewSettingsStore(openTestDB(t))
	ctx := context.Background()

	for _, interval := range []float64{5, 10} {
		if err := s.SetAll(ctx, map[string]any{"updateInterval": interval}); err != nil {
			t.Fatalf("SetAll() error = %v", err)
		}
	}

	values, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	if got := values["updateInterval"]; got != 10.0 {
		t.Errorf("updateInterval = %v, want 10 after second write", got)
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"true", true},
		{"false", false},
		{"42", 42.0},
		{"3.14", 3.14},
		{"-7", -7.0},
		{"06:00", "06:00"},
		{"Aquaponia", "Aquaponia"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := coerceValue(tt.raw); got != tt.want {
			t.Errorf("coerceValue(%q) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
		}
	}
}
