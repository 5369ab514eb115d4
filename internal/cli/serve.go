package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbarros/aquaponia-monitor/internal/api"
	"github.com/vbarros/aquaponia-monitor/internal/collector"
	"github.com/vbarros/aquaponia-monitor/internal/config"
	"github.com/vbarros/aquaponia-monitor/internal/database"
	"github.com/vbarros/aquaponia-monitor/internal/relay"
	"github.com/vbarros/aquaponia-monitor/internal/store"
	"github.com/vbarros/aquaponia-monitor/thingspeak"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collection service and HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	setupLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.Setup(cfg.Database.Path)
	if err != nil {
		return err
	}

	readings := store.NewReadingStore(db)
	settings := store.NewSettingsStore(db)
	stats := store.NewStatsStore(db)

	gateway := thingspeak.NewClient(thingspeak.Config{
		BaseURL:     cfg.ThingSpeak.BaseURL,
		ChannelID:   cfg.ThingSpeak.ChannelID,
		ReadAPIKey:  cfg.ThingSpeak.ReadAPIKey,
		WriteAPIKey: cfg.ThingSpeak.WriteAPIKey,
		Timeout:     cfg.ThingSpeak.Timeout,
	}, logger.With("component", "thingspeak"))

	dataCollector := collector.New(
		gateway,
		readings,
		settings,
		stats,
		collector.Config{
			Interval:            cfg.Collector.Interval,
			MaintenanceInterval: cfg.Collector.MaintenanceInterval,
		},
		logger.With("component", "collector"),
	)

	deviceRelay := relay.New(readings, gateway, logger.With("component", "relay"))

	server := api.New(
		cfg.Server,
		db,
		readings,
		settings,
		stats,
		deviceRelay,
		logger.With("component", "api"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dataCollector.Start(ctx)
	defer dataCollector.Stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	return nil
}
