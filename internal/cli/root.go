package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aquaponia-monitor",
	Short: "Aquaponics telemetry collection and relay service",
	Long: `A headless service that polls an aquaponics ThingSpeak channel for
temperature and water level readings, persists them to a local SQLite
database, mirrors collected state back to the channel, and serves the
query/control/settings HTTP API used by the browser dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the service
		return runServe(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
}

// setupLogger configures the logger based on the verbose flag
func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// Set as default logger
	slog.SetDefault(logger)
}
