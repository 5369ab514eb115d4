package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbarros/aquaponia-monitor/internal/config"
	"github.com/vbarros/aquaponia-monitor/internal/database"
	"github.com/vbarros/aquaponia-monitor/internal/store"
)

// readingsCmd represents the readings command
var readingsCmd = &cobra.Command{
	Use:     "readings",
	Aliases: []string{"r"},
	Short:   "Inspect collected readings",
}

// readingsLatestCmd represents the readings latest command
var readingsLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recent readings as JSON",
	Long: `Print the ten most recent readings in chronological order, the same
view the dashboard's latest endpoint serves.

Examples:
  aquaponia-monitor readings latest`,
	Args: cobra.NoArgs,
	RunE: runReadingsLatest,
}

func init() {
	rootCmd.AddCommand(readingsCmd)
	readingsCmd.AddCommand(readingsLatestCmd)
}

func runReadingsLatest(cmd *cobra.Command, args []string) error {
	setupLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Setup(cfg.Database.Path)
	if err != nil {
		return err
	}

	readings, err := store.NewReadingStore(db).LatestN(cmd.Context(), store.LatestReadingCount)
	if err != nil {
		return err
	}

	if len(readings) == 0 {
		fmt.Fprintln(os.Stderr, "No readings recorded yet")
		return nil
	}

	output, err := json.MarshalIndent(readings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format readings: %w", err)
	}

	fmt.Println(string(output))

	return nil
}
