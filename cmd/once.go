package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// onceCmd represents the once command
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single check and exit",
	Long:  `Check qBittorrent for stalled downloads once, recover the ones that qualify, and print a summary.`,
	RunE:  runOnce,
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := connectClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	m, err := newMonitor(client, cfg, logger)
	if err != nil {
		return err
	}

	result, err := m.RunOnce(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\nSummary:")
	fmt.Println(strings.Repeat("━", 50))
	fmt.Printf("Stalled downloads checked: %d\n", result.Checked)
	if cfg.Monitor.DryRun {
		fmt.Printf("- Would recover: %d\n", len(result.Recovered))
	} else {
		fmt.Printf("- Recovered: %d\n", len(result.Recovered))
	}
	if result.SkippedAdded > 0 {
		fmt.Printf("- Past added cutoff: %d\n", result.SkippedAdded)
	}
	if result.SkippedCreated > 0 {
		fmt.Printf("- Past created cutoff: %d\n", result.SkippedCreated)
	}
	if result.SkippedFilter > 0 {
		fmt.Printf("- Rejected by filter: %d\n", result.SkippedFilter)
	}
	if result.Failed > 0 {
		fmt.Printf("- Failed: %d\n", result.Failed)
	}

	return nil
}
