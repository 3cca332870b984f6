package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to qBittorrent",
	Long:  `Test the connection to your qBittorrent instance and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to qBittorrent at %s:%d...\n", cfg.QBittorrent.Hostname, cfg.QBittorrent.Port)

	client, err := connectClient(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	fmt.Println("✓ Connection successful!")

	var qbitVersion, apiVersion string
	var stalled int

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		v, err := client.AppVersion(ctx)
		qbitVersion = v
		return err
	})
	g.Go(func() error {
		v, err := client.WebAPIVersion(ctx)
		apiVersion = v
		return err
	})
	g.Go(func() error {
		torrents, err := client.StalledDownloads(ctx)
		stalled = len(torrents)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("\nqBittorrent:\n")
	fmt.Printf("- Version: %s\n", qbitVersion)
	fmt.Printf("- Web API: %s\n", apiVersion)
	fmt.Printf("- Stalled downloads: %d\n", stalled)

	fmt.Printf("\nRecovery settings:\n")
	fmt.Printf("- Poll interval: %s\n", cfg.PollInterval())
	fmt.Printf("- Added cutoff: %s\n", cfg.AddedCutoff())
	fmt.Printf("- Created cutoff: %s\n", cfg.CreatedCutoff())
	fmt.Printf("- Dry run: %s\n", boolToStatus(cfg.Monitor.DryRun))
	fmt.Printf("- Continue on error: %s\n", boolToStatus(cfg.Monitor.ContinueOnError))
	if cfg.Monitor.Filter != "" {
		fmt.Printf("- Filter: %s\n", cfg.Monitor.Filter)
	}

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}
