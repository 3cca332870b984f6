package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/qracee/config"
	"github.com/s0up4200/qracee/filter"
	"github.com/s0up4200/qracee/monitor"
	"github.com/s0up4200/qracee/qbittorrent"
)

var (
	cfg    *config.Config
	logger zerolog.Logger

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qracee",
	Short: "Resume and re-announce torrents that stall right after being added",
	Long: `qracee watches a qBittorrent instance for downloads that stall shortly
after being added and tries to recover them by resuming and re-announcing
them to their trackers.

All settings come from the environment (or a .env file in the working
directory): QBIT_HOSTNAME, QBIT_PORT, QBIT_USERNAME, QBIT_PASSWORD,
UPDATE_INTERVAL, SECONDS_SINCE_ADDED_CUTOFF and SECONDS_SINCE_CREATED_CUTOFF.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
	RunE:              runDaemon,
}

// SetVersion records build metadata for the version command.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
}

// Execute adds all child commands to the root command and sets flags appropriately.
// SIGINT and SIGTERM stop the daemon with exit code 0.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stdout)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if strings.ToLower(cfg.Format) == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(out.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// connectClient opens the qBittorrent session described by cfg
func connectClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*qbittorrent.Client, error) {
	opts := []qbittorrent.Option{
		qbittorrent.WithTimeout(cfg.RequestTimeout()),
	}
	if cfg.QBittorrent.TLSSkipVerify {
		opts = append(opts, qbittorrent.WithInsecureSkipVerify())
	}
	if cfg.QBittorrent.BasicUser != "" {
		opts = append(opts, qbittorrent.WithBasicAuth(cfg.QBittorrent.BasicUser, cfg.QBittorrent.BasicPass))
	}

	conn := qbittorrent.Connection{
		Hostname: cfg.QBittorrent.Hostname,
		Port:     cfg.QBittorrent.Port,
		Username: cfg.QBittorrent.Username,
		Password: cfg.QBittorrent.Password,
	}

	client, err := qbittorrent.NewClient(ctx, conn, logger, opts...)
	if err != nil {
		logger.Error().Msgf("Error connecting to client. Could not connect to '%s' at port '%d' as user '%s'",
			conn.Hostname, conn.Port, conn.Username)
		return nil, err
	}

	return client, nil
}

// newMonitor builds the recovery loop from cfg
func newMonitor(client monitor.TorrentClient, cfg *config.Config, logger zerolog.Logger) (*monitor.Monitor, error) {
	settings := monitor.Settings{
		PollInterval:  cfg.PollInterval(),
		AddedCutoff:   cfg.AddedCutoff(),
		CreatedCutoff: cfg.CreatedCutoff(),
		DryRun:        cfg.Monitor.DryRun,
		ErrorPolicy:   monitor.ErrorPolicyExit,
	}
	if cfg.Monitor.ContinueOnError {
		settings.ErrorPolicy = monitor.ErrorPolicyContinue
	}

	var opts []monitor.Option
	if cfg.Monitor.Filter != "" {
		f, err := filter.Compile(cfg.Monitor.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid TORRENT_FILTER: %w", err)
		}
		logger.Info().Str("filter", f.Expression()).Msg("Torrent filter enabled")
		opts = append(opts, monitor.WithFilter(f))
	}

	return monitor.New(client, settings, logger, opts...), nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := connectClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	m, err := newMonitor(client, cfg, logger)
	if err != nil {
		return err
	}

	return m.Run(ctx)
}
