// Package monitor implements the stalled download detector and the
// recovery loop that resumes and re-announces qualifying torrents.
//
// Each iteration is independent: the client is queried for a fresh
// snapshot, nothing is remembered between polls, and a torrent that keeps
// qualifying is acted on again on every poll.
package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/qracee/qbittorrent"
)

// hashSuffixLen is how much of a hash is logged to identify a torrent.
const hashSuffixLen = 6

// Monitor polls for stalled downloads and attempts to recover them
type Monitor struct {
	client   TorrentClient
	clock    Clock
	filter   CandidateFilter
	settings Settings
	logger   zerolog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithFilter restricts recovery to torrents matching f.
func WithFilter(f CandidateFilter) Option {
	return func(m *Monitor) {
		m.filter = f
	}
}

// New creates a new Monitor
func New(client TorrentClient, settings Settings, logger zerolog.Logger, opts ...Option) *Monitor {
	if settings.PollInterval <= 0 {
		settings.PollInterval = DefaultPollInterval
	}

	m := &Monitor{
		client:   client,
		clock:    SystemClock(),
		settings: settings,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Settings returns the settings the monitor runs with.
func (m *Monitor) Settings() Settings {
	return m.settings
}

// Run polls until ctx is cancelled or an iteration fails. Cancellation is
// a normal stop and returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info().
		Bool("dry_run", m.settings.DryRun).
		Str("error_policy", m.settings.ErrorPolicy.String()).
		Msgf("Checking status every %d seconds with age cutoff of %d seconds",
			int(m.settings.PollInterval/time.Second), int(m.settings.AddedCutoff/time.Second))

	for {
		result, err := m.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		m.logger.Debug().
			Int("checked", result.Checked).
			Int("recovered", len(result.Recovered)).
			Int("skipped_added", result.SkippedAdded).
			Int("skipped_created", result.SkippedCreated).
			Int("failed", result.Failed).
			Msg("Iteration complete")

		if err := m.clock.Sleep(ctx, m.settings.PollInterval); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// RunOnce performs a single poll. Under ErrorPolicyExit the first client
// error ends the iteration and is returned.
func (m *Monitor) RunOnce(ctx context.Context) (Result, error) {
	var result Result

	torrents, err := m.client.StalledDownloads(ctx)
	if err != nil {
		if m.settings.ErrorPolicy == ErrorPolicyExit {
			return result, err
		}
		result.Failed++
		m.logger.Error().Err(err).Msg("Failed to list stalled torrents")
		return result, nil
	}

	for _, torrent := range torrents {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Checked++

		if err := m.process(ctx, torrent, &result); err != nil {
			if m.settings.ErrorPolicy == ErrorPolicyExit {
				return result, err
			}
			result.Failed++
			m.logger.Error().
				Err(err).
				Str("hash", shortHash(torrent.Hash)).
				Str("name", torrent.Name).
				Msg("Failed to recover torrent")
		}
	}

	return result, nil
}

// process applies the filters to one torrent and recovers it if it passes.
func (m *Monitor) process(ctx context.Context, torrent qbittorrent.TorrentSummary, result *Result) error {
	log := m.logger.With().
		Str("hash", shortHash(torrent.Hash)).
		Str("name", torrent.Name).
		Logger()

	if !torrent.IsStalledDownload() {
		result.SkippedState++
		log.Debug().Str("state", torrent.State).Msg("Skipping torrent that is not stalled")
		return nil
	}

	now := m.clock.Now()

	if m.filter != nil {
		matched, err := m.filter.Match(torrent, now)
		if err != nil {
			return err
		}
		if !matched {
			result.SkippedFilter++
			log.Debug().Msg("Skipping torrent rejected by filter")
			return nil
		}
	}

	sinceAdded := now.Sub(torrent.AddedOn).Truncate(time.Second)
	if sinceAdded > m.settings.AddedCutoff {
		result.SkippedAdded++
		log.Debug().Str("added", sinceAdded.String()).Msg("Skipping torrent past added cutoff")
		return nil
	}

	props, err := m.client.Properties(ctx, torrent.Hash)
	if err != nil {
		return err
	}

	sinceCreated := m.clock.Now().Sub(props.CreationDate).Truncate(time.Second)
	if sinceCreated > m.settings.CreatedCutoff {
		result.SkippedCreated++
		log.Debug().Str("created", sinceCreated.String()).Msg("Skipping torrent past created cutoff")
		return nil
	}

	log.Info().Str("age", sinceAdded.String()).Msg("Found stalled download")

	if m.settings.DryRun {
		log.Info().Msg("[DRY RUN] Would resume and re-announce")
		result.Recovered = append(result.Recovered, torrent.Hash)
		return nil
	}

	log.Info().Msg("Attempting resume and re-announce")

	if err := m.client.Resume(ctx, torrent.Hash); err != nil {
		return err
	}
	if err := m.client.Reannounce(ctx, torrent.Hash); err != nil {
		return err
	}

	result.Recovered = append(result.Recovered, torrent.Hash)
	return nil
}

// shortHash returns the tail of a hash, enough to tell torrents apart in logs.
func shortHash(hash string) string {
	if len(hash) <= hashSuffixLen {
		return hash
	}
	return hash[len(hash)-hashSuffixLen:]
}
