package monitor

import (
	"context"
	"time"

	"github.com/s0up4200/qracee/qbittorrent"
)

// TorrentClient is the part of the torrent client the monitor depends on.
// *qbittorrent.Client satisfies it.
type TorrentClient interface {
	// StalledDownloads returns a fresh snapshot of stalled downloads
	StalledDownloads(ctx context.Context) ([]qbittorrent.TorrentSummary, error)

	// Properties fetches the properties of a single torrent
	Properties(ctx context.Context, hash string) (qbittorrent.TorrentProperties, error)

	// Resume resumes a torrent
	Resume(ctx context.Context, hash string) error

	// Reannounce re-contacts the torrent's trackers
	Reannounce(ctx context.Context, hash string) error
}

// CandidateFilter decides whether a stalled torrent may be acted on.
type CandidateFilter interface {
	Match(torrent qbittorrent.TorrentSummary, now time.Time) (bool, error)
}

// Clock abstracts wall time so the loop can be driven deterministically.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
