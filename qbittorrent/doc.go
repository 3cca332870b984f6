// Package qbittorrent provides a session against the qBittorrent Web API.
//
// This package wraps the autobrr/go-qbittorrent library and narrows it to
// the handful of operations qracee needs to rescue stalled downloads:
// listing stalled torrents, reading torrent properties, and issuing resume
// and re-announce commands.
//
// # Features
//
//   - Authenticated session setup with fail-fast error reporting
//   - Listing of torrents in the stalled downloading state
//   - Lazy property lookup for a single torrent
//   - Resume and re-announce commands
//   - Context-aware operations for cancellation
//
// # Usage
//
//	client, err := qbittorrent.NewClient(ctx, qbittorrent.Connection{
//	    Hostname: "localhost",
//	    Port:     8080,
//	    Username: "admin",
//	    Password: "adminadmin",
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	torrents, err := client.StalledDownloads(ctx)
package qbittorrent
