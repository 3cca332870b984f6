package qbittorrent

import (
	"strings"
	"time"

	"github.com/autobrr/go-qbittorrent"
)

// StateStalledDownloading is the state qBittorrent reports for a download
// with no peers supplying data.
const StateStalledDownloading = "stalledDL"

// TorrentSummary contains the listing data for a torrent
type TorrentSummary struct {
	Hash     string
	Name     string
	State    string
	AddedOn  time.Time
	Category string
	Tags     []string
	Tracker  string
	Size     int64
	Progress float64
}

// IsStalledDownload checks if the torrent is stalled while downloading
func (t *TorrentSummary) IsStalledDownload() bool {
	return t.State == StateStalledDownloading
}

// TorrentProperties contains the lazily fetched properties of a torrent
type TorrentProperties struct {
	Hash         string
	CreationDate time.Time
}

func summaryFromTorrent(t qbittorrent.Torrent) TorrentSummary {
	return TorrentSummary{
		Hash:     t.Hash,
		Name:     t.Name,
		State:    string(t.State),
		AddedOn:  time.Unix(t.AddedOn, 0),
		Category: t.Category,
		Tags:     splitTags(t.Tags),
		Tracker:  t.Tracker,
		Size:     t.Size,
		Progress: t.Progress,
	}
}

// splitTags turns qBittorrent's comma separated tag list into a slice.
func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
