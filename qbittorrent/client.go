package qbittorrent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// DefaultPort is the qBittorrent WebUI port used when none is configured.
const DefaultPort = 8080

// Connection holds the parameters needed to open a session
type Connection struct {
	Hostname string
	Port     int
	Username string
	Password string
}

// Client wraps the qBittorrent API client
type Client struct {
	client *qbittorrent.Client
	conn   Connection
	logger zerolog.Logger
}

// NewClient creates a new qBittorrent client and logs in. Any failure is
// returned as an *AuthenticationError naming the attempted host, port and
// user. There is no retry.
func NewClient(ctx context.Context, conn Connection, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if conn.Port == 0 {
		conn.Port = DefaultPort
	}

	if strings.TrimSpace(conn.Username) == "" {
		return nil, &AuthenticationError{Host: conn.Hostname, Port: conn.Port, Kind: KindCredentials, Err: ErrMissingUsername}
	}

	host, err := BaseURL(conn.Hostname, conn.Port)
	if err != nil {
		return nil, &AuthenticationError{Host: conn.Hostname, Port: conn.Port, Username: conn.Username, Kind: KindConnection, Err: err}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:          host,
		Username:      conn.Username,
		Password:      conn.Password,
		TLSSkipVerify: o.tlsSkipVerify,
		BasicUser:     o.basicUser,
		BasicPass:     o.basicPass,
		Timeout:       int(o.timeout / time.Second),
		Log:           log.New(debugWriter{logger: logger.With().Str("module", "go-qbittorrent").Logger()}, "", 0),
	})

	logger.Info().Msgf("Connecting to '%s' at port '%d' as user '%s'", conn.Hostname, conn.Port, conn.Username)

	// Test connection by logging in
	if err := client.LoginCtx(ctx); err != nil {
		kind := KindConnection
		if errors.Is(err, qbittorrent.ErrBadCredentials) {
			kind = KindCredentials
		}
		return nil, &AuthenticationError{
			Host:     conn.Hostname,
			Port:     conn.Port,
			Username: conn.Username,
			Kind:     kind,
			Err:      err,
		}
	}

	logger.Info().Msg("Connected!")

	return &Client{
		client: client,
		conn:   conn,
		logger: logger,
	}, nil
}

// BaseURL builds the WebUI address from a hostname and port. A hostname
// without a scheme is treated as plain http. An explicit port inside the
// hostname takes precedence over port.
func BaseURL(hostname string, port int) (string, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return "", ErrMissingHostname
	}
	if port == 0 {
		port = DefaultPort
	}

	raw := hostname
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid hostname %q: %w", hostname, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid hostname %q", hostname)
	}

	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	}

	return strings.TrimSuffix(u.String(), "/"), nil
}

// Connection returns the parameters the session was opened with.
func (c *Client) Connection() Connection {
	return c.conn
}

// StalledDownloads lists torrents in the stalled downloading state, in the
// order qBittorrent returns them.
func (c *Client) StalledDownloads(ctx context.Context) ([]TorrentSummary, error) {
	torrents, err := c.client.GetTorrentsCtx(ctx, qbittorrent.TorrentFilterOptions{
		Filter: qbittorrent.TorrentFilterStalledDownloading,
	})
	if err != nil {
		return nil, &QueryError{Op: "list", Err: err}
	}

	c.logger.Debug().Msgf("Retrieved %d stalled torrents from qBittorrent", len(torrents))

	results := make([]TorrentSummary, 0, len(torrents))
	for _, t := range torrents {
		results = append(results, summaryFromTorrent(t))
	}

	return results, nil
}

// Properties fetches the properties of a single torrent
func (c *Client) Properties(ctx context.Context, hash string) (TorrentProperties, error) {
	if hash == "" {
		return TorrentProperties{}, &QueryError{Op: "properties", Err: ErrTorrentNotFound}
	}

	props, err := c.client.GetTorrentPropertiesCtx(ctx, hash)
	if err != nil {
		return TorrentProperties{}, &QueryError{Op: "properties", Hash: hash, Err: err}
	}

	return TorrentProperties{
		Hash:         hash,
		CreationDate: time.Unix(int64(props.CreationDate), 0),
	}, nil
}

// Resume resumes a torrent
func (c *Client) Resume(ctx context.Context, hash string) error {
	if err := c.client.ResumeCtx(ctx, []string{hash}); err != nil {
		return &QueryError{Op: "resume", Hash: hash, Err: err}
	}
	return nil
}

// Reannounce asks qBittorrent to contact the torrent's trackers again
func (c *Client) Reannounce(ctx context.Context, hash string) error {
	if err := c.client.ReAnnounceTorrentsCtx(ctx, []string{hash}); err != nil {
		return &QueryError{Op: "reannounce", Hash: hash, Err: err}
	}
	return nil
}

// AppVersion returns the qBittorrent application version
func (c *Client) AppVersion(ctx context.Context) (string, error) {
	version, err := c.client.GetAppVersionCtx(ctx)
	if err != nil {
		return "", &QueryError{Op: "app version", Err: err}
	}
	return version, nil
}

// WebAPIVersion returns the qBittorrent Web API version
func (c *Client) WebAPIVersion(ctx context.Context) (string, error) {
	version, err := c.client.GetWebAPIVersionCtx(ctx)
	if err != nil {
		return "", &QueryError{Op: "webapi version", Err: err}
	}
	return version, nil
}

// debugWriter routes go-qbittorrent's standard logger into zerolog.
type debugWriter struct {
	logger zerolog.Logger
}

func (w debugWriter) Write(p []byte) (int, error) {
	w.logger.Debug().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
