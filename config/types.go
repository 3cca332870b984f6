package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	QBittorrent QBittorrentConfig `mapstructure:",squash"`
	Monitor     MonitorConfig     `mapstructure:",squash"`
	Logging     LoggingConfig     `mapstructure:",squash"`
}

// QBittorrentConfig holds qBittorrent WebUI connection details
type QBittorrentConfig struct {
	Hostname      string `mapstructure:"qbit_hostname"`
	Port          int    `mapstructure:"qbit_port"`
	Username      string `mapstructure:"qbit_username"`
	Password      string `mapstructure:"qbit_password"`
	Timeout       int    `mapstructure:"qbit_timeout"`
	TLSSkipVerify bool   `mapstructure:"qbit_tls_skip_verify"`
	BasicUser     string `mapstructure:"qbit_basic_user"`
	BasicPass     string `mapstructure:"qbit_basic_pass"`
}

// MonitorConfig contains the polling and recovery settings
type MonitorConfig struct {
	UpdateInterval       int    `mapstructure:"update_interval"`
	AddedCutoffSeconds   int    `mapstructure:"seconds_since_added_cutoff"`
	CreatedCutoffSeconds int    `mapstructure:"seconds_since_created_cutoff"`
	Filter               string `mapstructure:"torrent_filter"`
	DryRun               bool   `mapstructure:"dry_run"`
	ContinueOnError      bool   `mapstructure:"continue_on_error"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"`
	Color  bool   `mapstructure:"log_color"`
}

// PollInterval returns the time to sleep between iterations.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.UpdateInterval) * time.Second
}

// AddedCutoff returns the maximum age since a torrent was added.
func (c *Config) AddedCutoff() time.Duration {
	return time.Duration(c.Monitor.AddedCutoffSeconds) * time.Second
}

// CreatedCutoff returns the maximum age of a torrent's metadata.
func (c *Config) CreatedCutoff() time.Duration {
	return time.Duration(c.Monitor.CreatedCutoffSeconds) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout for qBittorrent.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.QBittorrent.Timeout) * time.Second
}
