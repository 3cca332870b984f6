package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEnvFile is read when Load is called without an explicit path.
// A missing default file is not an error.
const DefaultEnvFile = ".env"

// requiredKeys have no default and must be provided.
var requiredKeys = []string{
	"qbit_hostname",
	"qbit_username",
	"qbit_password",
}

// optionalKeys are bound to the environment alongside requiredKeys.
var optionalKeys = []string{
	"qbit_port",
	"qbit_timeout",
	"qbit_tls_skip_verify",
	"qbit_basic_user",
	"qbit_basic_pass",
	"update_interval",
	"seconds_since_added_cutoff",
	"seconds_since_created_cutoff",
	"torrent_filter",
	"dry_run",
	"continue_on_error",
	"log_level",
	"log_format",
	"log_color",
}

// Load builds the configuration from the environment. Values from envFile
// (dotenv syntax) are used for variables that are not already set in the
// process environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	for _, key := range append(append([]string{}, requiredKeys...), optionalKeys...) {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", strings.ToUpper(key), err)
		}
	}

	if err := readEnvFile(v, envFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Reason: "error decoding environment", Err: err}
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// readEnvFile merges a dotenv file into v. Environment variables keep
// precedence over the file because viper ranks bound env above config.
func readEnvFile(v *viper.Viper, path string) error {
	optional := false
	if path == "" {
		path = DefaultEnvFile
		optional = true
	}

	if _, err := os.Stat(path); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &ConfigurationError{Reason: fmt.Sprintf("cannot read env file %q", path), Err: err}
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("error reading env file %q", path), Err: err}
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// qBittorrent defaults
	v.SetDefault("qbit_port", 8080)
	v.SetDefault("qbit_timeout", 30)
	v.SetDefault("qbit_tls_skip_verify", false)

	// Monitor defaults
	v.SetDefault("update_interval", 10)
	v.SetDefault("seconds_since_added_cutoff", 1800)
	v.SetDefault("seconds_since_created_cutoff", 3600)
	v.SetDefault("dry_run", false)
	v.SetDefault("continue_on_error", false)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	var missing []string
	values := map[string]string{
		"qbit_hostname": cfg.QBittorrent.Hostname,
		"qbit_username": cfg.QBittorrent.Username,
		"qbit_password": cfg.QBittorrent.Password,
	}
	for _, key := range requiredKeys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, strings.ToUpper(key))
		}
	}
	if len(missing) > 0 {
		return &ConfigurationError{Keys: missing, Reason: "missing required environment variables"}
	}

	if cfg.QBittorrent.Port < 1 || cfg.QBittorrent.Port > 65535 {
		return &ConfigurationError{Keys: []string{"QBIT_PORT"}, Reason: fmt.Sprintf("port %d out of range", cfg.QBittorrent.Port)}
	}

	if cfg.QBittorrent.Timeout < 0 {
		return &ConfigurationError{Keys: []string{"QBIT_TIMEOUT"}, Reason: "timeout must not be negative"}
	}

	if cfg.Monitor.UpdateInterval <= 0 {
		return &ConfigurationError{Keys: []string{"UPDATE_INTERVAL"}, Reason: "interval must be positive"}
	}

	if cfg.Monitor.AddedCutoffSeconds < 0 {
		return &ConfigurationError{Keys: []string{"SECONDS_SINCE_ADDED_CUTOFF"}, Reason: "cutoff must not be negative"}
	}

	if cfg.Monitor.CreatedCutoffSeconds < 0 {
		return &ConfigurationError{Keys: []string{"SECONDS_SINCE_CREATED_CUTOFF"}, Reason: "cutoff must not be negative"}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return &ConfigurationError{Keys: []string{"LOG_LEVEL"}, Reason: fmt.Sprintf("invalid logging level %q", cfg.Logging.Level)}
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		return &ConfigurationError{Keys: []string{"LOG_FORMAT"}, Reason: fmt.Sprintf("invalid logging format %q", cfg.Logging.Format)}
	}

	return nil
}
