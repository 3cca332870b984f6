package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv blanks every known variable and applies values on top.
func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range append(append([]string{}, requiredKeys...), optionalKeys...) {
		t.Setenv(strings.ToUpper(key), "")
	}
	for k, v := range values {
		t.Setenv(k, v)
	}
}

func requiredEnv() map[string]string {
	return map[string]string{
		"QBIT_HOSTNAME": "qbit.local",
		"QBIT_USERNAME": "admin",
		"QBIT_PASSWORD": "adminadmin",
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, requiredEnv())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "qbit.local", cfg.QBittorrent.Hostname)
	assert.Equal(t, 8080, cfg.QBittorrent.Port)
	assert.Equal(t, "admin", cfg.QBittorrent.Username)
	assert.Equal(t, "adminadmin", cfg.QBittorrent.Password)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 10*time.Second, cfg.PollInterval())
	assert.Equal(t, 30*time.Minute, cfg.AddedCutoff())
	assert.Equal(t, time.Hour, cfg.CreatedCutoff())
	assert.False(t, cfg.Monitor.DryRun)
	assert.False(t, cfg.Monitor.ContinueOnError)
	assert.Empty(t, cfg.Monitor.Filter)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
}

func TestLoadOverrides(t *testing.T) {
	env := requiredEnv()
	env["QBIT_PORT"] = "9091"
	env["UPDATE_INTERVAL"] = "5"
	env["SECONDS_SINCE_ADDED_CUTOFF"] = "600"
	env["SECONDS_SINCE_CREATED_CUTOFF"] = "7200"
	env["TORRENT_FILTER"] = `Category == "movies"`
	env["DRY_RUN"] = "true"
	env["CONTINUE_ON_ERROR"] = "true"
	env["LOG_FORMAT"] = "json"
	setEnv(t, env)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9091, cfg.QBittorrent.Port)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, 10*time.Minute, cfg.AddedCutoff())
	assert.Equal(t, 2*time.Hour, cfg.CreatedCutoff())
	assert.Equal(t, `Category == "movies"`, cfg.Monitor.Filter)
	assert.True(t, cfg.Monitor.DryRun)
	assert.True(t, cfg.Monitor.ContinueOnError)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingRequired(t *testing.T) {
	setEnv(t, map[string]string{"QBIT_USERNAME": "admin"})

	_, err := Load("")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"QBIT_HOSTNAME", "QBIT_PASSWORD"}, cfgErr.Keys)
	assert.Contains(t, err.Error(), "QBIT_HOSTNAME")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qracee.env")
	content := "QBIT_HOSTNAME=from-file\nQBIT_USERNAME=file-user\nQBIT_PASSWORD=secret\nUPDATE_INTERVAL=30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// The process environment wins over the file.
	setEnv(t, map[string]string{"QBIT_USERNAME": "env-user"})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.QBittorrent.Hostname)
	assert.Equal(t, "env-user", cfg.QBittorrent.Username)
	assert.Equal(t, "secret", cfg.QBittorrent.Password)
	assert.Equal(t, 30*time.Second, cfg.PollInterval())
}

func TestLoadExplicitEnvFileMissing(t *testing.T) {
	setEnv(t, requiredEnv())

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantKey string
	}{
		{
			name:    "port out of range",
			key:     "QBIT_PORT",
			value:   "70000",
			wantKey: "QBIT_PORT",
		},
		{
			name:    "zero interval",
			key:     "UPDATE_INTERVAL",
			value:   "0",
			wantKey: "UPDATE_INTERVAL",
		},
		{
			name:    "negative added cutoff",
			key:     "SECONDS_SINCE_ADDED_CUTOFF",
			value:   "-1",
			wantKey: "SECONDS_SINCE_ADDED_CUTOFF",
		},
		{
			name:    "negative created cutoff",
			key:     "SECONDS_SINCE_CREATED_CUTOFF",
			value:   "-5",
			wantKey: "SECONDS_SINCE_CREATED_CUTOFF",
		},
		{
			name:    "unknown log level",
			key:     "LOG_LEVEL",
			value:   "trace",
			wantKey: "LOG_LEVEL",
		},
		{
			name:    "unknown log format",
			key:     "LOG_FORMAT",
			value:   "xml",
			wantKey: "LOG_FORMAT",
		},
		{
			name:  "non numeric port",
			key:   "QBIT_PORT",
			value: "http",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := requiredEnv()
			env[tt.key] = tt.value
			setEnv(t, env)

			_, err := Load("")
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			if tt.wantKey != "" {
				assert.Equal(t, []string{tt.wantKey}, cfgErr.Keys)
			}
		})
	}
}
