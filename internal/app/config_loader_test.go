package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ytdlp-web-go/internal/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORT", "")
	t.Setenv("YTDLPWEB_SERVER_PORT", "")
	return home
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := isolateEnv(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "yt-dlp", config.Extractor.Binary)
	assert.Equal(t, "res,ext:mp4:m4a", config.Extractor.FormatSort)
	assert.Equal(t, filepath.Join(home, ".ytdlp-web", "history.db"), config.History.DSN)
}

func TestLoadConfig_FromFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, `
server:
  host: 127.0.0.1
  port: 8088
  static_dir: ~/site
extractor:
  binary: /usr/local/bin/yt-dlp
  timeout: 90s
  extra_args: ["--no-playlist"]
storage:
  file_prefix: media-
history:
  enabled: true
  driver: sqlite
  dsn: /var/lib/ytdlp-web/history.db
logging:
  level: debug
  format: json
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 8088, config.Server.Port)
	assert.Equal(t, filepath.Join(home, "site"), config.Server.StaticDir)
	assert.Equal(t, "/usr/local/bin/yt-dlp", config.Extractor.Binary)
	assert.Equal(t, 90*time.Second, config.Extractor.Timeout)
	assert.Equal(t, []string{"--no-playlist"}, config.Extractor.ExtraArgs)
	assert.Equal(t, "mp4", config.Extractor.RecodeContainer, "unset keys keep defaults")
	assert.Equal(t, "media-", config.Storage.FilePrefix)
	assert.True(t, config.History.Enabled)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
}

func TestLoadConfig_PortFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "4100")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 4100, config.Server.Port)
}

func TestLoadConfig_PrefixedEnvWins(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "4100")
	t.Setenv("YTDLPWEB_SERVER_PORT", "4200")
	t.Setenv("YTDLPWEB_EXTRACTOR_BINARY", "/opt/yt-dlp")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 4200, config.Server.Port)
	assert.Equal(t, "/opt/yt-dlp", config.Extractor.Binary)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolateEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"port", "server:\n  port: 70000\n", "invalid server port"},
		{"binary", "extractor:\n  binary: \"\"\n", "extractor binary not configured"},
		{"prefix", "storage:\n  file_prefix: a/b\n", "path separator"},
		{"driver", "history:\n  enabled: true\n  driver: mongodb\n", "unsupported history driver"},
		{"timeout", "extractor:\n  timeout: -1s\n", "timeout cannot be negative"},
		{"shutdown", "server:\n  shutdown_timeout: 0s\n", "shutdown timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestValidateConfig_FillsLogLevel(t *testing.T) {
	config := domain.DefaultConfig()
	config.Logging.Level = ""

	require.NoError(t, validateConfig(config))
	assert.Equal(t, "info", config.Logging.Level)
}
