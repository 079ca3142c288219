package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Storage   StorageConfig   `mapstructure:"storage"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	StaticDir       string        `mapstructure:"static_dir"` // empty serves the embedded assets
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ExtractorConfig contains the external extractor (yt-dlp) configuration
type ExtractorConfig struct {
	Binary          string        `mapstructure:"binary"`
	FormatSort      string        `mapstructure:"format_sort"`
	RecodeContainer string        `mapstructure:"recode_container"`
	Timeout         time.Duration `mapstructure:"timeout"` // 0 disables the per-invocation timeout
	ExtraArgs       []string      `mapstructure:"extra_args"`
}

// StorageConfig contains temp file configuration
type StorageConfig struct {
	TempDir    string `mapstructure:"temp_dir"` // empty uses the OS temp directory
	FilePrefix string `mapstructure:"file_prefix"`
}

// HistoryConfig contains download history configuration
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"` // sqlite, postgres
	DSN     string `mapstructure:"dsn"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// Supported history drivers
const (
	HistoryDriverSQLite   = "sqlite"
	HistoryDriverPostgres = "postgres"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			StaticDir:       "",
			ShutdownTimeout: 30 * time.Second,
		},
		Extractor: ExtractorConfig{
			Binary:          "yt-dlp",
			FormatSort:      "res,ext:mp4:m4a",
			RecodeContainer: "mp4",
			Timeout:         30 * time.Minute,
		},
		Storage: StorageConfig{
			TempDir:    "",
			FilePrefix: "ytdlp-web-",
		},
		History: HistoryConfig{
			Enabled: false,
			Driver:  HistoryDriverSQLite,
			DSN:     "$HOME/.ytdlp-web/history.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
