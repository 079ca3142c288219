package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yourusername/ytdlp-web-go/internal/domain"
)

// LoadConfig loads configuration from .env, the config file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, config)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.ytdlp-web")
		v.AddConfigPath("/etc/ytdlp-web")
	}

	v.SetEnvPrefix("YTDLPWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain PORT is honoured for container platforms
	if err := v.BindEnv("server.port", "YTDLPWEB_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file
func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("server.static_dir", config.Server.StaticDir)
	v.SetDefault("server.shutdown_timeout", config.Server.ShutdownTimeout)
	v.SetDefault("extractor.binary", config.Extractor.Binary)
	v.SetDefault("extractor.format_sort", config.Extractor.FormatSort)
	v.SetDefault("extractor.recode_container", config.Extractor.RecodeContainer)
	v.SetDefault("extractor.timeout", config.Extractor.Timeout)
	v.SetDefault("extractor.extra_args", config.Extractor.ExtraArgs)
	v.SetDefault("storage.temp_dir", config.Storage.TempDir)
	v.SetDefault("storage.file_prefix", config.Storage.FilePrefix)
	v.SetDefault("history.enabled", config.History.Enabled)
	v.SetDefault("history.driver", config.History.Driver)
	v.SetDefault("history.dsn", config.History.DSN)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Server.StaticDir = expandPath(config.Server.StaticDir)
	config.Storage.TempDir = expandPath(config.Storage.TempDir)
	config.Extractor.Binary = expandPath(config.Extractor.Binary)

	if config.History.Driver != domain.HistoryDriverPostgres {
		config.History.DSN = expandPath(config.History.DSN)
	}

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}

	if config.Extractor.Binary == "" {
		return fmt.Errorf("extractor binary not configured")
	}

	if config.Extractor.RecodeContainer == "" {
		return fmt.Errorf("extractor recode container not configured")
	}

	if config.Extractor.Timeout < 0 {
		return fmt.Errorf("extractor timeout cannot be negative")
	}

	if config.Storage.FilePrefix == "" {
		return fmt.Errorf("temp file prefix not configured")
	}

	if strings.ContainsRune(config.Storage.FilePrefix, os.PathSeparator) {
		return fmt.Errorf("temp file prefix must not contain a path separator")
	}

	if config.History.Enabled {
		switch config.History.Driver {
		case domain.HistoryDriverSQLite, domain.HistoryDriverPostgres:
		default:
			return fmt.Errorf("unsupported history driver: %s", config.History.Driver)
		}
		if config.History.DSN == "" {
			return fmt.Errorf("history dsn not configured")
		}
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
