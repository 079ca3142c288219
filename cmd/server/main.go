package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/ytdlp-web-go/api"
	"github.com/yourusername/ytdlp-web-go/internal/app"
	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"github.com/yourusername/ytdlp-web-go/internal/infrastructure"
	"github.com/yourusername/ytdlp-web-go/pkg/logger"
)

var (
	configPath string
	port       int
	rootCmd    = &cobra.Command{
		Use:          "ytdlp-web-server",
		Short:        "HTTP gateway that downloads videos with yt-dlp and streams them back",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := app.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				config.Server.Port = port
			}
			return runServer(config)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config and PORT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(config *domain.Config) error {
	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting ytdlp-web server",
		zap.String("version", api.Version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("extractor", config.Extractor.Binary),
		zap.Bool("history", config.History.Enabled))

	extractor := infrastructure.NewYTDLPExtractor(&config.Extractor, log)
	if err := extractor.Available(); err != nil {
		log.Warn("Extractor not available, downloads will fail until it is installed", zap.Error(err))
	}

	if config.Storage.TempDir != "" {
		if err := os.MkdirAll(config.Storage.TempDir, 0755); err != nil {
			return fmt.Errorf("failed to create temp directory: %w", err)
		}
	}
	store := infrastructure.NewTempFileStore(
		config.Storage.TempDir,
		config.Storage.FilePrefix,
		config.Extractor.RecodeContainer,
		log,
	)

	var history domain.HistoryRepository
	if config.History.Enabled {
		repo, err := infrastructure.NewHistoryRepository(&config.History)
		if err != nil {
			return fmt.Errorf("failed to initialize history: %w", err)
		}
		defer repo.Close()
		history = repo
		log.Info("Download history enabled", zap.String("driver", config.History.Driver))
	}

	service := app.NewDownloadService(extractor, store, history, log)
	router := api.SetupRouter(service, extractor, history, config.Server.StaticDir, log)

	addr := net.JoinHostPort(config.Server.Host, strconv.Itoa(config.Server.Port))
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err, ok := <-serveErr:
		if ok {
			log.Error("HTTP server failed", zap.Error(err))
			return err
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
