package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"go.uber.org/zap"
)

// waitDelay bounds how long Wait blocks on pipes held open by the
// extractor's own children (ffmpeg) after the process was killed.
const waitDelay = 5 * time.Second

// YTDLPExtractor implements domain.Extractor by running yt-dlp
type YTDLPExtractor struct {
	config *domain.ExtractorConfig
	logger *zap.Logger
}

// NewYTDLPExtractor creates a new yt-dlp extractor
func NewYTDLPExtractor(config *domain.ExtractorConfig, logger *zap.Logger) *YTDLPExtractor {
	return &YTDLPExtractor{
		config: config,
		logger: logger.Named("extractor"),
	}
}

// Available reports whether the configured binary can be found
func (e *YTDLPExtractor) Available() error {
	if _, err := exec.LookPath(e.config.Binary); err != nil {
		return fmt.Errorf("extractor binary %q not found: %w", e.config.Binary, err)
	}
	return nil
}

// TitleArgs builds the arguments for print-filename mode
func (e *YTDLPExtractor) TitleArgs(url string) []string {
	args := e.baseArgs()
	args = append(args, "--print", "filename", "--", url)
	return args
}

// FetchArgs builds the arguments for writing the media to outputPath
func (e *YTDLPExtractor) FetchArgs(url, outputPath string) []string {
	args := e.baseArgs()
	args = append(args, "-o", outputPath, "--", url)
	return args
}

func (e *YTDLPExtractor) baseArgs() []string {
	args := []string{
		"-S", e.config.FormatSort,
		"--recode", e.config.RecodeContainer,
	}
	return append(args, e.config.ExtraArgs...)
}

// PrintFilename runs yt-dlp in print-filename mode
func (e *YTDLPExtractor) PrintFilename(ctx context.Context, url string) (*domain.ProcessResult, error) {
	return e.run(ctx, e.TitleArgs(url))
}

// FetchFile runs yt-dlp writing the media file to outputPath
func (e *YTDLPExtractor) FetchFile(ctx context.Context, url, outputPath string) (*domain.ProcessResult, error) {
	return e.run(ctx, e.FetchArgs(url, outputPath))
}

func (e *YTDLPExtractor) run(ctx context.Context, args []string) (*domain.ProcessResult, error) {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	e.logger.Debug("Running extractor", zap.String("command", ShellEscapeCommand(e.config.Binary, args...)))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	result := &domain.ProcessResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	// ErrWaitDelay means the process exited 0 but a child kept the output pipes open
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		code := 0
		result.ExitCode = &code
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the process was terminated by a signal
		if code := exitErr.ExitCode(); code >= 0 {
			result.ExitCode = &code
		}
		e.logger.Debug("Extractor exited unsuccessfully",
			zap.Error(err),
			zap.Bool("context_done", ctx.Err() != nil),
			zap.Duration("duration", result.Duration))
		return result, nil
	}

	// A request context that ended before Start is a cancellation, not a launch failure
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		e.logger.Debug("Extractor not started, context done", zap.Error(err))
		return result, nil
	}

	return nil, fmt.Errorf("failed to start %s: %w", e.config.Binary, err)
}
