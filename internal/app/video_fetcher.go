package app

import (
	"context"
	"strings"

	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"github.com/yourusername/ytdlp-web-go/internal/infrastructure"
	"go.uber.org/zap"
)

// VideoFetcher has the extractor write the media to a temp file and opens it for streaming
type VideoFetcher struct {
	extractor domain.Extractor
	store     *infrastructure.TempFileStore
	logger    *zap.Logger
}

// NewVideoFetcher creates a new video fetcher
func NewVideoFetcher(extractor domain.Extractor, store *infrastructure.TempFileStore, logger *zap.Logger) *VideoFetcher {
	return &VideoFetcher{
		extractor: extractor,
		store:     store,
		logger:    logger,
	}
}

// Fetch downloads url into a fresh temp file and returns a stream over it.
// The caller must Close the stream; on error nothing is left on disk.
func (f *VideoFetcher) Fetch(ctx context.Context, url string) (stream *infrastructure.MediaStream, err error) {
	tmp := f.store.Allocate()
	f.logger.Debug("Temp file allocated", zap.String("path", tmp.Path()))

	defer func() {
		if err != nil {
			tmp.Release()
		}
	}()

	result, err := f.extractor.FetchFile(ctx, url, tmp.Path())
	if err != nil {
		return nil, domain.NewDownloadError(domain.KindVideoCommandLaunchFailed, err)
	}

	f.logger.Debug("Video command finished",
		zap.Intp("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
		zap.String("stdout", lossyString(result.Stdout)),
		zap.String("stderr", lossyString(result.Stderr)))

	if result.Killed() {
		return nil, domain.NewDownloadError(domain.KindVideoProcessKilled, nil)
	}
	if !result.Succeeded() {
		return nil, domain.NewExitError(domain.KindVideoProcessExitError, *result.ExitCode)
	}

	stream, err = tmp.Open()
	if err != nil {
		return nil, domain.NewDownloadError(domain.KindTempFileOpenFailed, err)
	}

	return stream, nil
}

// lossyString decodes extractor output for logging, replacing invalid UTF-8
func lossyString(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
