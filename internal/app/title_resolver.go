package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"go.uber.org/zap"
)

// TitleResolver asks the extractor for the filename a download would get
type TitleResolver struct {
	extractor domain.Extractor
	logger    *zap.Logger
}

// NewTitleResolver creates a new title resolver
func NewTitleResolver(extractor domain.Extractor, logger *zap.Logger) *TitleResolver {
	return &TitleResolver{
		extractor: extractor,
		logger:    logger,
	}
}

// Resolve returns the trimmed title printed by the extractor. It is not retried.
func (r *TitleResolver) Resolve(ctx context.Context, url string) (string, error) {
	result, err := r.extractor.PrintFilename(ctx, url)
	if err != nil {
		return "", domain.NewDownloadError(domain.KindTitleCommandLaunchFailed, err)
	}

	r.logger.Debug("Title command finished",
		zap.Intp("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration))

	if result.Killed() {
		return "", domain.NewDownloadError(domain.KindTitleProcessKilled, nil)
	}
	if !result.Succeeded() {
		return "", domain.NewExitError(domain.KindTitleProcessExitError, *result.ExitCode)
	}

	if !utf8.Valid(result.Stdout) {
		return "", domain.NewDownloadError(domain.KindOutputDecodeFailed, nil)
	}

	return strings.TrimSpace(string(result.Stdout)), nil
}
