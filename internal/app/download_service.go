package app

import (
	"context"
	"errors"

	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"github.com/yourusername/ytdlp-web-go/internal/infrastructure"
	"go.uber.org/zap"
)

// ErrNoStream is returned by Finish when the download never reached streaming
var ErrNoStream = errors.New("download has no stream")

// PreparedDownload is a download whose media is on disk and ready to stream
type PreparedDownload struct {
	Title         string
	TitleFallback bool
	Stream        *infrastructure.MediaStream
	record        *domain.DownloadRecord
}

// DownloadService runs the title and fetch phases of one request
type DownloadService struct {
	titles  *TitleResolver
	fetcher *VideoFetcher
	history domain.HistoryRepository // optional
	logger  *zap.Logger
}

// NewDownloadService creates a new download service. history may be nil.
func NewDownloadService(
	extractor domain.Extractor,
	store *infrastructure.TempFileStore,
	history domain.HistoryRepository,
	logger *zap.Logger,
) *DownloadService {
	logger = logger.Named("download")
	return &DownloadService{
		titles:  NewTitleResolver(extractor, logger),
		fetcher: NewVideoFetcher(extractor, store, logger),
		history: history,
		logger:  logger,
	}
}

// Prepare resolves the title, falling back to domain.FallbackTitle on any
// failure, then fetches the media. Only fetch failures are returned.
func (s *DownloadService) Prepare(ctx context.Context, url string) (*PreparedDownload, error) {
	record := domain.NewDownloadRecord(url)
	log := s.logger.With(zap.String("request_id", record.ID), zap.String("url", url))
	s.createRecord(record)

	title, err := s.titles.Resolve(ctx, url)
	fallback := false
	switch {
	case err != nil:
		log.Error("Failed to get title, defaulting", zap.Error(err))
		title, fallback = domain.FallbackTitle, true
	case title == "":
		log.Warn("Extractor printed an empty title, defaulting")
		title, fallback = domain.FallbackTitle, true
	default:
		log.Info("Title resolved", zap.String("title", title))
	}

	record.MarkFetching(title, fallback)
	s.updateRecord(record)

	stream, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("Error when downloading video", zap.Error(err))
		record.MarkFailed(err)
		s.updateRecord(record)
		return nil, err
	}

	log.Info("Video ready to stream",
		zap.String("path", stream.Path()),
		zap.Int64("size", stream.Size()))

	record.MarkStreaming()
	s.updateRecord(record)

	return &PreparedDownload{
		Title:         title,
		TitleFallback: fallback,
		Stream:        stream,
		record:        record,
	}, nil
}

// Finish closes the stream, which removes the temp file, and records the outcome.
// sendErr is the error the transport reported while writing the body, if any.
func (s *DownloadService) Finish(prepared *PreparedDownload, sendErr error) error {
	if prepared == nil || prepared.Stream == nil {
		return ErrNoStream
	}

	closeErr := prepared.Stream.Close()
	sent := prepared.Stream.BytesRead()
	log := s.logger.With(zap.String("request_id", prepared.record.ID))

	if sendErr == nil && prepared.Stream.Completed() {
		log.Info("Stream completed", zap.Int64("bytes", sent))
		prepared.record.MarkCompleted(sent)
	} else {
		if sendErr == nil {
			sendErr = errors.New("stream closed before end of file")
		}
		log.Warn("Stream aborted", zap.Int64("bytes", sent), zap.Error(sendErr))
		prepared.record.MarkAborted(sent, sendErr)
	}
	s.updateRecord(prepared.record)

	return closeErr
}

func (s *DownloadService) createRecord(record *domain.DownloadRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Create(record); err != nil {
		s.logger.Warn("Failed to store download record", zap.String("request_id", record.ID), zap.Error(err))
	}
}

func (s *DownloadService) updateRecord(record *domain.DownloadRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Update(record); err != nil {
		s.logger.Warn("Failed to update download record", zap.String("request_id", record.ID), zap.Error(err))
	}
}
