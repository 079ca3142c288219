package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FallbackTitle is used whenever the extractor cannot report a title
const FallbackTitle = "video"

// ErrEmptyURL is returned when a download request carries no url
var ErrEmptyURL = errors.New("url is required")

// DownloadRequest is the inbound request of /api/download
type DownloadRequest struct {
	URL string `form:"url"`
}

// Validate checks the request invariant; the URL itself is left to the extractor
func (r DownloadRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrEmptyURL
	}
	return nil
}

// DownloadStatus is the state of one request in the download pipeline
type DownloadStatus string

const (
	StatusResolving DownloadStatus = "resolving"
	StatusFetching  DownloadStatus = "fetching"
	StatusStreaming DownloadStatus = "streaming"
	StatusCompleted DownloadStatus = "completed"
	StatusFailed    DownloadStatus = "failed"
	StatusAborted   DownloadStatus = "aborted"
)

// DownloadRecord is the audit entry of one download request
type DownloadRecord struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	URL           string         `json:"url" gorm:"not null"`
	Title         string         `json:"title,omitempty"`
	TitleFallback bool           `json:"title_fallback"`
	Status        DownloadStatus `json:"status" gorm:"not null;index"`
	ErrorKind     string         `json:"error_kind,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	BytesSent     int64          `json:"bytes_sent"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// NewDownloadRecord creates a record for a freshly received request
func NewDownloadRecord(url string) *DownloadRecord {
	now := time.Now()
	return &DownloadRecord{
		ID:        uuid.New().String(),
		URL:       url,
		Status:    StatusResolving,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkFetching records the resolved title and moves the record to fetching
func (d *DownloadRecord) MarkFetching(title string, fallback bool) {
	d.Title = title
	d.TitleFallback = fallback
	d.Status = StatusFetching
	d.UpdatedAt = time.Now()
}

// MarkStreaming marks the record as streaming to the client
func (d *DownloadRecord) MarkStreaming() {
	d.Status = StatusStreaming
	d.UpdatedAt = time.Now()
}

// MarkCompleted marks the record as fully sent
func (d *DownloadRecord) MarkCompleted(bytesSent int64) {
	d.finish(StatusCompleted, bytesSent)
}

// MarkAborted marks the record as abandoned mid-stream
func (d *DownloadRecord) MarkAborted(bytesSent int64, err error) {
	d.finish(StatusAborted, bytesSent)
	if err != nil {
		d.ErrorMessage = err.Error()
	}
}

// MarkFailed marks the record as failed before streaming started
func (d *DownloadRecord) MarkFailed(err error) {
	d.finish(StatusFailed, 0)
	d.ErrorMessage = err.Error()
	if kind, ok := ErrorKindOf(err); ok {
		d.ErrorKind = kind.String()
	}
}

func (d *DownloadRecord) finish(status DownloadStatus, bytesSent int64) {
	now := time.Now()
	d.Status = status
	d.BytesSent = bytesSent
	d.CompletedAt = &now
	d.UpdatedAt = now
}

// IsTerminal checks if the record is in a terminal state
func (d *DownloadRecord) IsTerminal() bool {
	return d.Status == StatusCompleted || d.Status == StatusFailed || d.Status == StatusAborted
}
