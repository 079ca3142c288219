package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/ytdlp-web-go/internal/app"
	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"go.uber.org/zap"
)

// DownloadErrorBody is the fixed body returned when the media cannot be fetched
const DownloadErrorBody = "Error downloading video stream"

// DownloadHandler handles GET /api/download
type DownloadHandler struct {
	service *app.DownloadService
	logger  *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(service *app.DownloadService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		service: service,
		logger:  logger,
	}
}

// Download handles GET /api/download?url=
func (h *DownloadHandler) Download(c *gin.Context) {
	var req domain.DownloadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	prepared, err := h.service.Prepare(c.Request.Context(), req.URL)
	if err != nil {
		c.String(http.StatusInternalServerError, DownloadErrorBody)
		return
	}

	headers := map[string]string{
		"Content-Disposition": ContentDisposition(prepared.Title),
	}
	size := prepared.Stream.Size()

	h.logger.Debug("Response headers",
		zap.String("content_disposition", headers["Content-Disposition"]),
		zap.String("content_type", "application/octet-stream"),
		zap.Int64("content_length", size),
	)

	var sendErr error
	defer func() {
		if err := h.service.Finish(prepared, sendErr); err != nil {
			h.logger.Warn("Failed to release temp file", zap.Error(err))
		}
	}()

	c.DataFromReader(http.StatusOK, size, "application/octet-stream", prepared.Stream, headers)

	if last := c.Errors.Last(); last != nil {
		sendErr = last.Err
	} else if err := c.Request.Context().Err(); err != nil && !prepared.Stream.Completed() {
		sendErr = err
	}
}
