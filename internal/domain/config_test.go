package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 3000, config.Server.Port)
	assert.Empty(t, config.Server.StaticDir)
	assert.Equal(t, 30*time.Second, config.Server.ShutdownTimeout)
	assert.Equal(t, "yt-dlp", config.Extractor.Binary)
	assert.Equal(t, "res,ext:mp4:m4a", config.Extractor.FormatSort)
	assert.Equal(t, "mp4", config.Extractor.RecodeContainer)
	assert.Equal(t, 30*time.Minute, config.Extractor.Timeout)
	assert.Equal(t, "ytdlp-web-", config.Storage.FilePrefix)
	assert.False(t, config.History.Enabled)
	assert.Equal(t, HistoryDriverSQLite, config.History.Driver)
	assert.Equal(t, "info", config.Logging.Level)
}
