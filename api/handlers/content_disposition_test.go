package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"unreserved untouched", "Clip-1_final.v2~.mp4", "Clip-1_final.v2~.mp4"},
		{"space", "My Clip.mp4", "My%20Clip.mp4"},
		{"reserved characters", "a#b?c&d/e", "a%23b%3Fc%26d%2Fe"},
		{"brackets from yt-dlp template", "Title [dQw4w9WgXcQ].mp4", "Title%20%5BdQw4w9WgXcQ%5D.mp4"},
		{"non-ascii", "café.mp4", "caf%C3%A9.mp4"},
		{"quotes and semicolons", `a"b;c`, "a%22b%3Bc"},
		{"plus and percent", "1+1=2%", "1%2B1%3D2%25"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeFilename(tt.title))
		})
	}
}

func TestEncodeFilename_RoundTrip(t *testing.T) {
	titles := []string{
		"video",
		"Never Gonna Give You Up [dQw4w9WgXcQ].mp4",
		"日本語のタイトル.mp4",
		"100% done #1 (live) & more!.mp4",
		"tab\tnewline\n.mp4",
	}

	for _, title := range titles {
		encoded := EncodeFilename(title)
		assert.NotContains(t, encoded, " ")
		assert.NotContains(t, encoded, ";")

		decoded, err := url.PathUnescape(encoded)
		require.NoError(t, err)
		assert.Equal(t, title, decoded)
	}
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, "attachment; filename=video", ContentDisposition("video"))
	assert.Equal(t, "attachment; filename=My%20Clip.mp4", ContentDisposition("My Clip.mp4"))
}
