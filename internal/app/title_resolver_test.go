package app

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"github.com/yourusername/ytdlp-web-go/internal/testsupport"
	"go.uber.org/zap/zaptest"
)

func TestTitleResolver_Success(t *testing.T) {
	extractor := testsupport.NewFakeExtractor("  My Clip [abc123].mp4 \n", nil)
	resolver := NewTitleResolver(extractor, zaptest.NewLogger(t))

	title, err := resolver.Resolve(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, "My Clip [abc123].mp4", title)
	assert.Equal(t, []string{"https://example.com/v"}, extractor.TitleCalls)
}

func TestTitleResolver_Failures(t *testing.T) {
	nonZero := domain.ExitedWith(2)
	invalidUTF8 := domain.ExitedWith(0)
	invalidUTF8.Stdout = []byte{0xff, 0xfe, 'a'}

	tests := []struct {
		name     string
		result   *domain.ProcessResult
		err      error
		kind     domain.ErrorKind
		exitCode int
	}{
		{name: "launch failure", err: exec.ErrNotFound, kind: domain.KindTitleCommandLaunchFailed},
		{name: "killed", result: &domain.ProcessResult{}, kind: domain.KindTitleProcessKilled},
		{name: "non-zero exit", result: nonZero, kind: domain.KindTitleProcessExitError, exitCode: 2},
		{name: "invalid utf-8", result: invalidUTF8, kind: domain.KindOutputDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &testsupport.FakeExtractor{TitleResult: tt.result, TitleErr: tt.err}
			resolver := NewTitleResolver(extractor, zaptest.NewLogger(t))

			title, err := resolver.Resolve(context.Background(), "https://example.com/v")
			assert.Empty(t, title)

			var de *domain.DownloadError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.exitCode, de.ExitCode)
			assert.Equal(t, domain.PhaseTitle, de.Phase())
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestTitleResolver_NotRetried(t *testing.T) {
	extractor := &testsupport.FakeExtractor{TitleResult: domain.ExitedWith(1)}
	resolver := NewTitleResolver(extractor, zaptest.NewLogger(t))

	_, err := resolver.Resolve(context.Background(), "https://example.com/v")
	assert.Error(t, err)
	assert.Len(t, extractor.TitleCalls, 1)
}
