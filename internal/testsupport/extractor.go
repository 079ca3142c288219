// Package testsupport provides fakes shared by package tests.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yourusername/ytdlp-web-go/internal/domain"
)

// FakeExtractor is an in-memory domain.Extractor.
// Zero-value title and fetch results mean a successful exit.
type FakeExtractor struct {
	mu sync.Mutex

	TitleResult *domain.ProcessResult
	TitleErr    error

	FetchResult *domain.ProcessResult
	FetchErr    error
	// FetchData is written to the output path before FetchResult is returned
	FetchData []byte
	// FetchArtifacts are suffixes appended to the output path's stem, the way
	// yt-dlp names intermediates (".f137.mp4", ".mp4.part")
	FetchArtifacts []string
	// FetchFunc, when set, replaces the canned fetch behaviour
	FetchFunc func(ctx context.Context, url, outputPath string) (*domain.ProcessResult, error)

	TitleCalls []string
	FetchPaths []string
}

// NewFakeExtractor returns a fake that reports title and writes data
func NewFakeExtractor(title string, data []byte) *FakeExtractor {
	result := domain.ExitedWith(0)
	result.Stdout = []byte(title + "\n")
	return &FakeExtractor{
		TitleResult: result,
		FetchData:   data,
	}
}

// PrintFilename implements domain.Extractor
func (f *FakeExtractor) PrintFilename(ctx context.Context, url string) (*domain.ProcessResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TitleCalls = append(f.TitleCalls, url)

	if f.TitleErr != nil {
		return nil, f.TitleErr
	}
	if f.TitleResult == nil {
		return domain.ExitedWith(0), nil
	}
	return f.TitleResult, nil
}

// FetchFile implements domain.Extractor
func (f *FakeExtractor) FetchFile(ctx context.Context, url, outputPath string) (*domain.ProcessResult, error) {
	f.mu.Lock()
	f.FetchPaths = append(f.FetchPaths, outputPath)
	fn := f.FetchFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, url, outputPath)
	}

	stem := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	for _, suffix := range f.FetchArtifacts {
		if err := os.WriteFile(stem+suffix, []byte("partial"), 0644); err != nil {
			return nil, err
		}
	}
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	if f.FetchData != nil {
		if err := os.WriteFile(outputPath, f.FetchData, 0644); err != nil {
			return nil, err
		}
	}
	if f.FetchResult == nil {
		return domain.ExitedWith(0), nil
	}
	return f.FetchResult, nil
}

// Paths returns a copy of the output paths passed to FetchFile
func (f *FakeExtractor) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.FetchPaths...)
}
