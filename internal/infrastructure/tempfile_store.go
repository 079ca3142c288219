package infrastructure

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TempFileStore allocates per-request temp file paths.
// Uniqueness comes from a random UUID; no existence check is made.
type TempFileStore struct {
	dir    string
	prefix string
	ext    string
	logger *zap.Logger
}

// NewTempFileStore creates a store under dir (the OS temp dir when empty)
func NewTempFileStore(dir, prefix, container string, logger *zap.Logger) *TempFileStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempFileStore{
		dir:    dir,
		prefix: prefix,
		ext:    "." + container,
		logger: logger.Named("tempfile"),
	}
}

// Dir returns the directory temp files are created in
func (s *TempFileStore) Dir() string {
	return s.dir
}

// Allocate reserves a unique path. Nothing is created on disk; the
// caller must Release the file (or Close the stream opened from it).
func (s *TempFileStore) Allocate() *TempMediaFile {
	name := fmt.Sprintf("%s%s%s", s.prefix, uuid.New().String(), s.ext)
	return &TempMediaFile{
		path:   filepath.Join(s.dir, name),
		logger: s.logger,
	}
}

// TempMediaFile is the temp file of one request
type TempMediaFile struct {
	path       string
	logger     *zap.Logger
	once       sync.Once
	releaseErr error
}

// Path returns the file path handed to the extractor
func (f *TempMediaFile) Path() string {
	return f.path
}

// Open opens the completed file for streaming. On success the returned
// stream owns the file and releases it when closed.
func (f *TempMediaFile) Open() (*MediaStream, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}

	var size int64 = -1
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	return &MediaStream{file: file, owner: f, size: size}, nil
}

// Release removes the file and any sibling artifacts the extractor left
// next to it (format streams, .part, .ytdl, intermediate recodes). Safe to
// call repeatedly.
func (f *TempMediaFile) Release() error {
	f.once.Do(func() {
		paths := append([]string{f.path}, siblingArtifacts(f.path)...)

		var errs []error
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
		}
		f.releaseErr = errors.Join(errs...)

		if f.releaseErr != nil {
			f.logger.Warn("Failed to remove temp file", zap.String("path", f.path), zap.Error(f.releaseErr))
		} else {
			f.logger.Debug("Removed temp file", zap.String("path", f.path))
		}
	})
	return f.releaseErr
}

// siblingArtifacts lists files named "<stem>.<anything>" next to path, where
// stem is the file name without its extension. yt-dlp names intermediates by
// inserting a tag before the extension (<stem>.f137.mp4, <stem>.temp.mp4) or
// appending one (<stem>.mp4.part).
func siblingArtifacts(path string) []string {
	dir, base := filepath.Split(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && name != base && strings.HasPrefix(name, stem+".") {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

// MediaStream is a forward-only reader over a completed temp file.
// Close closes the file and removes it from disk.
type MediaStream struct {
	file      *os.File
	owner     *TempMediaFile
	size      int64
	read      int64
	eof       bool
	closeOnce sync.Once
	closeErr  error
}

var _ io.ReadCloser = (*MediaStream)(nil)

func (m *MediaStream) Read(p []byte) (int, error) {
	n, err := m.file.Read(p)
	m.read += int64(n)
	if err == io.EOF {
		m.eof = true
	}
	return n, err
}

// Close releases the file handle and the temp file; it is idempotent
func (m *MediaStream) Close() error {
	m.closeOnce.Do(func() {
		closeErr := m.file.Close()
		releaseErr := m.owner.Release()
		m.closeErr = errors.Join(closeErr, releaseErr)
	})
	return m.closeErr
}

// Size returns the file size, or -1 when unknown
func (m *MediaStream) Size() int64 {
	return m.size
}

// BytesRead returns the number of bytes read so far
func (m *MediaStream) BytesRead() int64 {
	return m.read
}

// Completed reports whether the stream was read to the end
func (m *MediaStream) Completed() bool {
	return m.eof
}

// Path returns the path of the underlying temp file
func (m *MediaStream) Path() string {
	return m.owner.Path()
}
