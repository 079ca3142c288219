package domain

import (
	"context"
	"time"
)

// Extractor is the external media extractor invoked as a black box.
// The returned error reports a launch failure only; a process that ran
// always yields a ProcessResult, whatever its exit status.
type Extractor interface {
	// PrintFilename asks the extractor for the destination filename of url without downloading
	PrintFilename(ctx context.Context, url string) (*ProcessResult, error)

	// FetchFile asks the extractor to write the media of url to outputPath
	FetchFile(ctx context.Context, url, outputPath string) (*ProcessResult, error)
}

// ProcessResult is the outcome of one extractor invocation
type ProcessResult struct {
	ExitCode *int // nil when the process was terminated by a signal
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// ExitedWith returns a ProcessResult with the given exit code
func ExitedWith(code int) *ProcessResult {
	return &ProcessResult{ExitCode: &code}
}

// Killed reports whether the process ended without an exit status
func (r *ProcessResult) Killed() bool {
	return r.ExitCode == nil
}

// Succeeded reports whether the process exited with status 0
func (r *ProcessResult) Succeeded() bool {
	return r.ExitCode != nil && *r.ExitCode == 0
}
