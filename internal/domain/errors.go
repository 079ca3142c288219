package domain

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a failure of the download pipeline
type ErrorKind int

const (
	KindTitleCommandLaunchFailed ErrorKind = iota + 1
	KindTitleProcessKilled
	KindTitleProcessExitError
	KindVideoCommandLaunchFailed
	KindVideoProcessKilled
	KindVideoProcessExitError
	KindTempFileOpenFailed
	KindOutputDecodeFailed
)

// Phase is the pipeline phase an error belongs to
type Phase string

const (
	PhaseTitle Phase = "title"
	PhaseFetch Phase = "fetch"
)

var kindNames = map[ErrorKind]string{
	KindTitleCommandLaunchFailed: "title_command_launch_failed",
	KindTitleProcessKilled:       "title_process_killed",
	KindTitleProcessExitError:    "title_process_exit_error",
	KindVideoCommandLaunchFailed: "video_command_launch_failed",
	KindVideoProcessKilled:       "video_process_killed",
	KindVideoProcessExitError:    "video_process_exit_error",
	KindTempFileOpenFailed:       "temp_file_open_failed",
	KindOutputDecodeFailed:       "output_decode_failed",
}

// String returns the snake_case name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_error_kind(%d)", int(k))
}

// DownloadError is the error type returned by the title and fetch phases.
// ExitCode is only meaningful for the *ProcessExitError kinds.
type DownloadError struct {
	Kind     ErrorKind
	ExitCode int
	Err      error
}

// NewDownloadError creates a DownloadError wrapping an underlying cause
func NewDownloadError(kind ErrorKind, cause error) *DownloadError {
	return &DownloadError{Kind: kind, Err: cause}
}

// NewExitError creates a DownloadError for a non-zero process exit
func NewExitError(kind ErrorKind, code int) *DownloadError {
	return &DownloadError{Kind: kind, ExitCode: code}
}

func (e *DownloadError) Error() string {
	var msg string
	switch e.Kind {
	case KindTitleCommandLaunchFailed:
		msg = "failed to run title command"
	case KindTitleProcessKilled:
		msg = "title command exited with no status code"
	case KindTitleProcessExitError:
		msg = fmt.Sprintf("title command exited with status code %d", e.ExitCode)
	case KindVideoCommandLaunchFailed:
		msg = "failed to run video command"
	case KindVideoProcessKilled:
		msg = "video command exited with no status code"
	case KindVideoProcessExitError:
		msg = fmt.Sprintf("video command exited with status code %d", e.ExitCode)
	case KindTempFileOpenFailed:
		msg = "failed to open temp file"
	case KindOutputDecodeFailed:
		msg = "UTF-8 conversion failed"
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Is matches another *DownloadError by kind, so sentinel comparisons work with errors.Is
func (e *DownloadError) Is(target error) bool {
	t, ok := target.(*DownloadError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.ExitCode == 0 || t.ExitCode == e.ExitCode)
}

// Phase returns the phase the error was raised in.
// OutputDecodeFailed is only raised while resolving titles.
func (e *DownloadError) Phase() Phase {
	switch e.Kind {
	case KindVideoCommandLaunchFailed, KindVideoProcessKilled, KindVideoProcessExitError, KindTempFileOpenFailed:
		return PhaseFetch
	default:
		return PhaseTitle
	}
}

// ErrorKindOf returns the kind of the first DownloadError in err's chain
func ErrorKindOf(err error) (ErrorKind, bool) {
	var de *DownloadError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
