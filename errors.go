package modseq

import "errors"

// Sentinel errors returned by the outermost Load entrypoint.
// Errors from inside the pipeline's stages never escape as Go error
// values; they are recorded as the Error string on a Failed ModMetadata
// instead. These sentinels cover the handful of conditions that are
// exceptional at the library boundary itself.
var (
	// ErrNoRoot is returned when Load is called with an empty root path.
	ErrNoRoot = errors.New("modseq: root directory path is empty")

	// ErrRootUnreadable is returned when the root directory cannot be
	// listed at all. Individual unreadable child directories are skipped,
	// not fatal; only the root itself is.
	ErrRootUnreadable = errors.New("modseq: root directory is unreadable")
)
