package media

import "errors"

// Failure classes for the compositor pipeline. Callers match with errors.Is;
// wrapped messages carry the offending file and the ffmpeg stderr tail.
var (
	// ErrDownloadFailed marks a network or HTTP failure fetching a source.
	ErrDownloadFailed = errors.New("download failed")

	// ErrTrimFailed marks an invalid trim window or a transcoder error.
	ErrTrimFailed = errors.New("trim failed")

	// ErrStitchFailed means both the stream-copy and the re-encode
	// concatenation paths failed.
	ErrStitchFailed = errors.New("stitch failed")

	// ErrOverlayFailed marks a text overlay filter-graph error.
	ErrOverlayFailed = errors.New("text overlay failed")
)
