package config

import "time"

// Encoding constants
const (
	// VideoCodec is the video encoding codec for re-encode paths
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec for re-encode paths
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Processing constants
const (
	// MaxConcurrentClips bounds how many clips are fetched and trimmed at once
	MaxConcurrentClips = 3

	// DownloadTimeout bounds a single source download
	DownloadTimeout = 5 * time.Minute

	// TrimTimeout bounds a single trim transcode
	TrimTimeout = 10 * time.Minute

	// StitchTimeout bounds one concatenation attempt (per path)
	StitchTimeout = 20 * time.Minute

	// OverlayTimeout bounds the text overlay pass
	OverlayTimeout = 10 * time.Minute

	// RenderTimeout bounds one scene renderer subprocess run
	RenderTimeout = 10 * time.Minute
)

// Directory constants
const (
	// OutputDir is where finished exports land before upload
	OutputDir = "output"

	// TempDirPattern names per-job working directories under os.TempDir
	TempDirPattern = "animatic-job-*"
)
