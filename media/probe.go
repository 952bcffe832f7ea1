package media

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo is the subset of ffprobe output the pipeline cares about.
type VideoInfo struct {
	Duration   float64
	Width      int
	Height     int
	FPS        float64
	HasAudio   bool
	VideoCodec string
	AudioCodec string
}

// Probe inspects a local media file with ffprobe.
func (e *Engine) Probe(path string) (*VideoInfo, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}
	return ParseProbeOutput(out)
}

// probeResult matches ffprobe's -print_format json layout.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// ParseProbeOutput decodes ffprobe JSON into a VideoInfo.
func ParseProbeOutput(raw string) (*VideoInfo, error) {
	var probe probeResult
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("cannot parse ffprobe output: %w", err)
	}

	info := &VideoInfo{}
	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = dur
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			info.Width = stream.Width
			info.Height = stream.Height
			info.VideoCodec = stream.CodecName
			info.FPS = parseFrameRate(stream.RFrameRate)
		case "audio":
			info.HasAudio = true
			info.AudioCodec = stream.CodecName
		}
	}
	return info, nil
}

// parseFrameRate converts ffprobe's "num/den" frame rate to a float.
func parseFrameRate(r string) float64 {
	parts := strings.SplitN(r, "/", 2)
	if len(parts) != 2 {
		f, _ := strconv.ParseFloat(r, 64)
		return f
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
