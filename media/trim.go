package media

import (
	"context"
	"fmt"

	"animatic/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// durationTolerance absorbs container rounding when validating trim windows
// against the probed source duration.
const durationTolerance = 0.05

// TrimOptions selects the source window and the playback modifiers applied
// while cutting.
type TrimOptions struct {
	Start float64 // seconds into the source, inclusive
	End   float64 // seconds into the source, exclusive

	Speed  float64 // playback speed; <=0 or 1 leaves timing unchanged
	Volume float64 // 0-100 scalar; <0 or 100 leaves audio level unchanged
}

// Trim extracts [Start, End) of src into dest, applying speed and volume so
// the produced clip's duration already matches its timeline position window.
func (e *Engine) Trim(ctx context.Context, src, dest string, opts TrimOptions) error {
	if opts.End <= opts.Start {
		return fmt.Errorf("%w: invalid window [%g, %g)", ErrTrimFailed, opts.Start, opts.End)
	}

	info, err := e.Probe(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTrimFailed, err)
	}
	if info.Duration > 0 && opts.End > info.Duration+durationTolerance {
		return fmt.Errorf("%w: window end %g exceeds source duration %g",
			ErrTrimFailed, opts.End, info.Duration)
	}

	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}
	outDuration := (opts.End - opts.Start) / speed

	outArgs := ffmpeg.KwArgs{
		"t":      fmt.Sprintf("%.3f", outDuration),
		"c:v":    config.VideoCodec,
		"preset": config.VideoPreset,
	}
	if speed != 1 {
		outArgs["vf"] = fmt.Sprintf("setpts=PTS/%g", speed)
	}
	if info.HasAudio {
		outArgs["c:a"] = config.AudioCodec
		outArgs["b:a"] = config.AudioBitrate
		if af := audioFilterChain(speed, opts.Volume); af != "" {
			outArgs["af"] = af
		}
	}

	e.logger.Info().
		Str("src", src).
		Str("dest", dest).
		Float64("start", opts.Start).
		Float64("end", opts.End).
		Float64("speed", speed).
		Msg("trimming clip")

	stream := ffmpeg.Input(src, ffmpeg.KwArgs{"ss": fmt.Sprintf("%.3f", opts.Start)}).
		Output(dest, outArgs)

	if err := e.run(ctx, stream); err != nil {
		return fmt.Errorf("%w: %v", ErrTrimFailed, err)
	}
	return nil
}
