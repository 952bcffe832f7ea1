package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"animatic/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Stitch concatenates the inputs into dest, in input order, with no gaps.
//
// A single input is copied through untouched. Multiple inputs first try the
// concat demuxer with stream copy (fast, needs compatible parameters); when
// that process fails, everything is decoded and re-encoded through a concat
// filter graph (slow, tolerates mixed encodings). Only when both paths fail
// does Stitch report ErrStitchFailed.
func (e *Engine) Stitch(ctx context.Context, inputs []string, dest string) error {
	switch len(inputs) {
	case 0:
		return fmt.Errorf("%w: no inputs", ErrStitchFailed)
	case 1:
		e.logger.Info().Str("src", inputs[0]).Msg("single clip, copying through")
		if err := copyFile(inputs[0], dest); err != nil {
			return fmt.Errorf("%w: %v", ErrStitchFailed, err)
		}
		return nil
	}

	e.logger.Info().Int("clips", len(inputs)).Str("dest", dest).Msg("stitching sequence")

	fastErr := e.stitchConcatDemuxer(ctx, inputs, dest)
	if fastErr == nil {
		return nil
	}
	e.logger.Warn().Err(fastErr).Msg("concat demuxer failed, falling back to filter graph")

	if slowErr := e.stitchFilterGraph(ctx, inputs, dest); slowErr != nil {
		return fmt.Errorf("%w: fast path: %v; slow path: %v", ErrStitchFailed, fastErr, slowErr)
	}
	return nil
}

// stitchConcatDemuxer is the fast path: a concat demuxer list file plus
// stream copy. No frames are decoded.
func (e *Engine) stitchConcatDemuxer(ctx context.Context, inputs []string, dest string) error {
	listPath, err := writeConcatFile(inputs)
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	stream := ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Output(dest, ffmpeg.KwArgs{"c": "copy"})
	return e.run(ctx, stream)
}

// stitchFilterGraph is the slow path: decode every input and re-encode
// through a pairwise concat filter. Audio is only concatenated when every
// source carries an audio stream; otherwise the graph is video-only so a
// silent source is never forced through an audio node.
func (e *Engine) stitchFilterGraph(ctx context.Context, inputs []string, dest string) error {
	withAudio := true
	for _, in := range inputs {
		info, err := e.Probe(in)
		if err != nil {
			return err
		}
		if !info.HasAudio {
			withAudio = false
			e.logger.Warn().Str("src", in).Msg("source has no audio stream, concatenating video only")
		}
	}

	return e.run(ctx, filterGraphStream(inputs, dest, withAudio))
}

// filterGraphStream builds the concat filter graph over the inputs. With
// audio, video and audio streams are interleaved through one v=1:a=1 concat
// node; without, only the video streams enter the graph and no audio encoder
// is attached.
func filterGraphStream(inputs []string, dest string, withAudio bool) *ffmpeg.Stream {
	var joined *ffmpeg.Stream
	if withAudio {
		streams := make([]*ffmpeg.Stream, 0, 2*len(inputs))
		for _, in := range inputs {
			input := ffmpeg.Input(in)
			streams = append(streams, input.Get("v"), input.Get("a"))
		}
		joined = ffmpeg.Concat(streams, ffmpeg.KwArgs{"v": 1, "a": 1})
	} else {
		streams := make([]*ffmpeg.Stream, 0, len(inputs))
		for _, in := range inputs {
			streams = append(streams, ffmpeg.Input(in).Get("v"))
		}
		joined = ffmpeg.Concat(streams)
	}

	outArgs := ffmpeg.KwArgs{
		"c:v":    config.VideoCodec,
		"preset": config.VideoPreset,
	}
	if withAudio {
		outArgs["c:a"] = config.AudioCodec
		outArgs["b:a"] = config.AudioBitrate
	}
	return joined.Output(dest, outArgs)
}

// writeConcatFile produces the temporary list file the concat demuxer reads.
func writeConcatFile(inputs []string) (string, error) {
	tmp, err := os.CreateTemp("", "animatic-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			os.Remove(tmp.Name())
			return "", err
		}
		if _, err := fmt.Fprintf(tmp, "file '%s'\n", abs); err != nil {
			os.Remove(tmp.Name())
			return "", err
		}
	}
	return tmp.Name(), nil
}
