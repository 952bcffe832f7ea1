package media

import (
	"context"
	"fmt"

	"animatic/config"
	"animatic/timeline"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Overlay burns the text elements into src, writing dest. Each element is
// only visible inside its position window. An empty list is an explicit
// pass-through copy, never an ffmpeg invocation. Audio, when present, is
// stream-copied through unchanged.
func (e *Engine) Overlay(ctx context.Context, src, dest string, texts []timeline.TextElement) error {
	if len(texts) == 0 {
		e.logger.Info().Str("src", src).Msg("no text overlays, copying through")
		if err := copyFile(src, dest); err != nil {
			return fmt.Errorf("%w: %v", ErrOverlayFailed, err)
		}
		return nil
	}

	chain := BuildDrawtextChain(texts)
	e.logger.Info().
		Int("texts", len(texts)).
		Str("dest", dest).
		Msg("applying text overlays")
	e.logger.Debug().Str("filter", chain).Msg("drawtext chain")

	stream := ffmpeg.Input(src).Output(dest, ffmpeg.KwArgs{
		"vf":     chain,
		"c:v":    config.VideoCodec,
		"preset": config.VideoPreset,
		"c:a":    "copy",
	})

	if err := e.run(ctx, stream); err != nil {
		return fmt.Errorf("%w: %v", ErrOverlayFailed, err)
	}
	return nil
}
