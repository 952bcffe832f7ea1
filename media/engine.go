// Package media wraps ffmpeg for the composition pipeline: fetching sources,
// trimming clips, stitching sequences, and burning in text overlays. Every
// ffmpeg invocation goes through one context-aware runner so a stalled
// encoder can never hang a job.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// maxStderrBytes is the tail of ffmpeg stderr kept for diagnostics.
const maxStderrBytes = 8 * 1024

// Engine executes ffmpeg operations for the compositor.
type Engine struct {
	logger     zerolog.Logger
	ffmpegPath string
}

// NewEngine resolves the ffmpeg binary and returns an Engine.
func NewEngine(logger zerolog.Logger) (*Engine, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &Engine{
		logger:     logger.With().Str("component", "media").Logger(),
		ffmpegPath: path,
	}, nil
}

// run compiles an ffmpeg-go stream graph and executes it under ctx. The
// subprocess is killed when the context expires. Stderr is captured with a
// bounded tail and folded into the returned error.
func (e *Engine) run(ctx context.Context, stream *ffmpeg.Stream) error {
	args := append([]string{"-y", "-hide_banner"}, stream.GetArgs()...)

	e.logger.Debug().Strs("args", args).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var tail tailWriter
	cmd.Stderr = &tail
	cmd.Stdout = io.Discard

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg terminated: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg exited: %w (stderr: %s)", err, tail.String())
	}
	return nil
}

// copyFile duplicates src at dest. Used for the single-clip and no-overlay
// pass-through paths, which must not transcode.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dest)
		return err
	}
	return out.Close()
}

// tailWriter keeps only the last maxStderrBytes of what is written to it.
type tailWriter struct {
	buf bytes.Buffer
}

func (w *tailWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.buf.Write(p)
	if w.buf.Len() > maxStderrBytes {
		b := w.buf.Bytes()
		trimmed := make([]byte, maxStderrBytes)
		copy(trimmed, b[len(b)-maxStderrBytes:])
		w.buf.Reset()
		w.buf.Write(trimmed)
	}
	return n, nil
}

func (w *tailWriter) String() string { return w.buf.String() }
