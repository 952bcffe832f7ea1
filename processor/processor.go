// Package processor orchestrates a full timeline export: fetch every source,
// trim each clip to its window, stitch the sequence, and burn in the text
// overlays. Per-clip failures are tolerated and reported; the job only aborts
// when nothing survives.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"animatic/config"
	"animatic/media"
	"animatic/timeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrEmptyTimeline means the request had no media files at all.
	ErrEmptyTimeline = errors.New("timeline has no media files")

	// ErrNoProcessableMedia means every merge-eligible clip failed to
	// download or trim, so there is nothing to stitch.
	ErrNoProcessableMedia = errors.New("no media could be processed")
)

// MediaEngine is the ffmpeg surface the orchestrator drives. *media.Engine
// satisfies it; tests substitute a fake.
type MediaEngine interface {
	Download(ctx context.Context, url, dest string) error
	Trim(ctx context.Context, src, dest string, opts media.TrimOptions) error
	Stitch(ctx context.Context, inputs []string, dest string) error
	Overlay(ctx context.Context, src, dest string, texts []timeline.TextElement) error
}

// ClipFailure records one clip that was dropped from the export.
type ClipFailure struct {
	ClipID   string `json:"clipId"`
	FileName string `json:"fileName"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
}

// Result is a finished export: the merged file plus any clips that had to be
// skipped along the way.
type Result struct {
	OutputPath string        `json:"outputPath"`
	Failures   []ClipFailure `json:"failures,omitempty"`
}

// VideoProcessor runs timeline exports.
type VideoProcessor struct {
	engine    MediaEngine
	logger    zerolog.Logger
	outputDir string
}

// NewVideoProcessor returns a processor writing finished exports to outputDir.
func NewVideoProcessor(engine MediaEngine, logger zerolog.Logger, outputDir string) *VideoProcessor {
	if outputDir == "" {
		outputDir = config.OutputDir
	}
	return &VideoProcessor{
		engine:    engine,
		logger:    logger.With().Str("component", "processor").Logger(),
		outputDir: outputDir,
	}
}

// preparedClip is one clip that made it through fetch and trim, remembering
// where it belongs on the timeline.
type preparedClip struct {
	path          string
	positionStart float64
	index         int
}

// Process turns a timeline document into one merged video file. Source clips
// are fetched and trimmed concurrently; a clip that fails either step is
// recorded and skipped. All intermediate files live in a per-job temp
// directory that is removed before Process returns, success or not.
func (p *VideoProcessor) Process(ctx context.Context, state *timeline.ProjectState) (*Result, error) {
	if state == nil || len(state.MediaFiles) == 0 {
		return nil, ErrEmptyTimeline
	}

	clips := timeline.SortedForMerge(state.MediaFiles)
	if len(clips) == 0 {
		return nil, ErrEmptyTimeline
	}

	jobID := uuid.NewString()
	logger := p.logger.With().Str("job", jobID).Logger()
	logger.Info().Int("clips", len(clips)).Int("texts", len(state.TextElements)).Msg("starting export")

	workDir, err := os.MkdirTemp("", config.TempDirPattern)
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			logger.Warn().Err(rmErr).Str("dir", workDir).Msg("work dir cleanup failed")
		}
	}()

	prepared, failures := p.prepareClips(ctx, logger, workDir, clips)
	if len(prepared) == 0 {
		return nil, fmt.Errorf("%w: %d clip(s) failed", ErrNoProcessableMedia, len(failures))
	}

	// Concurrency finishes clips out of order; restore timeline order before
	// stitching. Original list order breaks positionStart ties.
	orderClips(prepared)
	inputs := make([]string, len(prepared))
	for i, c := range prepared {
		inputs[i] = c.path
	}

	stitched := filepath.Join(workDir, "stitched.mp4")
	stitchCtx, cancel := context.WithTimeout(ctx, config.StitchTimeout)
	err = p.engine.Stitch(stitchCtx, inputs, stitched)
	cancel()
	if err != nil {
		return nil, err
	}

	// The overlay encodes inside the work dir so a mid-encode failure never
	// leaves a partial file in the output dir; only a finished file moves out.
	composed := filepath.Join(workDir, "final.mp4")
	overlayCtx, cancel := context.WithTimeout(ctx, config.OverlayTimeout)
	err = p.engine.Overlay(overlayCtx, stitched, composed, state.TextElements)
	cancel()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	final := filepath.Join(p.outputDir, fmt.Sprintf("export-%s.mp4", jobID))
	if err := moveFile(composed, final); err != nil {
		return nil, fmt.Errorf("publish output: %w", err)
	}

	logger.Info().
		Str("output", final).
		Int("merged", len(prepared)).
		Int("skipped", len(failures)).
		Msg("export finished")

	return &Result{OutputPath: final, Failures: failures}, nil
}

// prepareClips downloads and trims every clip, at most MaxConcurrentClips at
// a time. It returns the clips that survived and a failure record for each
// one that did not.
func (p *VideoProcessor) prepareClips(ctx context.Context, logger zerolog.Logger, workDir string, clips []timeline.MediaFile) ([]preparedClip, []ClipFailure) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		prepared []preparedClip
		failures []ClipFailure
	)
	sem := make(chan struct{}, config.MaxConcurrentClips)

	for i, clip := range clips {
		wg.Add(1)
		go func(i int, clip timeline.MediaFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			path, stage, err := p.prepareClip(ctx, workDir, i, clip)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn().
					Err(err).
					Str("clip", clip.ID).
					Str("file", clip.FileName).
					Str("stage", stage).
					Msg("skipping clip")
				failures = append(failures, ClipFailure{
					ClipID:   clip.ID,
					FileName: clip.FileName,
					Stage:    stage,
					Reason:   err.Error(),
				})
				return
			}
			prepared = append(prepared, preparedClip{
				path:          path,
				positionStart: clip.PositionStart,
				index:         i,
			})
		}(i, clip)
	}
	wg.Wait()

	return prepared, failures
}

// prepareClip fetches one source and cuts it to its trim window. The stage
// name identifies which step failed.
func (p *VideoProcessor) prepareClip(ctx context.Context, workDir string, i int, clip timeline.MediaFile) (string, string, error) {
	raw := filepath.Join(workDir, fmt.Sprintf("source-%03d.mp4", i))

	dlCtx, cancel := context.WithTimeout(ctx, config.DownloadTimeout)
	err := p.engine.Download(dlCtx, clip.Src, raw)
	cancel()
	if err != nil {
		return "", "download", err
	}

	trimmed := filepath.Join(workDir, fmt.Sprintf("clip-%03d.mp4", i))
	trimCtx, cancel := context.WithTimeout(ctx, config.TrimTimeout)
	err = p.engine.Trim(trimCtx, raw, trimmed, media.TrimOptions{
		Start:  clip.StartTime,
		End:    clip.EndTime,
		Speed:  clip.Speed(),
		Volume: clip.Volume,
	})
	cancel()
	if err != nil {
		return "", "trim", err
	}

	return trimmed, "", nil
}

// moveFile renames src into place, falling back to copy-and-delete when the
// output dir is on another filesystem. The destination is removed on a failed
// copy so no partial file survives.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return os.Remove(src)
}

// orderClips sorts prepared clips by timeline position, falling back to the
// original submission order for equal positions.
func orderClips(clips []preparedClip) {
	sort.Slice(clips, func(i, j int) bool {
		if clips[i].positionStart != clips[j].positionStart {
			return clips[i].positionStart < clips[j].positionStart
		}
		return clips[i].index < clips[j].index
	})
}
