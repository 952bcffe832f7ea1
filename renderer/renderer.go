// Package renderer drives the scene renderer subprocess: it writes generated
// scene code to disk, invokes the render script, and collects the video files
// the script reports on stdout.
package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"animatic/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrRenderTimeout means the renderer subprocess exceeded its wall-clock
	// budget and was killed.
	ErrRenderTimeout = errors.New("scene render timed out")

	// ErrNoScenes means the submitted code declares no renderable scene class.
	ErrNoScenes = errors.New("code contains no scene class")
)

// sceneClassRe matches scene class declarations in submitted code,
// e.g. "class Intro(Scene):".
var sceneClassRe = regexp.MustCompile(`class\s+(\w+)\(Scene\):`)

// maxRendererStderr bounds the stderr tail kept for error reporting.
const maxRendererStderr = 8 * 1024

// CodeGenerator produces scene code from a natural-language prompt. No
// implementation ships here; the server wires one in when an LLM backend is
// configured.
type CodeGenerator interface {
	GenerateSceneCode(ctx context.Context, prompt string) (string, error)
}

// SceneRenderResult is one finished render: the job id and every scene video
// the script produced.
type SceneRenderResult struct {
	AnimationID string       `json:"animationId"`
	Videos      []SceneVideo `json:"videos"`
}

// Runner renders scene code through the external render script.
type Runner struct {
	logger  zerolog.Logger
	python  string
	script  string
	workDir string
	timeout time.Duration
}

// NewRunner builds a Runner from the server settings.
func NewRunner(logger zerolog.Logger, cfg config.Settings) *Runner {
	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = config.RenderTimeout
	}
	return &Runner{
		logger:  logger.With().Str("component", "renderer").Logger(),
		python:  cfg.PythonPath,
		script:  cfg.RenderScript,
		workDir: cfg.RenderWorkDir,
		timeout: timeout,
	}
}

// ExtractSceneNames returns the scene class names declared in code, in
// declaration order.
func ExtractSceneNames(code string) []string {
	var names []string
	for _, m := range sceneClassRe.FindAllStringSubmatch(code, -1) {
		names = append(names, m[1])
	}
	return names
}

// Render writes code to a temp script, runs the render script on it, and
// returns the scene videos it reported. The subprocess is killed if it
// outlives the configured timeout.
func (r *Runner) Render(ctx context.Context, code string) (*SceneRenderResult, error) {
	scenes := ExtractSceneNames(code)
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}

	id := uuid.NewString()
	if err := os.MkdirAll(r.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create render work dir: %w", err)
	}
	scriptPath := filepath.Join(r.workDir, fmt.Sprintf("scene_%s.py", id))
	if err := os.WriteFile(scriptPath, []byte(code), 0o644); err != nil {
		return nil, fmt.Errorf("write scene script: %w", err)
	}
	defer os.Remove(scriptPath)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append([]string{r.script, scriptPath}, scenes...)
	cmd := exec.CommandContext(runCtx, r.python, args...)
	cmd.Dir = r.workDir

	var parser outputParser
	var stderr bytes.Buffer
	cmd.Stdout = &parser
	cmd.Stderr = &stderr

	r.logger.Info().
		Str("animation", id).
		Strs("scenes", scenes).
		Msg("rendering scenes")

	err := cmd.Run()
	parser.flush()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s", ErrRenderTimeout, r.timeout)
		}
		tail := stderr.Bytes()
		if len(tail) > maxRendererStderr {
			tail = tail[len(tail)-maxRendererStderr:]
		}
		return nil, fmt.Errorf("renderer exited: %w (stderr: %s)", err, tail)
	}

	videos, err := r.resolveVideos(parser.videos)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("animation", id).
		Int("videos", len(videos)).
		Msg("render finished")

	return &SceneRenderResult{AnimationID: id, Videos: videos}, nil
}

// resolveVideos normalizes reported paths against the work dir and verifies
// each file exists. A script that exits 0 but reports no files is an error,
// not an empty success.
func (r *Runner) resolveVideos(videos []SceneVideo) ([]SceneVideo, error) {
	if len(videos) == 0 {
		return nil, errors.New("renderer produced no output files")
	}
	out := make([]SceneVideo, 0, len(videos))
	for _, v := range videos {
		if !filepath.IsAbs(v.Path) {
			v.Path = filepath.Join(r.workDir, v.Path)
		}
		if _, err := os.Stat(v.Path); err != nil {
			return nil, fmt.Errorf("reported output %s for scene %s is unreadable: %w", v.Path, v.Scene, err)
		}
		out = append(out, v)
	}
	return out, nil
}
