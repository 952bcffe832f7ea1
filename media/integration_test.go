package media

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"animatic/timeline"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips integration tests on machines without ffmpeg.
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(zerolog.New(os.Stderr))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// clipSpec controls the synthesised test clips; zero values mean a plain
// silent h264 pattern.
type clipSpec struct {
	seconds float64
	codec   string
	audio   bool
}

// synthClip generates a test pattern clip from a spec.
func synthClip(t *testing.T, dir, name string, spec clipSpec) string {
	t.Helper()
	out := filepath.Join(dir, name)
	args := []string{"-y", "-f", "lavfi",
		"-i", fmt.Sprintf("testsrc=duration=%.1f:size=320x240:rate=30", spec.seconds)}
	if spec.audio {
		args = append(args, "-f", "lavfi",
			"-i", fmt.Sprintf("sine=frequency=440:duration=%.1f", spec.seconds),
			"-c:a", "aac", "-shortest")
	}
	codec := spec.codec
	if codec == "" {
		codec = "libx264"
	}
	args = append(args, "-pix_fmt", "yuv420p", "-c:v", codec, out)
	if err := exec.Command("ffmpeg", args...).Run(); err != nil {
		t.Fatalf("cannot synthesise test clip: %v", err)
	}
	return out
}

// makeTestClip synthesises a short silent test pattern clip.
func makeTestClip(t *testing.T, dir string, name string, seconds float64) string {
	t.Helper()
	return synthClip(t, dir, name, clipSpec{seconds: seconds})
}

func probeDuration(t *testing.T, e *Engine, path string) float64 {
	t.Helper()
	info, err := e.Probe(path)
	if err != nil {
		t.Fatalf("Probe(%s): %v", path, err)
	}
	return info.Duration
}

func TestTrimProducesRequestedWindow(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()
	src := makeTestClip(t, dir, "src.mp4", 5)

	dest := filepath.Join(dir, "trimmed.mp4")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := e.Trim(ctx, src, dest, TrimOptions{Start: 1, End: 3}); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if d := probeDuration(t, e, dest); math.Abs(d-2) > 0.1 {
		t.Errorf("trimmed duration = %v, want 2s", d)
	}
}

func TestTrimRejectsWindowPastEnd(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()
	src := makeTestClip(t, dir, "src.mp4", 2)

	err := e.Trim(context.Background(), src, filepath.Join(dir, "out.mp4"), TrimOptions{Start: 0, End: 10})
	if err == nil {
		t.Fatal("expected trim failure for window past source end")
	}
}

func TestStitchOrderingAndDuration(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()

	clips := []string{
		makeTestClip(t, dir, "a.mp4", 3),
		makeTestClip(t, dir, "b.mp4", 5),
		makeTestClip(t, dir, "c.mp4", 2),
	}
	dest := filepath.Join(dir, "stitched.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := e.Stitch(ctx, clips, dest); err != nil {
		t.Fatalf("Stitch: %v", err)
	}
	if d := probeDuration(t, e, dest); math.Abs(d-10) > 0.2 {
		t.Errorf("stitched duration = %v, want 10s", d)
	}
}

func TestStitchFilterGraphMixedCodecs(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()

	// Different source codecs rule out stream copy; the filter graph decodes
	// both and re-encodes one uniform stream.
	clips := []string{
		synthClip(t, dir, "a.mp4", clipSpec{seconds: 2, codec: "mpeg4"}),
		synthClip(t, dir, "b.mp4", clipSpec{seconds: 3}),
	}
	dest := filepath.Join(dir, "out.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := e.stitchFilterGraph(ctx, clips, dest); err != nil {
		t.Fatalf("stitchFilterGraph: %v", err)
	}

	info, err := e.Probe(dest)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if math.Abs(info.Duration-5) > 0.2 {
		t.Errorf("duration = %v, want 5s", info.Duration)
	}
	if info.VideoCodec != "h264" {
		t.Errorf("output codec = %q, want h264 re-encode", info.VideoCodec)
	}
}

func TestStitchFilterGraphAllAudio(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()

	clips := []string{
		synthClip(t, dir, "a.mp4", clipSpec{seconds: 2, audio: true}),
		synthClip(t, dir, "b.mp4", clipSpec{seconds: 2, audio: true}),
	}
	dest := filepath.Join(dir, "out.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := e.stitchFilterGraph(ctx, clips, dest); err != nil {
		t.Fatalf("stitchFilterGraph: %v", err)
	}

	info, err := e.Probe(dest)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !info.HasAudio {
		t.Error("all-audio inputs must produce an audio stream")
	}
	if math.Abs(info.Duration-4) > 0.3 {
		t.Errorf("duration = %v, want 4s", info.Duration)
	}
}

func TestStitchFilterGraphMixedAudioFallsBackToVideoOnly(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()

	clips := []string{
		synthClip(t, dir, "voiced.mp4", clipSpec{seconds: 2, audio: true}),
		synthClip(t, dir, "silent.mp4", clipSpec{seconds: 2}),
	}
	dest := filepath.Join(dir, "out.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := e.stitchFilterGraph(ctx, clips, dest); err != nil {
		t.Fatalf("stitchFilterGraph: %v", err)
	}

	info, err := e.Probe(dest)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	// The silent source must never be forced through an audio concat node.
	if info.HasAudio {
		t.Error("mixed-audio inputs must concatenate video only")
	}
	if math.Abs(info.Duration-4) > 0.2 {
		t.Errorf("duration = %v, want 4s", info.Duration)
	}
}

func TestStitchSingleClipIsPassThrough(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()
	src := makeTestClip(t, dir, "only.mp4", 2)
	dest := filepath.Join(dir, "out.mp4")

	if err := e.Stitch(context.Background(), []string{src}, dest); err != nil {
		t.Fatalf("Stitch: %v", err)
	}
	srcInfo, _ := os.Stat(src)
	destInfo, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if srcInfo.Size() != destInfo.Size() {
		t.Error("single-clip stitch must be a byte copy, not a transcode")
	}
}

func TestOverlayEmptyListIsPassThrough(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()
	src := makeTestClip(t, dir, "src.mp4", 2)
	dest := filepath.Join(dir, "out.mp4")

	if err := e.Overlay(context.Background(), src, dest, nil); err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	srcInfo, _ := os.Stat(src)
	destInfo, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if srcInfo.Size() != destInfo.Size() {
		t.Error("empty overlay must be a byte copy of its input")
	}
}

func TestOverlayBurnsText(t *testing.T) {
	skipIfNoFFmpeg(t)
	e := newTestEngine(t)
	dir := t.TempDir()
	src := makeTestClip(t, dir, "src.mp4", 2)
	dest := filepath.Join(dir, "out.mp4")

	texts := []timeline.TextElement{
		{Text: "hello: it's a test", PositionStart: 0, PositionEnd: 1, X: 10, Y: 10, FontSize: 20, Color: "white"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := e.Overlay(ctx, src, dest, texts); err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	if d := probeDuration(t, e, dest); math.Abs(d-2) > 0.1 {
		t.Errorf("overlay changed duration: %v, want 2s", d)
	}
}

func TestDownloadStreamsToDisk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake video bytes"))
	}))
	defer srv.Close()

	e := &Engine{logger: zerolog.Nop()}
	dest := filepath.Join(t.TempDir(), "file.mp4")
	if err := e.Download(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "fake video bytes" {
		t.Errorf("downloaded content mismatch: %q, %v", data, err)
	}
}

func TestDownloadRemovesPartialFileOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	e := &Engine{logger: zerolog.Nop()}
	dest := filepath.Join(t.TempDir(), "file.mp4")
	err := e.Download(context.Background(), srv.URL, dest)
	if err == nil {
		t.Fatal("expected download failure on 404")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("no file may be left behind after a failed download")
	}
}
