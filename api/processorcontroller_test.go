package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"animatic/media"
	"animatic/processor"
	"animatic/timeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubEngine is a minimal pipeline fake for controller tests.
type stubEngine struct {
	downloadErr error
}

func (s *stubEngine) Download(_ context.Context, _, dest string) error {
	if s.downloadErr != nil {
		return s.downloadErr
	}
	return os.WriteFile(dest, []byte("v"), 0o644)
}

func (s *stubEngine) Trim(_ context.Context, _, dest string, _ media.TrimOptions) error {
	return os.WriteFile(dest, []byte("t"), 0o644)
}

func (s *stubEngine) Stitch(_ context.Context, _ []string, dest string) error {
	return os.WriteFile(dest, []byte("s"), 0o644)
}

func (s *stubEngine) Overlay(_ context.Context, src, dest string, _ []timeline.TextElement) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

type stubUploader struct {
	err error
	key string
}

func (u *stubUploader) UploadFile(_ context.Context, key, _, _ string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.key = key
	return "https://cdn.example.com/" + key, nil
}

func exportRouter(t *testing.T, engine processor.MediaEngine, uploader ExportUploader) *gin.Engine {
	t.Helper()
	proc := processor.NewVideoProcessor(engine, zerolog.Nop(), t.TempDir())
	srv := NewServer(zerolog.Nop(), proc, nil, nil, uploader, nil)
	return NewRouter(srv)
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func exportBody(t *testing.T, state timeline.ProjectState) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{"payload": state})
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func mergeClip(id string, at float64) timeline.MediaFile {
	return timeline.MediaFile{
		ID:             id,
		Src:            "http://x/" + id,
		EndTime:        5,
		PositionStart:  at,
		PositionEnd:    at + 5,
		IncludeInMerge: true,
	}
}

func TestExportSuccess(t *testing.T) {
	uploader := &stubUploader{}
	r := exportRouter(t, &stubEngine{}, uploader)

	state := timeline.ProjectState{
		ID:         "proj-1",
		MediaFiles: []timeline.MediaFile{mergeClip("a", 0)},
	}
	w := postJSON(t, r, "/processor/export", exportBody(t, state))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp ExportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Key != "proj-1/final.mp4" {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.HasPrefix(resp.S3URL, "https://cdn.example.com/") {
		t.Errorf("s3Url = %q", resp.S3URL)
	}
}

func TestExportEmptyTimelineIs400(t *testing.T) {
	r := exportRouter(t, &stubEngine{}, &stubUploader{})
	w := postJSON(t, r, "/processor/export", exportBody(t, timeline.ProjectState{ID: "p"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestExportNothingProcessableIs422(t *testing.T) {
	engine := &stubEngine{downloadErr: errors.New("unreachable")}
	r := exportRouter(t, engine, &stubUploader{})

	state := timeline.ProjectState{
		ID:         "p",
		MediaFiles: []timeline.MediaFile{mergeClip("a", 0), mergeClip("b", 5)},
	}
	w := postJSON(t, r, "/processor/export", exportBody(t, state))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	var resp ExportResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Success {
		t.Error("success must be false on pipeline failure")
	}
}

func TestExportUploadFailureIs500(t *testing.T) {
	r := exportRouter(t, &stubEngine{}, &stubUploader{err: errors.New("denied")})
	state := timeline.ProjectState{
		ID:         "p",
		MediaFiles: []timeline.MediaFile{mergeClip("a", 0)},
	}
	w := postJSON(t, r, "/processor/export", exportBody(t, state))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestExportMissingPayloadIs400(t *testing.T) {
	r := exportRouter(t, &stubEngine{}, &stubUploader{})
	w := postJSON(t, r, "/processor/export", `{"something": "else"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := exportRouter(t, &stubEngine{}, &stubUploader{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
