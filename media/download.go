package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Download streams the file at url to dest. The body is copied straight to
// disk so arbitrarily long videos never sit in memory. On any failure the
// partially written file is removed before the error is returned.
func (e *Engine) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	e.logger.Info().Str("url", url).Str("dest", dest).Msg("downloading source")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d for %s", ErrDownloadFailed, resp.StatusCode, url)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return nil
}
