package renderer

import (
	"context"
	"fmt"
	"path"

	"animatic/media"
	"animatic/timeline"

	"github.com/google/uuid"
)

// Prober measures local media files. *media.Engine satisfies it.
type Prober interface {
	Probe(path string) (*media.VideoInfo, error)
}

// Uploader publishes a local file and returns its public URL.
type Uploader interface {
	UploadFile(ctx context.Context, key, localPath, contentType string) (string, error)
}

// IngestScenes turns a render result into timeline media items. Each scene
// video is probed for its real duration, uploaded, and placed on the timeline
// directly after the previous one.
func IngestScenes(ctx context.Context, prober Prober, uploader Uploader, result *SceneRenderResult) ([]timeline.MediaFile, error) {
	files := make([]timeline.MediaFile, 0, len(result.Videos))
	var cursor float64

	for _, v := range result.Videos {
		info, err := prober.Probe(v.Path)
		if err != nil {
			return nil, fmt.Errorf("probe scene %s: %w", v.Scene, err)
		}
		if info.Duration <= 0 {
			return nil, fmt.Errorf("scene %s has no measurable duration", v.Scene)
		}

		key := fmt.Sprintf("animations/%s/%s%s", result.AnimationID, v.Scene, path.Ext(v.Path))
		url, err := uploader.UploadFile(ctx, key, v.Path, "video/mp4")
		if err != nil {
			return nil, fmt.Errorf("upload scene %s: %w", v.Scene, err)
		}

		files = append(files, timeline.MediaFile{
			ID:             uuid.NewString(),
			FileName:       v.Scene + path.Ext(v.Path),
			FileID:         key,
			Type:           "video",
			Src:            url,
			StartTime:      0,
			EndTime:        info.Duration,
			PositionStart:  cursor,
			PositionEnd:    cursor + info.Duration,
			IncludeInMerge: true,
			PlaybackSpeed:  1,
			Volume:         100,
			Opacity:        100,
		})
		cursor += info.Duration
	}
	return files, nil
}
