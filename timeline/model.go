// Package timeline defines the timeline document: the ordered media and text
// collections a project export is described by, plus the interactive editor
// that mutates them.
package timeline

import (
	"math"
	"sort"
	"time"
)

// CropRect is an optional crop window applied by the preview renderer.
type CropRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MediaFile is one source clip placed on the timeline.
//
// startTime/endTime select a sub-range of the source file (seconds);
// positionStart/positionEnd place that range on the output timeline.
type MediaFile struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileID   string `json:"fileId"`
	Type     string `json:"type"`
	Src      string `json:"src"`

	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`

	PositionStart float64 `json:"positionStart"`
	PositionEnd   float64 `json:"positionEnd"`

	IncludeInMerge bool    `json:"includeInMerge"`
	PlaybackSpeed  float64 `json:"playbackSpeed"`
	Volume         float64 `json:"volume"`

	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation float64  `json:"rotation"`
	Opacity  float64  `json:"opacity"`
	ZIndex   int      `json:"zIndex"`
	Crop     CropRect `json:"crop"`
}

// SourceDuration returns the length of the source trim window in seconds.
func (m MediaFile) SourceDuration() float64 {
	return m.EndTime - m.StartTime
}

// PositionDuration returns the clip's length on the output timeline.
func (m MediaFile) PositionDuration() float64 {
	return m.PositionEnd - m.PositionStart
}

// ActiveAt reports whether the clip is visible at output time t.
func (m MediaFile) ActiveAt(t float64) bool {
	return t >= m.PositionStart && t < m.PositionEnd
}

// Speed returns the playback speed, defaulting to 1 when unset.
func (m MediaFile) Speed() float64 {
	if m.PlaybackSpeed <= 0 {
		return 1
	}
	return m.PlaybackSpeed
}

// DurationConsistent verifies positionEnd-positionStart ==
// (endTime-startTime)/playbackSpeed within one frame at the given fps.
func (m MediaFile) DurationConsistent(fps float64) bool {
	if fps <= 0 {
		fps = 30
	}
	want := m.SourceDuration() / m.Speed()
	return math.Abs(m.PositionDuration()-want) <= 1.0/fps
}

// TextElement is one timed text annotation burned into the export.
type TextElement struct {
	ID   string `json:"id"`
	Text string `json:"text"`

	PositionStart float64 `json:"positionStart"`
	PositionEnd   float64 `json:"positionEnd"`

	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	FontSize   int     `json:"fontSize"`
	Color      string  `json:"color"`
	FontFamily string  `json:"fontFamily"`
	Background string  `json:"backgroundColor"`
	Align      string  `json:"align"`
	Rotation   float64 `json:"rotation"`
	Opacity    float64 `json:"opacity"`
	ZIndex     int     `json:"zIndex"`
	FadeIn     float64 `json:"fadeInDuration"`
	FadeOut    float64 `json:"fadeOutDuration"`
	Animation  string  `json:"animation"`
}

// ActiveAt reports whether the text is visible at output time t.
func (e TextElement) ActiveAt(t float64) bool {
	return t >= e.PositionStart && t < e.PositionEnd
}

// PositionDuration returns the annotation's length on the output timeline.
func (e TextElement) PositionDuration() float64 {
	return e.PositionEnd - e.PositionStart
}

// Resolution is the export frame size.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ExportSettings selects output encoding parameters.
type ExportSettings struct {
	Resolution       string  `json:"resolution"`
	Quality          string  `json:"quality"`
	Speed            string  `json:"speed"`
	FPS              float64 `json:"fps"`
	Format           string  `json:"format"`
	IncludeSubtitles bool    `json:"includeSubtitles"`
}

// ProjectState is the timeline document: everything the compositor needs to
// turn an edited project into one merged video.
type ProjectState struct {
	ID           string    `json:"id"`
	ProjectName  string    `json:"projectName"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`

	MediaFiles   []MediaFile   `json:"mediaFiles"`
	TextElements []TextElement `json:"textElements"`

	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
	Duration    float64 `json:"duration"`

	Resolution  Resolution `json:"resolution"`
	FPS         float64    `json:"fps"`
	AspectRatio string     `json:"aspectRatio"`

	TimelineZoom float64 `json:"timelineZoom"`

	ExportSettings ExportSettings `json:"exportSettings"`
}

// SortedForMerge returns the media files that participate in the merge,
// stable-sorted by timeline position. List order breaks ties so repeated
// calls are deterministic.
func SortedForMerge(files []MediaFile) []MediaFile {
	out := make([]MediaFile, 0, len(files))
	for _, f := range files {
		if f.IncludeInMerge {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PositionStart < out[j].PositionStart
	})
	return out
}

// TotalDuration returns the end of the last positioned item across both
// collections.
func (p *ProjectState) TotalDuration() float64 {
	var end float64
	for _, m := range p.MediaFiles {
		if m.PositionEnd > end {
			end = m.PositionEnd
		}
	}
	for _, t := range p.TextElements {
		if t.PositionEnd > end {
			end = t.PositionEnd
		}
	}
	return end
}
