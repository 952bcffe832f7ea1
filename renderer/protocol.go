package renderer

import "strings"

// outputMarker prefixes the stdout lines the render script emits for every
// finished scene file: OUTPUT_FILE::<scene>::<path>.
const outputMarker = "OUTPUT_FILE::"

// SceneVideo is one rendered scene and the file it landed in.
type SceneVideo struct {
	Scene string `json:"scene"`
	Path  string `json:"path"`
}

// outputParser scans subprocess stdout for scene output lines. It is fed
// arbitrary chunks, so a line split across two reads is buffered until its
// newline arrives. Anything that is not a well-formed marker line is ignored;
// the renderer prints plenty of progress noise.
type outputParser struct {
	partial strings.Builder
	videos  []SceneVideo
}

func (p *outputParser) Write(b []byte) (int, error) {
	for _, c := range b {
		if c != '\n' {
			p.partial.WriteByte(c)
			continue
		}
		line := p.partial.String()
		p.partial.Reset()
		if v, ok := parseOutputLine(line); ok {
			p.videos = append(p.videos, v)
		}
	}
	return len(b), nil
}

// flush consumes a trailing line that never got its newline.
func (p *outputParser) flush() {
	if v, ok := parseOutputLine(p.partial.String()); ok {
		p.videos = append(p.videos, v)
	}
	p.partial.Reset()
}

// parseOutputLine extracts a SceneVideo from one stdout line.
func parseOutputLine(line string) (SceneVideo, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if !strings.HasPrefix(line, outputMarker) {
		return SceneVideo{}, false
	}
	rest := strings.TrimPrefix(line, outputMarker)
	scene, path, ok := strings.Cut(rest, "::")
	if !ok || scene == "" || path == "" {
		return SceneVideo{}, false
	}
	return SceneVideo{Scene: scene, Path: path}, true
}
