package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"animatic/timeline"
)

// View implements tea.Model.
func (m Model) View() string {
	p := m.Editor.Project()
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Animatic Timeline Editor"))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("%s  |  %.1fs / %.1fs",
		p.ProjectName, p.CurrentTime, p.TotalDuration())))
	b.WriteString("\n\n")

	b.WriteString(m.renderRuler())
	b.WriteString("\n")

	sel := m.Editor.Selected()
	for i, f := range p.MediaFiles {
		selected := sel != nil && sel.Kind == timeline.KindMedia && sel.Index == i
		b.WriteString(m.renderTrack("video", f.FileName, f.PositionStart, f.PositionEnd, MediaTrackStyle, selected))
		b.WriteString("\n")
	}
	for i, e := range p.TextElements {
		selected := sel != nil && sel.Kind == timeline.KindText && sel.Index == i
		b.WriteString(m.renderTrack("text ", e.Text, e.PositionStart, e.PositionEnd, TextTrackStyle, selected))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.Status)
	b.WriteString("\n")
	return b.String()
}

// renderRuler draws the time axis with the playhead marker.
func (m Model) renderRuler() string {
	p := m.Editor.Project()
	width := m.cols(p.TotalDuration())
	playhead := m.cols(p.CurrentTime)

	ruler := make([]rune, width+1)
	for i := range ruler {
		ruler[i] = '-'
	}
	if playhead >= 0 && playhead < len(ruler) {
		ruler[playhead] = '|'
	}
	return "      " + PlayheadStyle.Render(string(ruler))
}

// renderTrack draws one element as a bar positioned on the time axis.
func (m Model) renderTrack(kind, label string, start, end float64, style lipgloss.Style, selected bool) string {
	offset := m.cols(start)
	width := m.cols(end - start)
	if width < 1 {
		width = 1
	}

	bar := "[" + truncate(label, width) + "]"
	if selected {
		bar = SelectedStyle.Render(bar)
	} else {
		bar = style.Render(bar)
	}
	return InfoStyle.Render(kind+" ") + strings.Repeat(" ", offset) + bar
}

// truncate pads or shortens label to fit a bar of the given width.
func truncate(label string, width int) string {
	runes := []rune(label)
	if len(runes) > width {
		return string(runes[:width])
	}
	return label + strings.Repeat("·", width-len(runes))
}

// cols converts seconds to terminal columns at the current zoom.
func (m Model) cols(seconds float64) int {
	return int(seconds * m.Zoom)
}
