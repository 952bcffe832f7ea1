// Package tui is an interactive terminal timeline editor: a thin client over
// the timeline editor state machine for trying splits, duplicates, deletes,
// and undo/redo without a browser.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"animatic/timeline"
)

// seekStep is how far one arrow key press moves the playhead, in seconds.
const seekStep = 0.5

// Model wraps the timeline editor with terminal UI state.
type Model struct {
	Editor *timeline.Editor

	// Status is the outcome of the last operation, shown under the tracks.
	Status string

	// Zoom scales the track view in columns per second.
	Zoom float64
}

// NewModel builds the TUI around an editor.
func NewModel(ed *timeline.Editor) Model {
	return Model{
		Editor: ed,
		Status: "tab: select  s: split  d: duplicate  x: delete  u/r: undo/redo  q: quit",
		Zoom:   4,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// cycleSelection advances the selection across media then text elements,
// wrapping back to none.
func (m Model) cycleSelection() Model {
	p := m.Editor.Project()
	mediaCount := len(p.MediaFiles)
	textCount := len(p.TextElements)
	if mediaCount+textCount == 0 {
		return m
	}

	// Flatten both collections into one cursor: media first, then text.
	cursor := -1
	if sel := m.Editor.Selected(); sel != nil {
		cursor = sel.Index
		if sel.Kind == timeline.KindText {
			cursor += mediaCount
		}
	}

	cursor++
	switch {
	case cursor < mediaCount:
		m.Editor.Select(timeline.KindMedia, cursor)
	case cursor < mediaCount+textCount:
		m.Editor.Select(timeline.KindText, cursor-mediaCount)
	default:
		m.Editor.ClearSelection()
	}
	return m
}
