package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model. Every edit goes through the editor; a failed
// operation only changes the status line, never the document.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "left":
		t := m.Editor.SeekTo(m.Editor.Project().CurrentTime - seekStep)
		m.Status = fmt.Sprintf("playhead at %.1fs", t)

	case "right":
		t := m.Editor.SeekTo(m.Editor.Project().CurrentTime + seekStep)
		m.Status = fmt.Sprintf("playhead at %.1fs", t)

	case "tab":
		m = m.cycleSelection()
		if sel := m.Editor.Selected(); sel != nil {
			m.Status = fmt.Sprintf("selected %s #%d", sel.Kind, sel.Index)
		} else {
			m.Status = "selection cleared"
		}

	case "s":
		if err := m.Editor.Split(); err != nil {
			m.Status = ErrorStyle.Render(err.Error())
		} else {
			m.Status = "split at playhead"
		}

	case "d":
		if err := m.Editor.Duplicate(); err != nil {
			m.Status = ErrorStyle.Render(err.Error())
		} else {
			m.Status = "duplicated"
		}

	case "x":
		if err := m.Editor.Delete(); err != nil {
			m.Status = ErrorStyle.Render(err.Error())
		} else {
			m.Status = "deleted"
		}

	case "u":
		if m.Editor.Undo() {
			m.Status = "undone"
		} else {
			m.Status = "nothing to undo"
		}

	case "r":
		if m.Editor.Redo() {
			m.Status = "redone"
		} else {
			m.Status = "nothing to redo"
		}

	case "+", "=":
		m.Zoom *= 2
		m.Status = fmt.Sprintf("zoom %.0f cols/s", m.Zoom)

	case "-":
		if m.Zoom > 1 {
			m.Zoom /= 2
		}
		m.Status = fmt.Sprintf("zoom %.0f cols/s", m.Zoom)
	}

	return m, nil
}
