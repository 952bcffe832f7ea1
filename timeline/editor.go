package timeline

import (
	"errors"

	"github.com/google/uuid"
)

// Editing errors surfaced to the user; the document is never modified when
// one is returned.
var (
	ErrNoSelection = errors.New("no element selected")
	ErrOutOfBounds = errors.New("playhead is outside the selected element bounds")
)

// ElementKind identifies which collection a selection points into.
type ElementKind string

const (
	KindMedia ElementKind = "media"
	KindText  ElementKind = "text"
)

// Selection addresses one element: a collection kind plus an index into it.
type Selection struct {
	Kind  ElementKind
	Index int
}

// snapshot is a whole-document copy used by the undo/redo stacks.
type snapshot struct {
	mediaFiles   []MediaFile
	textElements []TextElement
}

// Editor owns the editable timeline state. Every operation reads the current
// collections, computes replacements, and swaps them in whole; observers
// never see a half-applied edit.
type Editor struct {
	project  *ProjectState
	selected *Selection

	history []snapshot
	future  []snapshot
}

// NewEditor wraps a loaded project in an editor. The project is edited in
// place; callers keep ownership of the pointer.
func NewEditor(project *ProjectState) *Editor {
	return &Editor{project: project}
}

// Project returns the document being edited.
func (ed *Editor) Project() *ProjectState { return ed.project }

// Selected returns the active selection, or nil when nothing is selected.
func (ed *Editor) Selected() *Selection { return ed.selected }

// Select marks one element active. Out-of-range indexes clear the selection.
func (ed *Editor) Select(kind ElementKind, index int) {
	switch kind {
	case KindMedia:
		if index < 0 || index >= len(ed.project.MediaFiles) {
			ed.selected = nil
			return
		}
	case KindText:
		if index < 0 || index >= len(ed.project.TextElements) {
			ed.selected = nil
			return
		}
	default:
		ed.selected = nil
		return
	}
	ed.selected = &Selection{Kind: kind, Index: index}
}

// ClearSelection drops the active selection.
func (ed *Editor) ClearSelection() { ed.selected = nil }

// Split cuts the selected element in two at the playhead. Media splits also
// divide the source trim window proportionally so both halves keep the
// duration-consistency invariant. Both halves get fresh ids; the selection is
// cleared afterwards.
func (ed *Editor) Split() error {
	sel := ed.selected
	if sel == nil {
		return ErrNoSelection
	}
	t := ed.project.CurrentTime

	switch sel.Kind {
	case KindMedia:
		files := ed.project.MediaFiles
		if sel.Index >= len(files) {
			return ErrNoSelection
		}
		el := files[sel.Index]
		if t <= el.PositionStart || t >= el.PositionEnd {
			return ErrOutOfBounds
		}

		ratio := (t - el.PositionStart) / el.PositionDuration()
		splitOffset := el.StartTime + ratio*el.SourceDuration()

		first := el
		first.ID = uuid.NewString()
		first.PositionEnd = t
		first.EndTime = splitOffset

		second := el
		second.ID = uuid.NewString()
		second.PositionStart = t
		second.StartTime = splitOffset

		next := make([]MediaFile, 0, len(files)+1)
		next = append(next, files[:sel.Index]...)
		next = append(next, first, second)
		next = append(next, files[sel.Index+1:]...)

		ed.commit()
		ed.project.MediaFiles = next

	case KindText:
		elements := ed.project.TextElements
		if sel.Index >= len(elements) {
			return ErrNoSelection
		}
		el := elements[sel.Index]
		if t <= el.PositionStart || t >= el.PositionEnd {
			return ErrOutOfBounds
		}

		// Text has no source trim window; only the position window divides.
		first := el
		first.ID = uuid.NewString()
		first.PositionEnd = t

		second := el
		second.ID = uuid.NewString()
		second.PositionStart = t

		next := make([]TextElement, 0, len(elements)+1)
		next = append(next, elements[:sel.Index]...)
		next = append(next, first, second)
		next = append(next, elements[sel.Index+1:]...)

		ed.commit()
		ed.project.TextElements = next

	default:
		return ErrNoSelection
	}

	ed.selected = nil
	return nil
}

// Duplicate inserts a clone of the selected element, with a fresh id and
// identical timing, immediately after the original.
func (ed *Editor) Duplicate() error {
	sel := ed.selected
	if sel == nil {
		return ErrNoSelection
	}

	switch sel.Kind {
	case KindMedia:
		files := ed.project.MediaFiles
		if sel.Index >= len(files) {
			return ErrNoSelection
		}
		clone := files[sel.Index]
		clone.ID = uuid.NewString()

		next := make([]MediaFile, 0, len(files)+1)
		next = append(next, files[:sel.Index+1]...)
		next = append(next, clone)
		next = append(next, files[sel.Index+1:]...)

		ed.commit()
		ed.project.MediaFiles = next

	case KindText:
		elements := ed.project.TextElements
		if sel.Index >= len(elements) {
			return ErrNoSelection
		}
		clone := elements[sel.Index]
		clone.ID = uuid.NewString()

		next := make([]TextElement, 0, len(elements)+1)
		next = append(next, elements[:sel.Index+1]...)
		next = append(next, clone)
		next = append(next, elements[sel.Index+1:]...)

		ed.commit()
		ed.project.TextElements = next

	default:
		return ErrNoSelection
	}

	ed.selected = nil
	return nil
}

// Delete removes the selected element, matching by id so a stale index never
// removes the wrong item.
func (ed *Editor) Delete() error {
	sel := ed.selected
	if sel == nil {
		return ErrNoSelection
	}

	switch sel.Kind {
	case KindMedia:
		files := ed.project.MediaFiles
		if sel.Index >= len(files) {
			return ErrNoSelection
		}
		id := files[sel.Index].ID
		next := make([]MediaFile, 0, len(files)-1)
		for _, f := range files {
			if f.ID != id {
				next = append(next, f)
			}
		}
		ed.commit()
		ed.project.MediaFiles = next

	case KindText:
		elements := ed.project.TextElements
		if sel.Index >= len(elements) {
			return ErrNoSelection
		}
		id := elements[sel.Index].ID
		next := make([]TextElement, 0, len(elements)-1)
		for _, e := range elements {
			if e.ID != id {
				next = append(next, e)
			}
		}
		ed.commit()
		ed.project.TextElements = next

	default:
		return ErrNoSelection
	}

	ed.selected = nil
	return nil
}

// SeekPixels maps a pixel offset on the timeline ruler to a playhead time
// (time = px / zoom), clamps it to the project duration, and stops playback.
func (ed *Editor) SeekPixels(offsetPx, zoomPxPerSecond float64) float64 {
	if zoomPxPerSecond <= 0 {
		zoomPxPerSecond = 1
	}
	return ed.SeekTo(offsetPx / zoomPxPerSecond)
}

// SeekTo moves the playhead to t clamped to [0, totalDuration] and stops
// playback. It always succeeds and returns the clamped time.
func (ed *Editor) SeekTo(t float64) float64 {
	total := ed.project.TotalDuration()
	if t < 0 {
		t = 0
	}
	if t > total {
		t = total
	}
	ed.project.IsPlaying = false
	ed.project.CurrentTime = t
	return t
}

// Undo restores the most recent snapshot. Returns false when the history is
// empty.
func (ed *Editor) Undo() bool {
	if len(ed.history) == 0 {
		return false
	}
	ed.future = append(ed.future, ed.capture())
	last := ed.history[len(ed.history)-1]
	ed.history = ed.history[:len(ed.history)-1]
	ed.restore(last)
	return true
}

// Redo reapplies the most recently undone edit. Returns false when there is
// nothing to redo.
func (ed *Editor) Redo() bool {
	if len(ed.future) == 0 {
		return false
	}
	ed.history = append(ed.history, ed.capture())
	last := ed.future[len(ed.future)-1]
	ed.future = ed.future[:len(ed.future)-1]
	ed.restore(last)
	return true
}

// commit pushes the current document onto the history stack and invalidates
// the redo stack. Called once per successful edit, before mutation.
func (ed *Editor) commit() {
	ed.history = append(ed.history, ed.capture())
	ed.future = nil
}

func (ed *Editor) capture() snapshot {
	s := snapshot{
		mediaFiles:   make([]MediaFile, len(ed.project.MediaFiles)),
		textElements: make([]TextElement, len(ed.project.TextElements)),
	}
	copy(s.mediaFiles, ed.project.MediaFiles)
	copy(s.textElements, ed.project.TextElements)
	return s
}

func (ed *Editor) restore(s snapshot) {
	ed.project.MediaFiles = s.mediaFiles
	ed.project.TextElements = s.textElements
	ed.selected = nil
}
