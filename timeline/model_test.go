package timeline

import "testing"

func TestSortedForMerge(t *testing.T) {
	files := []MediaFile{
		{ID: "c", PositionStart: 8, IncludeInMerge: true},
		{ID: "skip", PositionStart: 1, IncludeInMerge: false},
		{ID: "a", PositionStart: 0, IncludeInMerge: true},
		{ID: "b1", PositionStart: 4, IncludeInMerge: true},
		{ID: "b2", PositionStart: 4, IncludeInMerge: true},
	}

	got := SortedForMerge(files)
	wantOrder := []string{"a", "b1", "b2", "c"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d files, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s (ties must keep list order)", i, got[i].ID, id)
		}
	}
	// Input order untouched.
	if files[0].ID != "c" {
		t.Error("SortedForMerge must not mutate its input")
	}
}

func TestDurationConsistent(t *testing.T) {
	m := MediaFile{StartTime: 0, EndTime: 10, PositionStart: 0, PositionEnd: 5, PlaybackSpeed: 2}
	if !m.DurationConsistent(30) {
		t.Error("10s source at 2x over 5s position window should be consistent")
	}
	m.PositionEnd = 6
	if m.DurationConsistent(30) {
		t.Error("a full second of drift is well past one frame of tolerance")
	}
	// Within one frame at 30fps.
	m.PositionEnd = 5.02
	if !m.DurationConsistent(30) {
		t.Error("drift below 1/30s should pass")
	}
}

func TestActiveAtWindowIsHalfOpen(t *testing.T) {
	m := MediaFile{PositionStart: 2, PositionEnd: 5}
	if m.ActiveAt(1.99) || !m.ActiveAt(2) || !m.ActiveAt(4.99) || m.ActiveAt(5) {
		t.Error("media window must be [positionStart, positionEnd)")
	}
	e := TextElement{PositionStart: 2, PositionEnd: 5}
	if e.ActiveAt(1.99) || !e.ActiveAt(2) || e.ActiveAt(5) {
		t.Error("text window must be [positionStart, positionEnd)")
	}
}

func TestTotalDuration(t *testing.T) {
	p := &ProjectState{
		MediaFiles:   []MediaFile{{PositionEnd: 12}},
		TextElements: []TextElement{{PositionEnd: 20}},
	}
	if got := p.TotalDuration(); got != 20 {
		t.Errorf("TotalDuration = %v, want 20 (text may outlast media)", got)
	}
}
