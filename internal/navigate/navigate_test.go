package navigate

import "testing"

func TestGotoIndexWraparound(t *testing.T) {
	tests := []struct {
		count, requested, want int
	}{
		{0, 0, -1},
		{0, 5, -1},
		{5, 0, 0},
		{5, 4, 4},
		{5, 5, 0},   // one past the last wraps to the first
		{5, -1, 4},  // one before the first wraps to the last
		{5, -6, 4},  // wraps more than once
		{5, 12, 2},
		{1, -1, 0},
	}

	for _, tt := range tests {
		if got := GotoIndex(tt.count, tt.requested); got != tt.want {
			t.Errorf("GotoIndex(%d, %d) = %d, want %d", tt.count, tt.requested, got, tt.want)
		}
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		index, count, want int
	}{
		{3, 0, -1},
		{-1, 0, -1},
		{-1, 4, 0},
		{2, 4, 2},
		{7, 4, 3},
	}

	for _, tt := range tests {
		if got := ClampIndex(tt.index, tt.count); got != tt.want {
			t.Errorf("ClampIndex(%d, %d) = %d, want %d", tt.index, tt.count, got, tt.want)
		}
	}
}

// fakeControl records the order of operations applied to it.
type fakeControl struct {
	ops        []string
	selStart   int
	selEnd     int
	scrolledTo int
	visible    map[int]bool
	focused    bool
}

func (f *fakeControl) SetSelection(start, end int) {
	f.ops = append(f.ops, "select")
	f.selStart, f.selEnd = start, end
}

func (f *fakeControl) ScrollToLine(line int) {
	f.ops = append(f.ops, "scroll")
	f.scrolledTo = line
}

func (f *fakeControl) IsLineVisible(line int) bool {
	return f.visible[line]
}

func (f *fakeControl) Focus() {
	f.ops = append(f.ops, "focus")
	f.focused = true
}

// recordingScheduler queues deferred work so tests control when the "event"
// finishes.
type recordingScheduler struct {
	queue []func()
}

func (s *recordingScheduler) Defer(fn func()) {
	s.queue = append(s.queue, fn)
}

func (s *recordingScheduler) drain() {
	for _, fn := range s.queue {
		fn()
	}
	s.queue = nil
}

func TestGotoSelectsAndScrolls(t *testing.T) {
	ctl := &fakeControl{visible: map[int]bool{}}
	sched := &recordingScheduler{}
	c := NewController(ctl, sched)

	text := "line0\nline1\nline2\nmatch here"
	c.Goto(text, Range{Start: 18, End: 23}, nil)

	if ctl.selStart != 18 || ctl.selEnd != 23 {
		t.Errorf("selection = [%d,%d), want [18,23)", ctl.selStart, ctl.selEnd)
	}
	if ctl.scrolledTo != 3 {
		t.Errorf("scrolled to line %d, want 3", ctl.scrolledTo)
	}
}

func TestGotoSkipsScrollWhenVisible(t *testing.T) {
	ctl := &fakeControl{visible: map[int]bool{0: true}, scrolledTo: -1}
	sched := &recordingScheduler{}
	c := NewController(ctl, sched)

	c.Goto("match", Range{Start: 0, End: 5}, nil)
	if ctl.scrolledTo != -1 {
		t.Error("should not scroll when the match line is already visible")
	}
}

func TestGotoFocusIsDeferred(t *testing.T) {
	ctl := &fakeControl{visible: map[int]bool{}}
	sched := &recordingScheduler{}
	c := NewController(ctl, sched)

	c.Goto("x", Range{Start: 0, End: 1}, nil)

	// Selection and scroll are synchronous; focus must not have happened
	// yet, or the triggering Enter key could type into the new selection.
	if ctl.focused {
		t.Fatal("focus applied before the event resolved")
	}

	sched.drain()
	if !ctl.focused {
		t.Fatal("focus not applied after the event resolved")
	}
	want := []string{"select", "scroll", "focus"}
	for i, op := range want {
		if i >= len(ctl.ops) || ctl.ops[i] != op {
			t.Fatalf("ops = %v, want %v", ctl.ops, want)
		}
	}
}

func TestGotoPreserveFocus(t *testing.T) {
	ctl := &fakeControl{visible: map[int]bool{}}
	sched := &recordingScheduler{}
	c := NewController(ctl, sched)
	c.PreserveFocus = true

	restored := false
	c.Goto("x", Range{Start: 0, End: 1}, func() { restored = true })
	sched.drain()

	if ctl.focused {
		t.Error("editor must not be focused in preserve-focus mode")
	}
	if !restored {
		t.Error("previous focus owner was not restored")
	}
}
