// Package navigate moves the active match index with wraparound and drives
// the editable control's selection, scroll, and focus. Focus movement is
// deliberately deferred past the triggering input event: moving focus while
// an Enter keypress is still resolving can insert a newline into the very
// selection the navigation just set.
package navigate

import "strings"

// Control is the editable control surface the controller drives. Only the
// controller and the user's own typing may mutate the control's selection
// and scroll state.
type Control interface {
	// SetSelection selects the half-open byte range [start, end).
	SetSelection(start, end int)

	// ScrollToLine vertically centers the given 0-based line.
	ScrollToLine(line int)

	// IsLineVisible reports whether the line is inside the visible window.
	IsLineVisible(line int) bool

	// Focus gives the control input focus.
	Focus()
}

// Scheduler defers a function until after the current input event has fully
// resolved. The app wires this to its post-event queue; tests use an
// immediate or recording implementation.
type Scheduler interface {
	Defer(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Defer calls f.
func (f SchedulerFunc) Defer(fn func()) { f(fn) }

// Range is the half-open byte span of a match in the buffer.
type Range struct {
	Start int
	End   int
}

// GotoIndex resolves a requested match index with modulo wraparound:
// one before the first match lands on the last, one past the last lands on
// the first. Returns -1 when there are no matches.
func GotoIndex(matchCount, requested int) int {
	if matchCount <= 0 {
		return -1
	}
	return ((requested % matchCount) + matchCount) % matchCount
}

// ClampIndex restores the active-index invariant after the match list
// changes size: -1 when empty, otherwise within [0, matchCount).
func ClampIndex(index, matchCount int) int {
	if matchCount <= 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	if index >= matchCount {
		return matchCount - 1
	}
	return index
}

// Controller applies navigation side effects to a control.
type Controller struct {
	control   Control
	scheduler Scheduler

	// PreserveFocus re-focuses whichever control had focus before
	// navigation, so repeated next/previous from the search input never
	// steals focus into the editor.
	PreserveFocus bool
}

// NewController creates a controller for the given control and scheduler.
func NewController(control Control, scheduler Scheduler) *Controller {
	return &Controller{control: control, scheduler: scheduler}
}

// Goto selects the match, centers its line when off screen, and hands focus
// to the control once the triggering event has resolved. The text is the
// buffer the match offsets index into; the match line is the newline count
// before its start. In preserve-focus mode, prevFocus (a closure restoring
// whichever control had focus before navigation) runs instead of focusing
// the editor.
func (c *Controller) Goto(text string, match Range, prevFocus func()) {
	// Phase one, synchronous: selection and scroll.
	c.control.SetSelection(match.Start, match.End)

	line := lineIndexAt(text, match.Start)
	if !c.control.IsLineVisible(line) {
		c.control.ScrollToLine(line)
	}

	// Phase two, deferred: focus, after the current event fully completes.
	if c.PreserveFocus && prevFocus != nil {
		c.scheduler.Defer(prevFocus)
		return
	}
	c.scheduler.Defer(c.control.Focus)
}

// lineIndexAt counts newlines before the offset.
func lineIndexAt(text string, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n")
}
