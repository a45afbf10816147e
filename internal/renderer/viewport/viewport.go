// Package viewport tracks the visible portion of the buffer. There is no
// scroll animation: synchronization between the editable control, the
// mirror overlay, and the gutter happens within the triggering event, so
// the overlay never visibly lags.
package viewport

import "sync"

// ScrollState is the scroll offset shared between the editable control,
// the mirror overlay, and the line-number gutter.
type ScrollState struct {
	// TopLine is the first visible 0-based line.
	TopLine int
	// LeftColumn is the first visible screen column.
	LeftColumn int
}

// Viewport represents the visible window onto the buffer.
type Viewport struct {
	mu sync.RWMutex

	topLine    int
	leftColumn int

	width  int
	height int

	maxLine int
}

// New creates a viewport with the given size. Dimensions are clamped to a
// minimum of 1 to prevent underflow in visibility math.
func New(width, height int) *Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Viewport{width: width, height: height}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// SetSize resizes the viewport and re-clamps the scroll position.
func (v *Viewport) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
	v.clamp()
}

// SetMaxLine sets the last valid 0-based line and re-clamps.
func (v *Viewport) SetMaxLine(maxLine int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if maxLine < 0 {
		maxLine = 0
	}
	v.maxLine = maxLine
	v.clamp()
}

// Scroll returns the current scroll state.
func (v *Viewport) Scroll() ScrollState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ScrollState{TopLine: v.topLine, LeftColumn: v.leftColumn}
}

// SetScroll sets the scroll state, clamped to the buffer bounds.
func (v *Viewport) SetScroll(state ScrollState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = state.TopLine
	v.leftColumn = state.LeftColumn
	v.clamp()
}

// ScrollBy moves the scroll position by the given deltas.
func (v *Viewport) ScrollBy(lines, columns int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine += lines
	v.leftColumn += columns
	v.clamp()
}

// IsLineVisible reports whether the 0-based line is within the window.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line < v.topLine+v.height
}

// CenterOn scrolls so the given line sits in the vertical middle of the
// window, clamped to the buffer bounds.
func (v *Viewport) CenterOn(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = line - v.height/2
	v.clamp()
}

// clamp restores the scroll invariants. Callers hold the write lock.
func (v *Viewport) clamp() {
	maxTop := v.maxLine - v.height + 1
	if maxTop < 0 {
		maxTop = 0
	}
	if v.topLine > maxTop {
		v.topLine = maxTop
	}
	if v.topLine < 0 {
		v.topLine = 0
	}
	if v.leftColumn < 0 {
		v.leftColumn = 0
	}
}
