package app

import (
	"unicode/utf8"

	"github.com/calebmartin/findview/internal/engine/buffer"
	"github.com/calebmartin/findview/internal/renderer/core"
	"github.com/calebmartin/findview/internal/renderer/viewport"
)

// Control is the editable text control. It owns the cursor and selection
// and is the only writer of them besides the navigation controller; the
// mirror overlay renders the text itself, so the control contributes just
// cursor, selection, and edits.
type Control struct {
	session *Session
	view    *viewport.Viewport

	cursor   int
	selStart int
	selEnd   int
	focused  bool
}

// NewControl creates a control over the session, scrolling through the
// shared viewport.
func NewControl(session *Session, view *viewport.Viewport) *Control {
	return &Control{session: session, view: view, focused: true}
}

// Cursor returns the cursor byte offset.
func (c *Control) Cursor() int {
	return c.cursor
}

// Selection returns the selected byte range; start == end means none.
func (c *Control) Selection() (start, end int) {
	return c.selStart, c.selEnd
}

// SetSelection selects [start, end) and places the cursor at the end.
func (c *Control) SetSelection(start, end int) {
	buf := c.session.Buffer()
	c.selStart = buf.Clamp(start)
	c.selEnd = buf.Clamp(end)
	c.cursor = c.selEnd
}

// ClearSelection collapses the selection to the cursor.
func (c *Control) ClearSelection() {
	c.selStart = c.cursor
	c.selEnd = c.cursor
}

// ScrollToLine vertically centers the given 0-based line.
func (c *Control) ScrollToLine(line int) {
	c.view.CenterOn(line)
}

// IsLineVisible reports whether the line is inside the visible window.
func (c *Control) IsLineVisible(line int) bool {
	return c.view.IsLineVisible(line)
}

// Focus gives the control input focus.
func (c *Control) Focus() {
	c.focused = true
}

// Blur removes input focus.
func (c *Control) Blur() {
	c.focused = false
}

// Focused reports whether the control has input focus.
func (c *Control) Focused() bool {
	return c.focused
}

// InsertRune types a rune at the cursor, replacing any selection.
func (c *Control) InsertRune(r rune) {
	c.replaceSelection(string(r))
}

// InsertNewline types a line break at the cursor.
func (c *Control) InsertNewline() {
	c.replaceSelection("\n")
}

// Backspace deletes the selection, or the rune before the cursor.
func (c *Control) Backspace() {
	if c.selEnd > c.selStart {
		c.replaceSelection("")
		return
	}
	text := c.session.Buffer().Text()
	if c.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(text[:c.cursor])
	start := c.cursor - size
	c.session.SetText(text[:start] + text[c.cursor:])
	c.cursor = start
	c.ClearSelection()
	c.ensureCursorVisible()
}

// Delete removes the selection, or the rune after the cursor.
func (c *Control) Delete() {
	if c.selEnd > c.selStart {
		c.replaceSelection("")
		return
	}
	text := c.session.Buffer().Text()
	if c.cursor >= len(text) {
		return
	}
	_, size := utf8.DecodeRuneInString(text[c.cursor:])
	c.session.SetText(text[:c.cursor] + text[c.cursor+size:])
	c.ClearSelection()
	c.ensureCursorVisible()
}

// replaceSelection swaps the selected range (or the cursor position) for
// the given text. Every edit replaces the whole buffer.
func (c *Control) replaceSelection(insert string) {
	text := c.session.Buffer().Text()
	start, end := c.selStart, c.selEnd
	if end <= start {
		start, end = c.cursor, c.cursor
	}
	c.session.SetText(text[:start] + insert + text[end:])
	c.cursor = start + len(insert)
	c.ClearSelection()
	c.ensureCursorVisible()
}

// MoveLeft moves the cursor one rune left.
func (c *Control) MoveLeft() {
	text := c.session.Buffer().Text()
	if c.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(text[:c.cursor])
	c.cursor -= size
	c.ClearSelection()
	c.ensureCursorVisible()
}

// MoveRight moves the cursor one rune right.
func (c *Control) MoveRight() {
	text := c.session.Buffer().Text()
	if c.cursor >= len(text) {
		return
	}
	_, size := utf8.DecodeRuneInString(text[c.cursor:])
	c.cursor += size
	c.ClearSelection()
	c.ensureCursorVisible()
}

// MoveVertical moves the cursor by whole lines, keeping the byte column
// where the shorter target line allows.
func (c *Control) MoveVertical(delta int) {
	buf := c.session.Buffer()
	line := buf.LineIndexAt(c.cursor)
	col := c.cursor - buf.LineStart(line)

	target := line + delta
	if target < 0 {
		target = 0
	}
	if last := buf.LineCount() - 1; target > last {
		target = last
	}

	lineText := buf.Line(target)
	if col > len(lineText) {
		col = len(lineText)
	}
	c.cursor = buf.LineStart(target) + col
	c.ClearSelection()
	c.ensureCursorVisible()
}

// ClampCursor pulls the cursor back inside the buffer after the buffer
// was replaced underneath the control.
func (c *Control) ClampCursor() {
	c.cursor = c.session.Buffer().Clamp(c.cursor)
	c.ClearSelection()
	c.ensureCursorVisible()
}

// SetCursorPoint places the cursor at a 1-based line and byte column.
func (c *Control) SetCursorPoint(pt buffer.Point) {
	buf := c.session.Buffer()
	line := pt.Line - 1
	if line < 0 {
		line = 0
	}
	if last := buf.LineCount() - 1; line > last {
		line = last
	}
	col := pt.Column - 1
	if limit := len(buf.Line(line)); col > limit {
		col = limit
	}
	if col < 0 {
		col = 0
	}
	c.cursor = buf.LineStart(line) + col
	c.ClearSelection()
	c.ensureCursorVisible()
}

// MoveLineStart moves the cursor to the start of its line.
func (c *Control) MoveLineStart() {
	buf := c.session.Buffer()
	c.cursor = buf.LineStart(buf.LineIndexAt(c.cursor))
	c.ClearSelection()
	c.ensureCursorVisible()
}

// MoveLineEnd moves the cursor past the last character of its line.
func (c *Control) MoveLineEnd() {
	buf := c.session.Buffer()
	line := buf.LineIndexAt(c.cursor)
	c.cursor = buf.LineStart(line) + len(buf.Line(line))
	c.ClearSelection()
	c.ensureCursorVisible()
}

// SetCursorCell places the cursor at the byte offset nearest the given
// 0-based line and cell column, for mouse clicks.
func (c *Control) SetCursorCell(line, col int) {
	buf := c.session.Buffer()
	if line < 0 {
		line = 0
	}
	if last := buf.LineCount() - 1; line > last {
		line = last
	}

	lineText := buf.Line(line)
	offset := buf.LineStart(line)
	w := 0
	for _, r := range lineText {
		rw := core.RuneWidth(r)
		if r == '\t' {
			rw = core.TabWidth - w%core.TabWidth
		}
		if w+rw > col {
			break
		}
		w += rw
		offset += utf8.RuneLen(r)
	}
	c.cursor = offset
	c.ClearSelection()
}

// CursorCell returns the cursor position in screen cells relative to the
// text pane origin, accounting for the current scroll offsets. ok is false
// when the cursor is scrolled out of view.
func (c *Control) CursorCell() (x, y int, ok bool) {
	buf := c.session.Buffer()
	line := buf.LineIndexAt(c.cursor)
	col := core.StringWidth(buf.Text()[buf.LineStart(line):c.cursor])

	scroll := c.view.Scroll()
	x = col - scroll.LeftColumn
	y = line - scroll.TopLine
	if y < 0 || y >= c.view.Height() || x < 0 {
		return 0, 0, false
	}
	return x, y, true
}

// ensureCursorVisible scrolls just enough to bring the cursor back into
// the window after an edit or cursor move.
func (c *Control) ensureCursorVisible() {
	buf := c.session.Buffer()
	line := buf.LineIndexAt(c.cursor)

	scroll := c.view.Scroll()
	switch {
	case line < scroll.TopLine:
		scroll.TopLine = line
	case line >= scroll.TopLine+c.view.Height():
		scroll.TopLine = line - c.view.Height() + 1
	}

	col := core.StringWidth(buf.Text()[buf.LineStart(line):c.cursor])
	width := c.view.Width()
	switch {
	case col < scroll.LeftColumn:
		scroll.LeftColumn = col
	case width > 0 && col >= scroll.LeftColumn+width:
		scroll.LeftColumn = col - width + 1
	}

	c.view.SetScroll(scroll)
}
