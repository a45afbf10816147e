// Package app ties the editor together: the session owns the buffer, the
// find state, and the error location; the Application runs the terminal
// event loop that keeps the editable control, the mirror overlay, and the
// gutter in step.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/calebmartin/findview/internal/format"
	"github.com/calebmartin/findview/internal/navigate"
	"github.com/calebmartin/findview/internal/renderer/backend"
	"github.com/calebmartin/findview/internal/renderer/core"
	"github.com/calebmartin/findview/internal/renderer/gutter"
	"github.com/calebmartin/findview/internal/renderer/overlay"
	"github.com/calebmartin/findview/internal/renderer/viewport"
)

// wheelLines is how many lines one scroll-wheel notch moves the window.
const wheelLines = 3

// Options configures a new application.
type Options struct {
	// Path is the file to open; empty starts with an empty buffer.
	Path string

	// Gutter disables line numbers when false.
	Gutter bool
}

// Application owns the event loop and all top-level state.
type Application struct {
	term *backend.Terminal

	session *Session
	control *Control
	find    *FindBar
	view    *viewport.Viewport
	gut     *gutter.Gutter
	mirror  *overlay.Mirror
	nav     *navigate.Controller

	path     string
	status   string
	deferred []func()
}

// New creates an application, loading opts.Path when set. Files are
// decoded from UTF-8 or BOM-marked UTF-16 into the internal UTF-8 buffer.
func New(opts Options) (*Application, error) {
	text := ""
	if opts.Path != "" {
		raw, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", opts.Path, err)
		}
		text, err = format.DecodeText(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", opts.Path, err)
		}
	}

	session := NewSession(text)
	view := viewport.New(80, 24)
	gutCfg := gutter.DefaultConfig()
	gutCfg.Enabled = opts.Gutter
	gut := gutter.New(gutCfg)
	mirror := overlay.NewMirror(overlay.DefaultStyles(), view, gut)
	control := NewControl(session, view)

	a := &Application{
		session: session,
		control: control,
		find:    NewFindBar(session),
		view:    view,
		gut:     gut,
		mirror:  mirror,
		path:    opts.Path,
	}
	a.nav = navigate.NewController(control, navigate.SchedulerFunc(a.deferFn))
	a.refreshOverlay()
	return a, nil
}

// SetBackend attaches the terminal and initializes it.
func (a *Application) SetBackend(term *backend.Terminal) error {
	if err := term.Init(); err != nil {
		return err
	}
	a.term = term
	w, h := term.Size()
	a.resize(w, h)
	return nil
}

// Shutdown restores the terminal. Safe to call more than once.
func (a *Application) Shutdown() {
	if a.term != nil {
		a.term.Shutdown()
	}
}

// Quit wakes the event loop from another goroutine and asks it to exit.
func (a *Application) Quit() {
	if a.term != nil {
		a.term.PostEvent(tcell.NewEventInterrupt(ErrQuit))
	}
}

// Run drives the event loop until quit. Deferred work queued during an
// event (focus handoff from navigation) runs after that event has fully
// resolved and before the next render.
func (a *Application) Run() error {
	if a.term == nil {
		return errors.New("app: no backend attached")
	}
	for {
		a.render()
		ev := a.term.PollEvent()
		if err := a.handleEvent(ev); err != nil {
			return err
		}
		a.drainDeferred()
	}
}

// deferFn queues fn to run once the current event has resolved.
func (a *Application) deferFn(fn func()) {
	a.deferred = append(a.deferred, fn)
}

func (a *Application) drainDeferred() {
	for len(a.deferred) > 0 {
		fn := a.deferred[0]
		a.deferred = a.deferred[1:]
		fn()
	}
}

// handleEvent routes one terminal event.
func (a *Application) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		a.resize(w, h)
		return nil
	case *tcell.EventInterrupt:
		if err, ok := ev.Data().(error); ok {
			return err
		}
		return nil
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
		return nil
	case *tcell.EventPaste:
		return nil
	default:
		return nil
	}
}

// handleKey routes a key event: global chords first, then the focused
// widget.
func (a *Application) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return ErrQuit
	case tcell.KeyCtrlF:
		a.control.Blur()
		a.find.Open()
		return nil
	case tcell.KeyEscape:
		if a.find.Visible() {
			a.find.Close()
			a.control.Focus()
		} else {
			a.control.ClearSelection()
		}
		return nil
	case tcell.KeyTab:
		if a.find.Visible() {
			a.switchFocus()
			return nil
		}
	case tcell.KeyCtrlL:
		a.reformat()
		return nil
	case tcell.KeyCtrlS:
		a.save()
		return nil
	case tcell.KeyEnter:
		if a.find.Focused() && a.find.Query() != "" {
			if ev.Modifiers()&tcell.ModShift != 0 {
				a.gotoMatch(-1)
			} else {
				a.gotoMatch(1)
			}
			return nil
		}
	case tcell.KeyF3:
		if a.find.Query() != "" {
			if ev.Modifiers()&tcell.ModShift != 0 {
				a.gotoMatch(-1)
			} else {
				a.gotoMatch(1)
			}
			return nil
		}
	}

	if a.find.Focused() {
		if a.find.HandleKey(ev) {
			a.refreshOverlay()
		}
		return nil
	}
	a.handleEditorKey(ev)
	return nil
}

// handleEditorKey applies a key to the editable control.
func (a *Application) handleEditorKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		a.control.InsertRune(ev.Rune())
	case tcell.KeyEnter:
		a.control.InsertNewline()
	case tcell.KeyTab:
		a.control.InsertRune('\t')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.control.Backspace()
	case tcell.KeyDelete:
		a.control.Delete()
	case tcell.KeyLeft:
		a.control.MoveLeft()
	case tcell.KeyRight:
		a.control.MoveRight()
	case tcell.KeyUp:
		a.control.MoveVertical(-1)
	case tcell.KeyDown:
		a.control.MoveVertical(1)
	case tcell.KeyPgUp:
		a.control.MoveVertical(-a.view.Height())
	case tcell.KeyPgDn:
		a.control.MoveVertical(a.view.Height())
	case tcell.KeyHome:
		a.control.MoveLineStart()
	case tcell.KeyEnd:
		a.control.MoveLineEnd()
	default:
		return
	}
	a.refreshOverlay()
}

// handleMouse maps clicks to the cursor and wheel motion to the shared
// scroll state. The mirror copies the scroll into the gutter in the same
// call, so the two panes never render one event apart.
func (a *Application) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.scrollBy(-wheelLines)
	case ev.Buttons()&tcell.WheelDown != 0:
		a.scrollBy(wheelLines)
	case ev.Buttons()&tcell.Button1 != 0:
		if y >= a.view.Height() {
			return
		}
		scroll := a.view.Scroll()
		a.control.SetCursorCell(scroll.TopLine+y, scroll.LeftColumn+x-a.gut.Width())
		a.find.Blur()
		a.control.Focus()
	}
}

// scrollBy moves the window and mirrors the new offset into the gutter.
func (a *Application) scrollBy(lines int) {
	scroll := a.view.Scroll()
	scroll.TopLine += lines
	a.mirror.SyncScroll(scroll)
}

// switchFocus moves focus between the find bar and the editor.
func (a *Application) switchFocus() {
	if a.find.Focused() {
		a.find.Blur()
		a.control.Focus()
	} else {
		a.control.Blur()
		a.find.Focus()
	}
}

// gotoMatch advances the active match by delta and navigates to it. Focus
// stays where it was, so repeated Enter in the find bar keeps typing there.
func (a *Application) gotoMatch(delta int) {
	match, ok := a.session.Advance(delta)
	if !ok {
		return
	}
	a.nav.PreserveFocus = a.find.Focused()
	prevFocus := a.control.Focus
	if a.find.Focused() {
		prevFocus = a.find.Focus
	}
	a.control.Blur()
	a.find.Blur()
	a.nav.Goto(a.session.Buffer().Text(), navigate.Range{Start: match.Start, End: match.End}, prevFocus)
	a.refreshOverlay()
}

// reformat rewrites the buffer through the formatter and reports failures
// in the status line. A recoverable parse position is highlighted and
// scrolled into view.
func (a *Application) reformat() {
	pt, err := a.session.Reformat(a.control.Cursor())
	switch {
	case err == nil:
		a.status = "Reformatted"
		a.control.ClampCursor()
		if pt != nil {
			a.control.SetCursorPoint(*pt)
		}
	case errors.Is(err, ErrNoRecoverablePosition):
		a.status = "Reformat failed: no recoverable position"
	default:
		a.status = fmt.Sprintf("Reformat failed: %v", err)
	}
	if loc := a.session.ErrorLocation(); loc != nil {
		a.status = fmt.Sprintf("Syntax error at line %d, column %d", loc.Point.Line, loc.Point.Column)
		a.view.CenterOn(loc.Point.Line - 1)
		a.mirror.SyncScroll(a.view.Scroll())
	}
	a.refreshOverlay()
}

// save writes the buffer back to the opened file.
func (a *Application) save() {
	if a.path == "" {
		a.status = "No file to save"
		return
	}
	if err := os.WriteFile(a.path, []byte(a.session.Buffer().Text()), 0o644); err != nil {
		a.status = fmt.Sprintf("Save failed: %v", err)
		return
	}
	a.status = fmt.Sprintf("Saved %s", filepath.Base(a.path))
}

// refreshOverlay rebuilds the mirror's segment layer from the session.
func (a *Application) refreshOverlay() {
	a.mirror.SetSegments(a.session.Segments())
}

// resize recomputes the pane layout for a new terminal size.
func (a *Application) resize(w, h int) {
	a.view.SetSize(maxInt(w-a.gut.Width(), 1), maxInt(h-a.chromeRows(), 1))
}

// chromeRows counts the rows below the text pane.
func (a *Application) chromeRows() int {
	rows := 1 // status line
	if a.find.Visible() {
		rows++
	}
	return rows
}

// render repaints the whole screen.
func (a *Application) render() {
	w, h := a.term.Size()
	a.resize(w, h)
	paneH := h - a.chromeRows()

	a.clearRows(w, 0, paneH)
	a.mirror.Render(a.term, 0, 0, w, paneH)
	a.paintSelection(w, paneH)

	row := paneH
	if a.find.Visible() {
		a.find.Render(a.term, row, w)
		row++
	}
	a.renderStatus(row, w)
	a.placeCursor(w, paneH)
	a.term.Flush()
}

// clearRows blanks a band of rows before widgets draw over it.
func (a *Application) clearRows(w, from, to int) {
	for y := from; y < to; y++ {
		for x := 0; x < w; x++ {
			a.term.SetCell(x, y, core.EmptyCell())
		}
	}
}

// paintSelection re-emits the selected cells with reverse video on top of
// the mirror's output.
func (a *Application) paintSelection(paneW, paneH int) {
	start, end := a.control.Selection()
	if end <= start {
		return
	}
	buf := a.session.Buffer()
	text := buf.Text()
	scroll := a.view.Scroll()
	gw := a.gut.Width()

	for line := buf.LineIndexAt(start); line <= buf.LineIndexAt(end); line++ {
		row := line - scroll.TopLine
		if row < 0 || row >= paneH {
			continue
		}
		ls := buf.LineStart(line)
		le := ls + len(buf.Line(line))
		lo, hi := maxInt(start, ls), minInt(end, le)
		if hi <= lo {
			continue
		}
		c0 := core.StringWidth(text[ls:lo])
		c1 := core.StringWidth(text[ls:hi])
		for col := c0; col < c1; col++ {
			x := gw + col - scroll.LeftColumn
			if x < gw || x >= paneW {
				continue
			}
			cell, ok := a.mirror.CellAt(line, col)
			if !ok {
				continue
			}
			cell.Style = cell.Style.WithAttrs(core.AttrReverse)
			a.term.SetCell(x, row, cell)
		}
	}
}

// renderStatus draws the bottom status line: file name and cursor position
// on the left, transient messages on the right.
func (a *Application) renderStatus(y, w int) {
	style := core.DefaultStyle().WithAttrs(core.AttrReverse)

	name := a.path
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	pt := a.session.Buffer().PointAt(a.control.Cursor())
	left := fmt.Sprintf(" %s  Ln %d, Col %d", name, pt.Line, pt.Column)

	x := drawString(a.term, 0, y, w, left, style)
	for ; x < w; x++ {
		a.term.SetCell(x, y, core.NewStyledCell(' ', style))
	}
	if a.status != "" {
		rx := w - core.StringWidth(a.status) - 1
		if rx > x {
			drawString(a.term, rx, y, w, a.status, style)
		}
	}
}

// placeCursor positions the hardware cursor in whichever widget has focus.
func (a *Application) placeCursor(w, paneH int) {
	switch {
	case a.find.Focused():
		x := a.find.CursorX()
		if x >= w {
			x = w - 1
		}
		a.term.ShowCursor(x, paneH)
	case a.control.Focused():
		x, y, ok := a.control.CursorCell()
		gw := a.gut.Width()
		if ok && gw+x < w {
			a.term.ShowCursor(gw+x, y)
			return
		}
		a.term.ShowCursor(-1, -1)
	default:
		a.term.ShowCursor(-1, -1)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
