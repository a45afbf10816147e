package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/calebmartin/findview/internal/renderer/core"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal creates a terminal backend on the process TTY.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// Init initializes the underlying screen.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal state.
func (t *Terminal) Shutdown() {
	t.screen.Fini()
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

// SetCell writes a cell at the given position.
func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return // tcell manages wide-rune continuation cells itself
	}
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

// ShowCursor positions the hardware cursor, hiding it when x < 0.
func (t *Terminal) ShowCursor(x, y int) {
	if x < 0 || y < 0 {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(x, y)
}

// Flush pushes pending content to the terminal.
func (t *Terminal) Flush() {
	t.screen.Show()
}

// PollEvent blocks until the next terminal event.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// PostEvent queues an event into the terminal event stream. The navigation
// controller uses this to defer focus changes past the current key event.
func (t *Terminal) PostEvent(ev tcell.Event) {
	_ = t.screen.PostEvent(ev)
}

// convertStyle translates a core style to a tcell style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background))

	if s.Attrs.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attrs.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attrs.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attrs.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

// convertColor translates a core color to a tcell color.
func convertColor(c core.Color) tcell.Color {
	if c.Default {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(c.Index))
}
