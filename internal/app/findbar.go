package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/calebmartin/findview/internal/renderer/backend"
	"github.com/calebmartin/findview/internal/renderer/core"
)

const findPrompt = "Find: "

// FindBar is the single-row search input. It edits the session's search
// options; match recomputation happens inside the session on every change.
type FindBar struct {
	session *Session

	visible bool
	focused bool
	query   []rune
	cursor  int // rune index into query
}

// NewFindBar creates a find bar bound to the session.
func NewFindBar(session *Session) *FindBar {
	return &FindBar{session: session}
}

// Visible reports whether the bar occupies a screen row.
func (f *FindBar) Visible() bool { return f.visible }

// Focused reports whether the bar receives key input.
func (f *FindBar) Focused() bool { return f.focused }

// Focus gives the bar input focus.
func (f *FindBar) Focus() { f.focused = true }

// Blur removes input focus.
func (f *FindBar) Blur() { f.focused = false }

// Open shows the bar and focuses it. The previous query is kept so that
// reopening resumes the last search.
func (f *FindBar) Open() {
	f.visible = true
	f.focused = true
	f.cursor = len(f.query)
	f.apply()
}

// Close hides the bar and clears the search, returning the text pane to
// plain rendering.
func (f *FindBar) Close() {
	f.visible = false
	f.focused = false
	opts := f.session.Options()
	opts.Query = ""
	f.session.SetOptions(opts)
}

// Query returns the current query text.
func (f *FindBar) Query() string { return string(f.query) }

// HandleKey processes a key event while the bar has focus. It reports
// whether the event was consumed.
func (f *FindBar) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return f.toggle(r)
		}
		f.query = append(f.query[:f.cursor], append([]rune{r}, f.query[f.cursor:]...)...)
		f.cursor++
		f.apply()
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if f.cursor == 0 {
			return true
		}
		f.query = append(f.query[:f.cursor-1], f.query[f.cursor:]...)
		f.cursor--
		f.apply()
		return true
	case tcell.KeyDelete:
		if f.cursor < len(f.query) {
			f.query = append(f.query[:f.cursor], f.query[f.cursor+1:]...)
			f.apply()
		}
		return true
	case tcell.KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
		return true
	case tcell.KeyRight:
		if f.cursor < len(f.query) {
			f.cursor++
		}
		return true
	case tcell.KeyHome, tcell.KeyCtrlA:
		f.cursor = 0
		return true
	case tcell.KeyEnd, tcell.KeyCtrlE:
		f.cursor = len(f.query)
		return true
	case tcell.KeyCtrlU:
		f.query = f.query[:0]
		f.cursor = 0
		f.apply()
		return true
	}
	return false
}

// toggle flips a search option by its Alt-key mnemonic: c for case,
// w for whole word, r for regex.
func (f *FindBar) toggle(r rune) bool {
	opts := f.session.Options()
	switch r {
	case 'c', 'C':
		opts.MatchCase = !opts.MatchCase
	case 'w', 'W':
		opts.WholeWord = !opts.WholeWord
	case 'r', 'R':
		opts.Regex = !opts.Regex
	default:
		return false
	}
	f.session.SetOptions(opts)
	return true
}

// apply pushes the query into the session.
func (f *FindBar) apply() {
	opts := f.session.Options()
	opts.Query = string(f.query)
	f.session.SetOptions(opts)
}

// Render draws the bar onto row y. It shows the prompt, the query, the
// match readout, and the option toggles with active ones reversed.
func (f *FindBar) Render(b backend.Backend, y, width int) {
	style := core.DefaultStyle()
	x := 0
	x = drawString(b, x, y, width, findPrompt, style)
	x = drawString(b, x, y, width, string(f.query), style)
	for ; x < width; x++ {
		b.SetCell(x, y, core.NewStyledCell(' ', style))
	}

	// Right-aligned: readout then toggles.
	opts := f.session.Options()
	trailer := fmt.Sprintf(" %s ", f.readout())
	toggles := []struct {
		label string
		on    bool
	}{
		{"Aa", opts.MatchCase},
		{"W", opts.WholeWord},
		{".*", opts.Regex},
	}
	tw := core.StringWidth(trailer)
	for _, t := range toggles {
		tw += core.StringWidth(t.label) + 3 // brackets and separator
	}
	x = width - tw
	if x < 0 {
		return
	}
	x = drawString(b, x, y, width, trailer, style)
	for _, t := range toggles {
		ts := style
		if t.on {
			ts = ts.WithAttrs(core.AttrReverse)
		}
		x = drawString(b, x, y, width, "["+t.label+"]", ts)
		x = drawString(b, x, y, width, " ", style)
	}
}

// readout summarizes the search state for the bar's right edge.
func (f *FindBar) readout() string {
	if errMsg := f.session.PatternErr(); errMsg != "" {
		return errMsg
	}
	if len(f.query) == 0 {
		return ""
	}
	n := f.session.MatchCount()
	if n == 0 {
		return "No results"
	}
	return fmt.Sprintf("%d/%d", f.session.ActiveIndex()+1, n)
}

// CursorX returns the cursor's cell column within the bar row.
func (f *FindBar) CursorX() int {
	return core.StringWidth(findPrompt) + core.StringWidth(string(f.query[:f.cursor]))
}

// drawString writes s at (x, y) clipped to width, returning the column
// after the last cell written.
func drawString(b backend.Backend, x, y, width int, s string, style core.Style) int {
	for _, r := range s {
		w := core.RuneWidth(r)
		if x+w > width {
			break
		}
		b.SetCell(x, y, core.NewStyledCell(r, style))
		for i := 1; i < w; i++ {
			b.SetCell(x+i, y, core.ContinuationCell(style))
		}
		x += w
	}
	return x
}
