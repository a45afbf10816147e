// Package overlay renders the composed display segments as a mirror layer
// stacked behind the editable control. The mirror and the control share one
// cell pipeline, so character alignment between them is structural rather
// than cosmetic, and their scroll offsets are copied in the same event.
package overlay

import (
	"github.com/calebmartin/findview/internal/renderer/backend"
	"github.com/calebmartin/findview/internal/renderer/core"
	"github.com/calebmartin/findview/internal/renderer/gutter"
	"github.com/calebmartin/findview/internal/renderer/segment"
	"github.com/calebmartin/findview/internal/renderer/viewport"
)

// nbsp keeps highlighted blanks visible: a plain space inside a decorated
// span would collapse against the background otherwise.
const nbsp = ' '

// StyleSet maps segment kinds to cell styles.
type StyleSet struct {
	Plain       core.Style
	Match       core.Style
	ActiveMatch core.Style
	Error       core.Style
}

// DefaultStyles returns the default highlight palette.
func DefaultStyles() StyleSet {
	return StyleSet{
		Plain:       core.DefaultStyle(),
		Match:       core.Style{Foreground: core.ColorFromIndex(0), Background: core.ColorFromIndex(11)},
		ActiveMatch: core.Style{Foreground: core.ColorFromIndex(0), Background: core.ColorFromIndex(208)},
		Error:       core.Style{Foreground: core.ColorFromIndex(15), Background: core.ColorFromIndex(9)},
	}
}

// styleFor returns the style for a segment kind.
func (s StyleSet) styleFor(kind segment.Kind) core.Style {
	switch kind {
	case segment.KindMatch:
		return s.Match
	case segment.KindActiveMatch:
		return s.ActiveMatch
	case segment.KindError:
		return s.Error
	default:
		return s.Plain
	}
}

// Mirror holds the rendered segment lines plus the scroll state shared with
// the gutter. It is rebuilt from scratch whenever the segments change.
type Mirror struct {
	styles StyleSet
	view   *viewport.Viewport
	gut    *gutter.Gutter

	lines [][]core.Cell
}

// NewMirror creates a mirror layer rendering through the given viewport and
// gutter.
func NewMirror(styles StyleSet, view *viewport.Viewport, gut *gutter.Gutter) *Mirror {
	return &Mirror{
		styles: styles,
		view:   view,
		gut:    gut,
		lines:  [][]core.Cell{nil},
	}
}

// SetSegments rebuilds the mirror's cell lines from a segment sequence and
// updates the gutter's line count to match.
func (m *Mirror) SetSegments(segs []segment.Segment) {
	m.lines = buildLines(segs, m.styles)
	m.gut.SetLineCount(len(m.lines))
	m.view.SetMaxLine(len(m.lines) - 1)
}

// LineCount returns the number of rendered lines, minimum 1.
func (m *Mirror) LineCount() int {
	return len(m.lines)
}

// SyncScroll copies the editable control's scroll offsets onto the mirror
// and the gutter in this same call; deferring the copy would let the
// overlay visibly lag the control.
func (m *Mirror) SyncScroll(state viewport.ScrollState) {
	m.view.SetScroll(state)
	m.gut.SyncTop(m.view.Scroll().TopLine)
}

// Render draws the gutter and the visible text window into the given
// backend rectangle.
func (m *Mirror) Render(b backend.Backend, x, y, width, height int) {
	scroll := m.view.Scroll()
	gutterWidth := m.gut.Width()
	textWidth := width - gutterWidth
	if textWidth < 0 {
		textWidth = 0
	}

	for row := 0; row < height; row++ {
		for i, cell := range m.gut.RenderRow(row) {
			b.SetCell(x+i, y+row, cell)
		}

		line := scroll.TopLine + row
		var cells []core.Cell
		if line >= 0 && line < len(m.lines) {
			cells = m.lines[line]
		}
		for col := 0; col < textWidth; col++ {
			src := scroll.LeftColumn + col
			cell := core.NewStyledCell(' ', m.styles.Plain)
			if src < len(cells) {
				cell = cells[src]
			}
			b.SetCell(x+gutterWidth+col, y+row, cell)
		}
	}
}

// CellAt returns the rendered cell at a buffer line/column, for callers
// that need to probe the mirror (tests, the control's selection painter).
func (m *Mirror) CellAt(line, col int) (core.Cell, bool) {
	if line < 0 || line >= len(m.lines) {
		return core.Cell{}, false
	}
	if col < 0 || col >= len(m.lines[line]) {
		return core.Cell{}, false
	}
	return m.lines[line][col], true
}

// buildLines lays the segment text out into per-line cell slices. Wide
// runes occupy a continuation cell; tabs expand to the next tab stop.
func buildLines(segs []segment.Segment, styles StyleSet) [][]core.Cell {
	lines := make([][]core.Cell, 1)
	cur := 0

	for _, seg := range segs {
		style := styles.styleFor(seg.Kind)
		highlighted := seg.Kind != segment.KindPlain

		for _, r := range seg.Text {
			switch {
			case r == '\n':
				lines = append(lines, nil)
				cur++
			case r == '\t':
				for pad := core.TabWidth - len(lines[cur])%core.TabWidth; pad > 0; pad-- {
					lines[cur] = append(lines[cur], core.NewStyledCell(' ', style))
				}
			case r == ' ' && highlighted:
				lines[cur] = append(lines[cur], core.NewStyledCell(nbsp, style))
			default:
				cell := core.NewStyledCell(r, style)
				lines[cur] = append(lines[cur], cell)
				if cell.Width == 2 {
					lines[cur] = append(lines[cur], core.ContinuationCell(style))
				}
			}
		}
	}
	return lines
}
