// Package gutter renders the optional line-number column. The gutter is
// vertically synced to the editable control's scroll state and is immune
// to horizontal scrolling.
package gutter

import (
	"strconv"

	"github.com/calebmartin/findview/internal/renderer/core"
)

// Config holds gutter display options.
type Config struct {
	// Enabled toggles the gutter entirely.
	Enabled bool
	// MinWidth is the minimum digit width for line numbers.
	MinWidth int
	// Style is used for line-number cells.
	Style core.Style
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		MinWidth: 3,
		Style:    core.DefaultStyle().WithAttrs(core.AttrDim),
	}
}

// Gutter formats and renders line numbers for the visible window.
type Gutter struct {
	cfg       Config
	lineCount int
	topLine   int
}

// New creates a gutter with the given configuration.
func New(cfg Config) *Gutter {
	if cfg.MinWidth < 1 {
		cfg.MinWidth = 1
	}
	return &Gutter{cfg: cfg, lineCount: 1}
}

// SetLineCount sets the buffer's line count (minimum 1), which determines
// the gutter width.
func (g *Gutter) SetLineCount(count int) {
	if count < 1 {
		count = 1
	}
	g.lineCount = count
}

// SyncTop copies the control's first visible line onto the gutter. Only the
// vertical component is taken; horizontal scroll never affects the gutter.
func (g *Gutter) SyncTop(topLine int) {
	if topLine < 0 {
		topLine = 0
	}
	g.topLine = topLine
}

// TopLine returns the gutter's first visible 0-based line.
func (g *Gutter) TopLine() int {
	return g.topLine
}

// Width returns the gutter width in cells: digits plus one separator
// column. Zero when disabled.
func (g *Gutter) Width() int {
	if !g.cfg.Enabled {
		return 0
	}
	return g.digits() + 1
}

// RenderRow returns the gutter cells for the given screen row. Rows past
// the last buffer line render blank.
func (g *Gutter) RenderRow(row int) []core.Cell {
	width := g.Width()
	if width == 0 {
		return nil
	}

	line := g.topLine + row
	cells := make([]core.Cell, width)
	for i := range cells {
		cells[i] = core.NewStyledCell(' ', g.cfg.Style)
	}
	if line < 0 || line >= g.lineCount {
		return cells
	}

	num := strconv.Itoa(line + 1)
	pad := g.digits() - len(num)
	for i, r := range num {
		cells[pad+i] = core.NewStyledCell(r, g.cfg.Style)
	}
	return cells
}

// digits returns the display width needed for the highest line number.
func (g *Gutter) digits() int {
	d := len(strconv.Itoa(g.lineCount))
	if d < g.cfg.MinWidth {
		d = g.cfg.MinWidth
	}
	return d
}
