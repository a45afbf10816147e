package backend

import (
	"strings"

	"github.com/calebmartin/findview/internal/renderer/core"
)

// ScreenBuffer is an in-memory Backend. The renderer composes full frames
// onto it, and tests read cells back without a terminal.
type ScreenBuffer struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
}

// NewScreenBuffer creates a screen buffer with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	sb := &ScreenBuffer{width: width, height: height, cursorX: -1, cursorY: -1}
	sb.allocate()
	return sb
}

func (sb *ScreenBuffer) allocate() {
	sb.cells = make([][]core.Cell, sb.height)
	for y := range sb.cells {
		row := make([]core.Cell, sb.width)
		for x := range row {
			row[x] = core.EmptyCell()
		}
		sb.cells[y] = row
	}
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (int, int) {
	return sb.width, sb.height
}

// SetCell writes a cell, ignoring out-of-bounds positions.
func (sb *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	if x < 0 || y < 0 || x >= sb.width || y >= sb.height {
		return
	}
	sb.cells[y][x] = cell
}

// Cell returns the cell at the given position, or an empty cell when out
// of bounds.
func (sb *ScreenBuffer) Cell(x, y int) core.Cell {
	if x < 0 || y < 0 || x >= sb.width || y >= sb.height {
		return core.EmptyCell()
	}
	return sb.cells[y][x]
}

// ShowCursor records the cursor position.
func (sb *ScreenBuffer) ShowCursor(x, y int) {
	sb.cursorX, sb.cursorY = x, y
}

// CursorPosition returns the recorded cursor position (-1, -1 when hidden).
func (sb *ScreenBuffer) CursorPosition() (int, int) {
	return sb.cursorX, sb.cursorY
}

// Flush is a no-op for the in-memory buffer.
func (sb *ScreenBuffer) Flush() {}

// Clear resets every cell to the empty cell.
func (sb *ScreenBuffer) Clear() {
	for y := range sb.cells {
		for x := range sb.cells[y] {
			sb.cells[y][x] = core.EmptyCell()
		}
	}
}

// Resize resizes the buffer, preserving content where possible.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == sb.width && height == sb.height {
		return
	}

	old := sb.cells
	oldW, oldH := sb.width, sb.height
	sb.width, sb.height = width, height
	sb.allocate()

	for y := 0; y < minInt(oldH, height); y++ {
		for x := 0; x < minInt(oldW, width); x++ {
			sb.cells[y][x] = old[y][x]
		}
	}
}

// RowString renders a row's runes as a string, useful in test failures.
// Continuation cells are skipped.
func (sb *ScreenBuffer) RowString(y int) string {
	if y < 0 || y >= sb.height {
		return ""
	}
	var b strings.Builder
	for _, c := range sb.cells[y] {
		if c.IsContinuation() {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
