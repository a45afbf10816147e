// Package backend provides the screen abstraction the renderer draws to:
// a live tcell terminal in the binary, and an in-memory screen buffer that
// tests inspect directly.
package backend

import "github.com/calebmartin/findview/internal/renderer/core"

// Backend is a grid of cells the renderer composes frames onto.
type Backend interface {
	// Size returns the screen dimensions in cells.
	Size() (width, height int)

	// SetCell writes a cell at the given screen position.
	SetCell(x, y int, cell core.Cell)

	// ShowCursor positions the hardware cursor, or hides it when x < 0.
	ShowCursor(x, y int)

	// Flush makes all pending writes visible.
	Flush()
}
