// Package core provides shared cell and style types for the renderer
// subsystem. This package breaks import cycles between the renderer and
// its backends.
package core

import "github.com/mattn/go-runewidth"

// Attribute represents text attributes (bold, reverse, etc.).
type Attribute uint8

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint/dim text
	AttrUnderline           // Underlined text
	AttrReverse             // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Color is a terminal color: the default color, or a palette index.
type Color struct {
	// Index is the palette index (0-255) when Default is false.
	Index uint8
	// Default indicates the terminal's default color.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{Index: index}
}

// Style describes the visual appearance of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attrs      Attribute
}

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// WithAttrs returns a copy of the style with the given attributes added.
func (s Style) WithAttrs(attrs Attribute) Style {
	s.Attrs = s.Attrs.With(attrs)
	return s
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s == other
}

// Cell represents a single screen cell.
type Cell struct {
	// Rune is the character to display. A value of 0 indicates a
	// continuation cell (the second column of a wide character).
	Rune rune

	// Width is the display width: 0 for continuation cells, 1 for normal
	// characters, 2 for wide CJK characters.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewStyledCell creates a cell with the given rune and style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// ContinuationCell returns the trailing cell of a wide character.
func ContinuationCell(style Style) Cell {
	return Cell{Rune: 0, Width: 0, Style: style}
}

// IsContinuation returns true if this is the second cell of a wide character.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c == other
}

// RuneWidth returns the display width of a rune in screen cells.
func RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// TabWidth is the fixed tab stop used when laying text out into cells.
// The overlay and the editable control must agree on it, or their columns
// drift apart.
const TabWidth = 4

// StringWidth returns the display width of s in cells, expanding tabs to
// the next tab stop.
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += TabWidth - w%TabWidth
			continue
		}
		w += RuneWidth(r)
	}
	return w
}
