package buffer

import "fmt"

// Point is a 1-based line and column position within a buffer.
// Column counts bytes from the start of the line plus one.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// PointAt converts a byte offset to a 1-based line/column point.
// The offset is clamped to [0, Len()]. The scan is O(offset), which is
// acceptable because it runs only on discrete events (an error, a jump),
// never per keystroke over the whole buffer.
func (b Buffer) PointAt(offset int) Point {
	offset = b.Clamp(offset)
	p := Point{Line: 1, Column: 1}
	for i := 0; i < offset; i++ {
		if b.text[i] == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}
