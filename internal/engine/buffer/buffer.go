// Package buffer provides the immutable text snapshot the editor session
// works on, together with coordinate conversion between byte offsets,
// line/column points, and UTF-16 code-unit offsets.
//
// A Buffer is replaced wholesale on every edit and after every successful
// reformat; offsets are therefore only meaningful against the Buffer that
// produced them. Every cross-buffer use of an offset must go through an
// explicit mapping step.
package buffer

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Buffer is an immutable text snapshot. The zero value is an empty buffer.
type Buffer struct {
	text string
}

// New creates a buffer holding the given text.
func New(text string) Buffer {
	return Buffer{text: text}
}

// Text returns the full buffer content.
func (b Buffer) Text() string {
	return b.text
}

// Len returns the buffer length in bytes.
func (b Buffer) Len() int {
	return len(b.text)
}

// IsEmpty returns true if the buffer holds no text.
func (b Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// Slice returns the text in the half-open byte range [start, end),
// clamped to the buffer bounds.
func (b Buffer) Slice(start, end int) string {
	start = b.Clamp(start)
	end = b.Clamp(end)
	if end < start {
		start, end = end, start
	}
	return b.text[start:end]
}

// Clamp restricts an offset to [0, Len()].
func (b Buffer) Clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.text) {
		return len(b.text)
	}
	return offset
}

// LineCount returns the number of newline-separated segments, minimum 1.
// A trailing newline starts a final empty line.
func (b Buffer) LineCount() int {
	return strings.Count(b.text, "\n") + 1
}

// LineIndexAt returns the 0-based line index containing the given offset,
// counted as the number of newlines before it.
func (b Buffer) LineIndexAt(offset int) int {
	offset = b.Clamp(offset)
	return strings.Count(b.text[:offset], "\n")
}

// LineStart returns the byte offset at which the given 0-based line begins.
// Lines past the end collapse to Len().
func (b Buffer) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	offset := 0
	for ; line > 0; line-- {
		nl := strings.IndexByte(b.text[offset:], '\n')
		if nl < 0 {
			return len(b.text)
		}
		offset += nl + 1
	}
	return offset
}

// Line returns the text of the given 0-based line without its newline.
func (b Buffer) Line(line int) string {
	start := b.LineStart(line)
	if nl := strings.IndexByte(b.text[start:], '\n'); nl >= 0 {
		return b.text[start : start+nl]
	}
	return b.text[start:]
}

// OffsetToUTF16 converts a byte offset into the corresponding UTF-16
// code-unit offset, the coordinate space the host protocol indexes with.
func (b Buffer) OffsetToUTF16(offset int) int {
	offset = b.Clamp(offset)
	units := 0
	for _, r := range b.text[:offset] {
		units += utf16.RuneLen(r)
	}
	return units
}

// OffsetFromUTF16 converts a UTF-16 code-unit offset into a byte offset.
// Offsets past the end clamp to Len(); an offset landing inside a surrogate
// pair snaps to the start of the rune it splits. The walk advances by the
// decoded byte width, not utf8.RuneLen of the decoded rune: an invalid byte
// decodes to the 3-byte replacement rune but occupies a single byte.
func (b Buffer) OffsetFromUTF16(units int) int {
	if units <= 0 {
		return 0
	}
	offset := 0
	for offset < len(b.text) {
		r, size := utf8.DecodeRuneInString(b.text[offset:])
		w := utf16.RuneLen(r)
		if units < w {
			return offset
		}
		units -= w
		offset += size
		if units == 0 {
			return offset
		}
	}
	return len(b.text)
}
