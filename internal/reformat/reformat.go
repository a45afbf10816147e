// Package reformat rewrites a buffer into block-indented form while
// tracking where a single input offset lands in the output. A private-use
// marker rune rides through the rewrite attached to the character at the
// tracked offset; afterwards it is located, translated to a line/column
// point, and stripped. This lets an error reported against the raw input be
// shown against the reformatted output without re-parsing.
package reformat

import (
	"strings"
	"unicode/utf8"

	"github.com/calebmartin/findview/internal/engine/buffer"
)

// marker is a private-use rune that never appears in user input.
const marker = ''

// indentUnit is the indentation emitted per container depth.
const indentUnit = "  "

// Result is the reformatted output plus the tracked position, when one was
// requested. Highlight is nil when no offset was tracked.
type Result struct {
	Output    string
	Highlight *buffer.Point
}

// Reformat rewrites raw in a single left-to-right pass: quoted strings and
// their escapes are preserved verbatim; whitespace runs outside strings
// collapse to at most one injected space, never at the start of a line;
// empty container pairs compact to {} and []; a container open starts an
// indented line, a container close a dedented one, and each comma starts a
// new line. errorOffset < 0 disables position tracking; errorOffset == len(raw)
// attaches the marker to the final input character, so end-of-input errors
// highlight the last token.
func Reformat(raw string, errorOffset int) Result {
	w := &writer{raw: raw, markIndex: -1}

	if errorOffset >= 0 {
		if errorOffset >= len(raw) {
			if len(raw) == 0 {
				w.markPending = true
			} else {
				w.markIndex = lastRuneStart(raw)
			}
		} else {
			w.markIndex = errorOffset
		}
	}

	w.run()
	return w.result(errorOffset >= 0)
}

// writer carries the single-pass state.
type writer struct {
	raw       string
	out       strings.Builder
	depth     int
	pending   string // structural newline+indent awaiting the next character
	wantSpace bool   // a collapsed whitespace run awaits the next character

	inString bool
	quote    byte
	escaped  bool

	markIndex   int  // input byte index the marker attaches to, -1 for none
	markPending bool // marker owed to the next emitted character
}

func (w *writer) run() {
	raw := w.raw
	for i := 0; i < len(raw); i++ {
		if i == w.markIndex {
			w.markPending = true
		}
		c := raw[i]

		if w.inString {
			w.write(c)
			switch {
			case w.escaped:
				w.escaped = false
			case c == '\\':
				w.escaped = true
			case c == w.quote:
				w.inString = false
			}
			continue
		}

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			w.wantSpace = true

		case c == '"' || c == '\'':
			w.write(c)
			w.inString = true
			w.quote = c
			w.escaped = false

		case c == '{' || c == '[':
			w.write(c)
			if j, ok := w.emptyPairClose(i, c); ok {
				// Compact {} and [] even when whitespace sat between them.
				if w.markIndex > i && w.markIndex <= j {
					w.markPending = true
				}
				w.write(raw[j])
				i = j
				continue
			}
			w.depth++
			w.pending = "\n" + strings.Repeat(indentUnit, w.depth)

		case c == '}' || c == ']':
			if w.depth > 0 {
				w.depth--
			}
			w.wantSpace = false
			w.pending = "\n" + strings.Repeat(indentUnit, w.depth)
			w.write(c)
			w.pending = "\n" + strings.Repeat(indentUnit, w.depth)

		case c == ',':
			// A comma attaches to whatever precedes it, including a close
			// that already queued its own line break.
			w.pending = ""
			w.wantSpace = false
			w.write(c)
			w.pending = "\n" + strings.Repeat(indentUnit, w.depth)

		case c == ':':
			w.pending = ""
			w.wantSpace = false
			w.write(c)
			w.wantSpace = true

		default:
			w.write(c)
		}
	}

	// End of input: an owed marker lands before the structural tail so it
	// stays adjacent to the last real character.
	if w.markPending {
		w.out.WriteRune(marker)
		w.markPending = false
	}
	if w.pending != "" {
		w.out.WriteString(w.pending)
		w.pending = ""
	}
}

// write flushes pending structure (or one collapsed space), then the owed
// marker, then the character itself.
func (w *writer) write(c byte) {
	if w.pending != "" {
		if w.out.Len() > 0 {
			w.out.WriteString(w.pending)
		}
		w.pending = ""
	} else if w.wantSpace && w.out.Len() > 0 && !w.endsWithNewline() {
		w.out.WriteByte(' ')
	}
	w.wantSpace = false

	if w.markPending {
		w.out.WriteRune(marker)
		w.markPending = false
	}
	w.out.WriteByte(c)
}

func (w *writer) endsWithNewline() bool {
	s := w.out.String()
	return len(s) > 0 && s[len(s)-1] == '\n'
}

// emptyPairClose looks past whitespace after an opening character and
// returns the index of the matching close when the pair is empty.
func (w *writer) emptyPairClose(open int, c byte) (int, bool) {
	closer := byte('}')
	if c == '[' {
		closer = ']'
	}
	for j := open + 1; j < len(w.raw); j++ {
		switch w.raw[j] {
		case ' ', '\t', '\r', '\n':
			continue
		case closer:
			return j, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// result locates and strips the marker and maps it to a line/column point.
func (w *writer) result(tracked bool) Result {
	out := w.out.String()
	if !tracked {
		return Result{Output: out}
	}

	idx := strings.IndexRune(out, marker)
	if idx < 0 {
		return Result{Output: out}
	}

	clean := out[:idx] + out[idx+utf8.RuneLen(marker):]
	point := buffer.New(clean).PointAt(idx)
	return Result{Output: clean, Highlight: &point}
}

// lastRuneStart returns the byte index of the final rune in s.
// s must be non-empty.
func lastRuneStart(s string) int {
	_, size := utf8.DecodeLastRuneInString(s)
	return len(s) - size
}
