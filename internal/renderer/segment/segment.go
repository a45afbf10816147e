// Package segment composes match ranges and an optional error offset into a
// linear sequence of disjoint display segments. Concatenating the segment
// text always reproduces the source buffer exactly, and the error position
// is rendered at most once; these two properties are what the overlay
// renderer relies on.
package segment

import (
	"sort"
	"unicode/utf8"

	"github.com/calebmartin/findview/internal/find"
)

// Kind tags a display segment.
type Kind uint8

const (
	// KindPlain is undecorated buffer text.
	KindPlain Kind = iota
	// KindMatch is a search match.
	KindMatch
	// KindActiveMatch is the currently selected search match.
	KindActiveMatch
	// KindError is the single highlighted error position.
	KindError
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindMatch:
		return "match"
	case KindActiveMatch:
		return "active-match"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Segment is a contiguous, tagged span of buffer text.
type Segment struct {
	Kind Kind
	Text string
}

// composer carries the walk state so the error offset is emitted exactly
// once even though it is tested against several candidate regions.
type composer struct {
	text     string
	segments []Segment

	errStart    int
	errEnd      int
	errRendered bool
}

// Compose merges an optional error offset (negative means none) with the
// given match ranges into display segments. Matches are re-clamped, sorted,
// and de-overlapped defensively; the engine guarantees clean input, but the
// compositor does not assume its caller did not violate that.
func Compose(text string, errorOffset int, matches []find.Match, activeIndex int) []Segment {
	c := &composer{text: text, errStart: -1, errEnd: -1}
	if errorOffset >= 0 && errorOffset < len(text) {
		_, width := utf8.DecodeRuneInString(text[errorOffset:])
		c.errStart = errorOffset
		c.errEnd = errorOffset + width
	}

	clean, active := sanitize(text, matches, activeIndex)

	if len(clean) == 0 {
		// No matches: a simple three-part split around the error, if any.
		c.emit(0, len(text), KindPlain)
		return c.segments
	}

	cursor := 0
	for i, m := range clean {
		if m.Start > cursor {
			c.emit(cursor, m.Start, KindPlain)
		}
		kind := KindMatch
		if i == active {
			kind = KindActiveMatch
		}
		if m.End > m.Start {
			c.emit(m.Start, m.End, kind)
		}
		cursor = m.End
	}
	c.emit(cursor, len(text), KindPlain)

	return c.segments
}

// emit appends the [start, end) span with the given kind, splitting it
// around the error position when the error falls inside and has not been
// rendered yet. Match halves keep their active/inactive kind. The error
// span is clipped to the region: a multi-byte error rune cut by a region
// boundary must not spill bytes past end, or concatenation would repeat
// them when the next region is emitted.
func (c *composer) emit(start, end int, kind Kind) {
	if end <= start {
		return
	}
	if c.errRendered || c.errStart < start || c.errStart >= end {
		c.append(kind, start, end)
		return
	}

	errEnd := c.errEnd
	if errEnd > end {
		errEnd = end
	}
	c.append(kind, start, c.errStart)
	c.append(KindError, c.errStart, errEnd)
	c.errRendered = true
	c.append(kind, errEnd, end)
}

func (c *composer) append(kind Kind, start, end int) {
	if end <= start {
		return
	}
	c.segments = append(c.segments, Segment{Kind: kind, Text: c.text[start:end]})
}

// sanitize clamps matches to the text, drops malformed ranges, sorts by
// start, and clips overlaps, tracking where the active match ended up.
func sanitize(text string, matches []find.Match, activeIndex int) ([]find.Match, int) {
	type indexed struct {
		m   find.Match
		idx int
	}

	pending := make([]indexed, 0, len(matches))
	for i, m := range matches {
		if m.Start < 0 {
			m.Start = 0
		}
		if m.End > len(text) {
			m.End = len(text)
		}
		if m.End < m.Start {
			continue
		}
		pending = append(pending, indexed{m: m, idx: i})
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].m.Start < pending[j].m.Start
	})

	clean := make([]find.Match, 0, len(pending))
	active := -1
	cursor := 0
	for _, p := range pending {
		m := p.m
		if m.Start < cursor {
			m.Start = cursor
		}
		if m.End < m.Start {
			continue
		}
		if p.idx == activeIndex {
			active = len(clean)
		}
		clean = append(clean, m)
		cursor = m.End
	}
	return clean, active
}

// Concat reassembles the original buffer text from a segment sequence.
func Concat(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	out := make([]byte, 0, n)
	for _, s := range segments {
		out = append(out, s.Text...)
	}
	return string(out)
}
