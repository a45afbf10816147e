package app

import (
	"errors"
	"strings"
	"sync"

	"github.com/calebmartin/findview/internal/engine/buffer"
	"github.com/calebmartin/findview/internal/find"
	"github.com/calebmartin/findview/internal/format"
	"github.com/calebmartin/findview/internal/navigate"
	"github.com/calebmartin/findview/internal/reformat"
	"github.com/calebmartin/findview/internal/renderer/segment"
)

// ErrNoRecoverablePosition indicates a reformat failure without a usable
// offset: only the raw message can be shown.
var ErrNoRecoverablePosition = errors.New("app: reformat failed without a recoverable position")

// ErrorLocation is the single highlighted error position, always
// recomputable from Position plus the buffer that produced it.
type ErrorLocation struct {
	Position int
	Point    buffer.Point
}

// Session holds all in-memory editor state. The buffer is replaced
// wholesale on every edit; the match list is recomputed, never patched,
// whenever the buffer or the find options change.
type Session struct {
	mu sync.RWMutex

	buf  buffer.Buffer
	opts find.Options

	matches     []find.Match
	activeIndex int
	patternErr  string

	errLoc *ErrorLocation
}

// NewSession creates a session over the given text.
func NewSession(text string) *Session {
	return &Session{buf: buffer.New(text), activeIndex: -1}
}

// Buffer returns the current buffer snapshot.
func (s *Session) Buffer() buffer.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf
}

// SetText replaces the buffer after an edit. Any edit clears the error
// location and recomputes the match list against the new buffer.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = buffer.New(text)
	s.errLoc = nil
	s.recompute()
}

// Options returns the current find options.
func (s *Session) Options() find.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// SetOptions replaces the find options and recomputes matches.
func (s *Session) SetOptions(opts find.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	s.recompute()
}

// recompute rebuilds the match list and re-clamps the active index.
// Callers hold the write lock.
func (s *Session) recompute() {
	res := find.Search(s.buf.Text(), s.opts)
	s.matches = res.Matches
	s.patternErr = res.Err
	s.activeIndex = navigate.ClampIndex(s.activeIndex, len(s.matches))
}

// Matches returns the current match list.
func (s *Session) Matches() []find.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matches
}

// MatchCount returns the number of matches, for the count readout.
func (s *Session) MatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

// ActiveIndex returns the active match index, -1 when there are none.
func (s *Session) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeIndex
}

// PatternErr returns the invalid-pattern message, empty when the pattern
// compiled.
func (s *Session) PatternErr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patternErr
}

// Advance moves the active index by delta with wraparound and returns the
// newly active match. ok is false when there are no matches.
func (s *Session) Advance(delta int) (find.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.matches) == 0 {
		s.activeIndex = -1
		return find.Match{}, false
	}
	s.activeIndex = navigate.GotoIndex(len(s.matches), s.activeIndex+delta)
	return s.matches[s.activeIndex], true
}

// JumpTo moves the active index to the requested position with wraparound
// and returns the newly active match.
func (s *Session) JumpTo(index int) (find.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.matches) == 0 {
		s.activeIndex = -1
		return find.Match{}, false
	}
	s.activeIndex = navigate.GotoIndex(len(s.matches), index)
	return s.matches[s.activeIndex], true
}

// ErrorLocation returns the highlighted error position, nil when none.
func (s *Session) ErrorLocation() *ErrorLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errLoc
}

// Segments composes the display segments for the current state.
func (s *Session) Segments() []segment.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	errOff := -1
	if s.errLoc != nil {
		errOff = s.errLoc.Position
	}
	return segment.Compose(s.buf.Text(), errOff, s.matches, s.activeIndex)
}

// Reformat rewrites the buffer. JSON content goes through the JSON
// collaborator; anything else through the block-indentation normalizer,
// which tracks trackOffset through the rewrite and returns where it landed
// so the caller can put the cursor back.
// On success the output becomes the new buffer and any error location is
// cleared; on a JSON syntax error with a known offset, the error location
// is recorded against the current buffer and the buffer is left untouched.
func (s *Session) Reformat(trackOffset int) (*buffer.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := s.buf.Text()
	if format.LooksLikeJSON(text) {
		res, err := format.JSON(text)
		if err != nil {
			return nil, err // size cutoff; no position to record
		}
		s.replaceBuffer(res.Output)
		return nil, nil
	}

	trimmed := strings.TrimLeft(text, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		// JSON-shaped but invalid: recover the syntax error offset.
		res, err := format.JSON(text)
		if err != nil {
			return nil, s.recordReformatError(res.ErrOffset, err)
		}
		s.replaceBuffer(res.Output)
		return nil, nil
	}

	// Not JSON at all: the position-preserving normalizer handles it.
	out := reformat.Reformat(text, s.buf.Clamp(trackOffset))
	s.replaceBuffer(out.Output)
	return out.Highlight, nil
}

// recordReformatError stores the error location for display. The buffer is
// never mutated as a side effect of a failed operation. Callers hold the
// write lock.
func (s *Session) recordReformatError(offset int, err error) error {
	if offset < 0 {
		s.errLoc = nil
		return errors.Join(ErrNoRecoverablePosition, err)
	}
	offset = s.buf.Clamp(offset)
	s.errLoc = &ErrorLocation{Position: offset, Point: s.buf.PointAt(offset)}
	return err
}

// replaceBuffer installs reformatted output as the new buffer. Callers
// hold the write lock.
func (s *Session) replaceBuffer(text string) {
	s.buf = buffer.New(text)
	s.errLoc = nil
	s.recompute()
}
