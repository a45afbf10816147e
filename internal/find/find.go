// Package find implements buffer search with literal and regex modes,
// case folding, whole-word filtering, and a match cutoff that bounds
// renderer cost on pathological inputs.
package find

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxMatches caps how many matches a single search collects. Collection
// stops silently at the cap; truncation is not an error.
const MaxMatches = 5000

// Options selects the match semantics for a search.
type Options struct {
	// Query is the search text or pattern. Empty means no search.
	Query string
	// MatchCase disables case folding.
	MatchCase bool
	// WholeWord keeps only matches whose neighbors are non-word characters.
	WholeWord bool
	// Regex interprets Query as a regular expression.
	Regex bool
}

// Match is a half-open [Start, End) byte range into the searched text.
// Start == End occurs only for zero-length regex matches.
type Match struct {
	Start int
	End   int
}

// Result is the outcome of a search. Matches are sorted ascending by Start
// and pairwise non-overlapping. Err is the pattern error for an invalid
// regex query; a non-empty Err always comes with an empty match list.
type Result struct {
	Matches []Match
	Err     string
}

// Search scans text for matches of the query under the given options.
// It never fails for any text content; the only reportable error is an
// invalid regex pattern.
func Search(text string, opts Options) Result {
	if opts.Query == "" {
		return Result{}
	}
	if opts.Regex {
		return searchRegex(text, opts)
	}
	return Result{Matches: searchLiteral(text, opts)}
}

// searchLiteral finds non-overlapping occurrences of the query with a
// forward substring scan. The scan position advances past each match, so a
// needle that could match itself at overlapping positions still terminates.
func searchLiteral(text string, opts Options) []Match {
	if !opts.MatchCase {
		return searchLiteralFolded(text, opts)
	}

	var matches []Match
	pos := 0
	for len(matches) < MaxMatches {
		idx := strings.Index(text[pos:], opts.Query)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(opts.Query)
		if !opts.WholeWord || isWholeWord(text, start, end) {
			matches = append(matches, Match{Start: start, End: end})
		}
		pos = start + maxInt(len(opts.Query), 1)
	}
	return matches
}

// searchLiteralFolded is the case-insensitive literal scan. Folding with
// strings.ToLower keeps byte offsets valid only when it preserves lengths,
// so a rune-by-rune scan takes over when it does not (e.g. İ, K). The
// whole-word filter runs inside the capped scan: filtering afterwards could
// return fewer than MaxMatches kept matches while more exist. Testing
// boundaries against the folded text is equivalent, since length-preserving
// folding maps ASCII word bytes to ASCII word bytes and everything else to
// non-word bytes.
func searchLiteralFolded(text string, opts Options) []Match {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(opts.Query)

	if len(lowerText) == len(text) && len(lowerQuery) == len(opts.Query) {
		return searchLiteral(lowerText, Options{
			Query:     lowerQuery,
			MatchCase: true,
			WholeWord: opts.WholeWord,
		})
	}

	return searchLiteralRunes(text, opts.Query, opts.WholeWord)
}

// searchLiteralRunes matches the needle rune-wise under unicode.ToLower
// folding, keeping byte offsets against the original text.
func searchLiteralRunes(text, query string, wholeWord bool) []Match {
	needle := []rune(query)
	if len(needle) == 0 {
		return nil
	}
	for i, r := range needle {
		needle[i] = unicode.ToLower(r)
	}

	var matches []Match
	for start := 0; start < len(text) && len(matches) < MaxMatches; {
		end, ok := matchRunesAt(text, start, needle)
		_, width := utf8.DecodeRuneInString(text[start:])
		if ok {
			if !wholeWord || isWholeWord(text, start, end) {
				matches = append(matches, Match{Start: start, End: end})
			}
			start = end
		} else {
			start += width
		}
	}
	return matches
}

// matchRunesAt reports whether the folded needle matches text at start and
// returns the byte offset just past the match.
func matchRunesAt(text string, start int, needle []rune) (int, bool) {
	pos := start
	for _, want := range needle {
		r, width := utf8.DecodeRuneInString(text[pos:])
		if width == 0 || unicode.ToLower(r) != want {
			return 0, false
		}
		pos += width
	}
	return pos, true
}

// searchRegex finds successive non-overlapping regex matches. The scan runs
// against the whole text in one call so ^, $, \A, \z, and \b keep their
// positions relative to the buffer; re-matching against a sliced suffix
// would fabricate a buffer edge at every resume position. regexp's global
// scan already advances one rune past a zero-length match, so termination
// holds for patterns like a*.
func searchRegex(text string, opts Options) Result {
	pattern := opts.Query
	if !opts.MatchCase {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Result{Err: err.Error()}
	}

	var matches []Match
	for _, loc := range re.FindAllStringIndex(text, MaxMatches) {
		if opts.WholeWord && !isWholeWord(text, loc[0], loc[1]) {
			continue
		}
		matches = append(matches, Match{Start: loc[0], End: loc[1]})
	}
	return Result{Matches: matches}
}

// isWholeWord reports whether the [start, end) range has non-word neighbors
// on both sides. Buffer edges count as boundaries.
func isWholeWord(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

// isWordByte reports whether b is an ASCII letter, digit, or underscore.
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b == '_'
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
