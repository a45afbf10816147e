package find

import (
	"strings"
	"testing"
)

func TestEmptyQuery(t *testing.T) {
	res := Search("some text", Options{})
	if len(res.Matches) != 0 || res.Err != "" {
		t.Errorf("empty query: got %+v, want no matches and no error", res)
	}
}

func TestLiteralCaseSensitive(t *testing.T) {
	res := Search("cat Cat CAT", Options{Query: "Cat", MatchCase: true})
	if len(res.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(res.Matches))
	}
	if res.Matches[0] != (Match{Start: 4, End: 7}) {
		t.Errorf("match = %+v, want {4 7}", res.Matches[0])
	}
}

func TestLiteralCaseInsensitive(t *testing.T) {
	res := Search("cat Cat CAT", Options{Query: "Cat"})
	if len(res.Matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(res.Matches))
	}
	want := []Match{{0, 3}, {4, 7}, {8, 11}}
	for i, m := range res.Matches {
		if m != want[i] {
			t.Errorf("match[%d] = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestWholeWord(t *testing.T) {
	res := Search("concatenate cat catalog", Options{Query: "cat", WholeWord: true})
	if len(res.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(res.Matches))
	}
	if res.Matches[0] != (Match{Start: 12, End: 15}) {
		t.Errorf("match = %+v, want {12 15}", res.Matches[0])
	}
}

func TestWholeWordAtBufferEdges(t *testing.T) {
	res := Search("cat", Options{Query: "cat", WholeWord: true})
	if len(res.Matches) != 1 {
		t.Errorf("buffer edges should count as word boundaries, got %d matches", len(res.Matches))
	}
}

func TestLiteralOverlapping(t *testing.T) {
	// Non-overlapping scan: "aa" in "aaaa" finds two occurrences, not three.
	res := Search("aaaa", Options{Query: "aa", MatchCase: true})
	if len(res.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(res.Matches))
	}
	if res.Matches[0] != (Match{0, 2}) || res.Matches[1] != (Match{2, 4}) {
		t.Errorf("matches = %+v, want [{0 2} {2 4}]", res.Matches)
	}
}

func TestLiteralFoldedUnevenLengths(t *testing.T) {
	// Folding 'İ' (2 bytes) yields 'i' (1 byte), so offsets in the folded
	// copy would be wrong; this must go through the rune-wise scan.
	text := "İstanbul istanbul"
	res := Search(text, Options{Query: "istanbul"})
	if len(res.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(res.Matches))
	}
	if got := text[res.Matches[0].Start:res.Matches[0].End]; got != "İstanbul" {
		t.Errorf("first match text = %q, want %q", got, "İstanbul")
	}
	if got := text[res.Matches[1].Start:res.Matches[1].End]; got != "istanbul" {
		t.Errorf("second match text = %q, want %q", got, "istanbul")
	}
}

func TestRegexBasic(t *testing.T) {
	res := Search("foo1 foo2 bar", Options{Query: `foo\d`, Regex: true, MatchCase: true})
	if res.Err != "" {
		t.Fatalf("unexpected error: %s", res.Err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(res.Matches))
	}
}

func TestRegexCaseInsensitive(t *testing.T) {
	res := Search("Cat cat", Options{Query: "cat", Regex: true})
	if len(res.Matches) != 2 {
		t.Errorf("got %d matches, want 2", len(res.Matches))
	}
}

func TestRegexInvalidPattern(t *testing.T) {
	res := Search("anything", Options{Query: "(", Regex: true})
	if res.Err == "" {
		t.Error("invalid pattern should set Err")
	}
	if len(res.Matches) != 0 {
		t.Errorf("invalid pattern should yield no matches, got %d", len(res.Matches))
	}
}

func TestRegexZeroLengthTerminates(t *testing.T) {
	res := Search("bbb", Options{Query: "a*", Regex: true})
	if res.Err != "" {
		t.Fatalf("unexpected error: %s", res.Err)
	}
	// Zero-length matches at offsets 0..3, cursor advancing each time.
	if len(res.Matches) != 4 {
		t.Fatalf("got %d matches, want 4", len(res.Matches))
	}
	for i, m := range res.Matches {
		if m.Start != i || m.End != i {
			t.Errorf("match[%d] = %+v, want zero-length at %d", i, m, i)
		}
	}
}

func TestRegexWholeWord(t *testing.T) {
	res := Search("concatenate cat catalog", Options{Query: "cat", Regex: true, WholeWord: true})
	if len(res.Matches) != 1 {
		t.Errorf("got %d matches, want 1", len(res.Matches))
	}
}

func TestMatchCutoff(t *testing.T) {
	text := strings.Repeat("x ", MaxMatches+100)
	res := Search(text, Options{Query: "x", MatchCase: true})
	if len(res.Matches) != MaxMatches {
		t.Errorf("got %d matches, want cutoff at %d", len(res.Matches), MaxMatches)
	}
	if res.Err != "" {
		t.Error("cutoff must not be reported as an error")
	}
}

func TestOrderedAndDisjoint(t *testing.T) {
	texts := []string{
		"the quick brown fox jumps over the lazy dog the end",
		strings.Repeat("abcabcabc", 50),
		"aaa AAA aAa\nAAa aaA",
	}
	queries := []Options{
		{Query: "the", MatchCase: true},
		{Query: "abc"},
		{Query: "aa"},
		{Query: "a+", Regex: true},
		{Query: "[abc]*", Regex: true},
	}

	for _, text := range texts {
		for _, opts := range queries {
			res := Search(text, opts)
			if res.Err != "" {
				t.Fatalf("Search(%q, %+v): %s", text, opts, res.Err)
			}
			for i := 1; i < len(res.Matches); i++ {
				prev, cur := res.Matches[i-1], res.Matches[i]
				if cur.Start < prev.End {
					t.Errorf("Search(%q, %+v): matches %d/%d overlap or unordered: %+v %+v",
						text, opts, i-1, i, prev, cur)
				}
			}
		}
	}
}

func TestRegexAnchorsScanWholeText(t *testing.T) {
	res := Search("aaa", Options{Query: "^a", Regex: true})
	if len(res.Matches) != 1 {
		t.Fatalf("^a in \"aaa\": got %d matches %v, want 1", len(res.Matches), res.Matches)
	}
	if res.Matches[0] != (Match{Start: 0, End: 1}) {
		t.Errorf("match = %+v, want {0 1}", res.Matches[0])
	}

	res = Search("aaa", Options{Query: "a$", Regex: true})
	if len(res.Matches) != 1 || res.Matches[0] != (Match{Start: 2, End: 3}) {
		t.Errorf("a$ in \"aaa\": got %v, want [{2 3}]", res.Matches)
	}
}

func TestRegexWordBoundaryScanWholeText(t *testing.T) {
	res := Search("catcat", Options{Query: `\bcat`, Regex: true})
	if len(res.Matches) != 1 {
		t.Fatalf("\\bcat in \"catcat\": got %d matches %v, want 1", len(res.Matches), res.Matches)
	}
	if res.Matches[0] != (Match{Start: 0, End: 3}) {
		t.Errorf("match = %+v, want {0 3}", res.Matches[0])
	}
}

func TestFoldedWholeWordReachesCutoff(t *testing.T) {
	// Interleave word and non-word occurrences so a scan that caps raw
	// candidates before filtering would fall short of the cutoff.
	text := strings.Repeat("Cat catx ", MaxMatches+1000)
	res := Search(text, Options{Query: "cat", WholeWord: true})
	if len(res.Matches) != MaxMatches {
		t.Fatalf("got %d matches, want %d", len(res.Matches), MaxMatches)
	}
	for i, m := range res.Matches {
		if text[m.End] == 'x' {
			t.Fatalf("match[%d] = %+v is not whole-word", i, m)
		}
	}
}
