package app

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/calebmartin/findview/internal/renderer/backend"
)

func typeString(f *FindBar, s string) {
	for _, r := range s {
		f.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, 0))
	}
}

func TestFindBarTypingDrivesSearch(t *testing.T) {
	s := NewSession("cat concat")
	f := NewFindBar(s)
	f.Open()

	typeString(f, "cat")
	if got := s.Options().Query; got != "cat" {
		t.Fatalf("query = %q, want \"cat\"", got)
	}
	if got := s.MatchCount(); got != 2 {
		t.Errorf("MatchCount() = %d, want 2", got)
	}

	f.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, 0))
	if got := s.Options().Query; got != "ca" {
		t.Errorf("query after backspace = %q, want \"ca\"", got)
	}
}

func TestFindBarCursorEditing(t *testing.T) {
	s := NewSession("")
	f := NewFindBar(s)
	f.Open()

	typeString(f, "act")
	f.HandleKey(tcell.NewEventKey(tcell.KeyHome, 0, 0))
	f.HandleKey(tcell.NewEventKey(tcell.KeyRight, 0, 0))
	f.HandleKey(tcell.NewEventKey(tcell.KeyDelete, 0, 0))
	if got := f.Query(); got != "at" {
		t.Errorf("query = %q, want \"at\"", got)
	}

	f.HandleKey(tcell.NewEventKey(tcell.KeyCtrlU, 0, 0))
	if got := f.Query(); got != "" {
		t.Errorf("query after kill = %q, want empty", got)
	}
}

func TestFindBarToggles(t *testing.T) {
	s := NewSession("Cat cat")
	f := NewFindBar(s)
	f.Open()
	typeString(f, "cat")

	if got := s.MatchCount(); got != 2 {
		t.Fatalf("MatchCount() = %d, want 2", got)
	}
	f.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModAlt))
	if !s.Options().MatchCase {
		t.Fatal("Alt+C did not enable match case")
	}
	if got := s.MatchCount(); got != 1 {
		t.Errorf("case-sensitive MatchCount() = %d, want 1", got)
	}

	f.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModAlt))
	f.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModAlt))
	opts := s.Options()
	if !opts.WholeWord || !opts.Regex {
		t.Errorf("toggles = %+v, want whole word and regex on", opts)
	}
}

func TestFindBarCloseClearsSearch(t *testing.T) {
	s := NewSession("cat")
	f := NewFindBar(s)
	f.Open()
	typeString(f, "cat")

	f.Close()
	if f.Visible() || f.Focused() {
		t.Error("Close() left the bar visible or focused")
	}
	if got := s.MatchCount(); got != 0 {
		t.Errorf("MatchCount() after close = %d, want 0", got)
	}

	// Reopening restores the previous query.
	f.Open()
	if got := s.Options().Query; got != "cat" {
		t.Errorf("query after reopen = %q, want \"cat\"", got)
	}
}

func TestFindBarRender(t *testing.T) {
	s := NewSession("cat cat")
	f := NewFindBar(s)
	f.Open()
	typeString(f, "cat")

	sb := backend.NewScreenBuffer(60, 1)
	f.Render(sb, 0, 60)
	row := sb.RowString(0)

	if !strings.HasPrefix(row, "Find: cat") {
		t.Errorf("row = %q, want \"Find: cat\" prefix", row)
	}
	for _, want := range []string{"1/2", "[Aa]", "[W]", "[.*]"} {
		if !strings.Contains(row, want) {
			t.Errorf("row = %q, missing %q", row, want)
		}
	}
}

func TestFindBarRenderPatternError(t *testing.T) {
	s := NewSession("abc")
	f := NewFindBar(s)
	f.Open()
	f.HandleKey(tcell.NewEventKey(tcell.KeyRune, '(', 0))
	opts := s.Options()
	opts.Regex = true
	s.SetOptions(opts)

	sb := backend.NewScreenBuffer(80, 1)
	f.Render(sb, 0, 80)
	if row := sb.RowString(0); !strings.Contains(row, "error parsing regexp") {
		t.Errorf("row = %q, want the pattern error surfaced", row)
	}
}

func TestFindBarNoResults(t *testing.T) {
	s := NewSession("abc")
	f := NewFindBar(s)
	f.Open()
	typeString(f, "zzz")

	sb := backend.NewScreenBuffer(60, 1)
	f.Render(sb, 0, 60)
	if row := sb.RowString(0); !strings.Contains(row, "No results") {
		t.Errorf("row = %q, want \"No results\"", row)
	}
}

func TestFindBarCursorX(t *testing.T) {
	s := NewSession("")
	f := NewFindBar(s)
	f.Open()
	typeString(f, "a€")

	if got := f.CursorX(); got != len(findPrompt)+2 {
		t.Errorf("CursorX() = %d, want %d", got, len(findPrompt)+2)
	}
}
