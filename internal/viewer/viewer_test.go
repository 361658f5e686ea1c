package viewer

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestSplitPages(t *testing.T) {
	doc := "Overview\n\nbody\n\f\nChallenge 1\n\nplot\n\f\n\f\nChallenge 2\nmore\n"
	pages := SplitPages(doc)
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	titles := []string{"Overview", "Challenge 1", "Challenge 2"}
	for i, want := range titles {
		if pages[i].Title != want {
			t.Fatalf("page %d: expected title %q, got %q", i, want, pages[i].Title)
		}
	}
	if pages[0].Body != "Overview\n\nbody" {
		t.Fatalf("unexpected body %q", pages[0].Body)
	}
}

func TestLoadPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.chart")
	if err := os.WriteFile(path, []byte("Overview\n\f\nChallenge 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	pages, err := LoadPages(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}

	empty := filepath.Join(dir, "empty.chart")
	if err := os.WriteFile(empty, []byte("\n\f\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadPages(empty); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := LoadPages(filepath.Join(dir, "missing.chart")); err == nil {
		t.Fatalf("expected error for missing document")
	}
}

func testPages(n int) []Page {
	pages := []Page{{Title: "Overview", Body: "Overview\n\nsummary"}}
	for i := 1; i < n; i++ {
		title := "Challenge " + strconv.Itoa(i)
		pages = append(pages, Page{Title: title, Body: title + "\n\nplot"})
	}
	return pages
}

func TestMoveTabWraps(t *testing.T) {
	m := NewModel("game.chart", testPages(3))
	m.moveTab(-1)
	if m.activeTab != 2 {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	m.moveTab(1)
	if m.activeTab != 0 {
		t.Fatalf("expected wrap to first tab, got %d", m.activeTab)
	}
}

func TestViewFitsWindow(t *testing.T) {
	m := NewModel("game.chart", testPages(4))
	if m.View() != "" {
		t.Fatalf("expected empty view before sizing")
	}
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 60 {
			t.Fatalf("line %d: expected width 60, got %d", i, w)
		}
	}
	if !strings.Contains(view, "page 2/4") || !strings.Contains(view, "Challenge 1") {
		t.Fatalf("expected second page to be shown:\n%s", view)
	}
}

func TestNarrowWindowShowsActiveTab(t *testing.T) {
	m := NewModel("game.chart", testPages(8))
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	m.moveTab(5)
	first, last := m.visibleTabs(m.width - 4)
	if first > 5 || last < 5 {
		t.Fatalf("active tab outside visible range %d..%d", first, last)
	}
	if first == 0 && last == 7 {
		t.Fatalf("expected tabs to be windowed in a narrow terminal")
	}
	if !strings.Contains(m.View(), "#5") {
		t.Fatalf("expected active tab label in view:\n%s", m.View())
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel("game.chart", testPages(1))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestTabLabel(t *testing.T) {
	if got := tabLabel("Challenge 12"); got != "#12" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := tabLabel("Overview"); got != "Overview" {
		t.Fatalf("unexpected label %q", got)
	}
}
