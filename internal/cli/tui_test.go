package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/ievis/pkg/store"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ModelListModel, keys ...string) (ModelListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ModelListModel)
	}
	return m, cmd
}

func summaries(n int) []store.ModelSummary {
	out := make([]store.ModelSummary, n)
	for i := range out {
		out[i] = store.ModelSummary{ID: string(rune('a' + i)), Name: "model " + string(rune('A'+i)), Elements: i}
	}
	return out
}

func TestModelListNavigation(t *testing.T) {
	m := NewModelListModel(summaries(3))

	m, _ = press(m, "down", "j", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m, _ = press(m, "up", "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped)", m.Cursor)
	}

	m, cmd := press(m, "j", "enter")
	if m.Selected == nil || m.Selected.ID != "b" {
		t.Fatalf("selected = %+v, want b", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the picker")
	}
}

func TestModelListQuit(t *testing.T) {
	m, cmd := press(NewModelListModel(summaries(2)), "q")
	if m.Selected != nil {
		t.Error("quitting should not select")
	}
	if cmd == nil {
		t.Error("q should quit the picker")
	}
}

func TestModelListScroll(t *testing.T) {
	m := NewModelListModel(summaries(10))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	m = next.(ModelListModel)
	if m.Height != 5 {
		t.Fatalf("height = %d, want minimum 5", m.Height)
	}
	for range 7 {
		m, _ = press(m, "down")
	}
	if m.Offset != 3 {
		t.Errorf("offset = %d, want 3", m.Offset)
	}
	view := m.View()
	if !strings.Contains(view, "model H") || strings.Contains(view, "model A") {
		t.Errorf("view should show the scrolled window:\n%s", view)
	}
	if !strings.Contains(view, "[8/10]") {
		t.Errorf("view should show the position:\n%s", view)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
		{now.Add(-30 * 24 * time.Hour), "10/04/2024 12:00:00"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.at.UnixNano(), now); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
	if got := formatRelativeTime(0, now); got != "—" {
		t.Errorf("zero timestamp = %q, want dash", got)
	}
}
