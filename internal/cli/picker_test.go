package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m fieldListModel, keys ...string) fieldListModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(fieldListModel)
	}
	return m
}

func testFields() []fieldInfo {
	return []fieldInfo{
		{Name: "KIND", Problem: "duplicate values"},
		{Name: "NAME", Features: 3},
		{Name: "PID", Features: 3},
	}
}

func TestFieldListSelect(t *testing.T) {
	m := press(newFieldListModel("parcels", testFields()), "down", "down", "up", "enter")
	if m.Selected == nil || m.Selected.Name != "NAME" {
		t.Fatalf("Selected = %+v, want NAME", m.Selected)
	}
}

func TestFieldListSkipsUnusable(t *testing.T) {
	m := press(newFieldListModel("parcels", testFields()), "enter")
	if m.Selected != nil {
		t.Errorf("unusable field was selected: %+v", m.Selected)
	}
}

func TestFieldListBounds(t *testing.T) {
	m := press(newFieldListModel("parcels", testFields()), "up", "k", "down", "j", "down", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
}

func TestFieldListScrolls(t *testing.T) {
	var fields []fieldInfo
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		fields = append(fields, fieldInfo{Name: n})
	}
	m := newFieldListModel("parcels", fields)
	m.Height = 3
	m = press(m, "down", "down", "down", "down")
	if m.Cursor != 4 || m.Offset != 2 {
		t.Errorf("Cursor/Offset = %d/%d, want 4/2", m.Cursor, m.Offset)
	}
	view := m.View()
	if strings.Contains(view, "  A") || !strings.Contains(view, "[5/7]") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestFieldListView(t *testing.T) {
	view := newFieldListModel("parcels", testFields()).View()
	for _, want := range []string{"parcels", "KIND", "duplicate values", "PID"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}
