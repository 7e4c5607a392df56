package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) ComboModel {
	t.Helper()
	for _, key := range keys {
		m, _ = m.Update(key)
	}
	combo, ok := m.(ComboModel)
	require.True(t, ok)
	return combo
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestCombo_TypeAndSubmit(t *testing.T) {
	var changes []string
	m := NewCombo("--port", []string{"-a"}, true).OnChange(func(v string) {
		changes = append(changes, v)
	})

	combo := press(t, m, runes(" 80"), enter)
	require.True(t, combo.IsDone())
	require.True(t, combo.Submitted())
	require.Equal(t, "--port 80", combo.Value())
	require.Equal(t, []string{"--port 80"}, changes)
}

func TestCombo_SelectRecentEntry(t *testing.T) {
	m := NewCombo("draft", []string{"-a", "-b", "-c"}, true)

	combo := press(t, m, down, down)
	require.Equal(t, "-b", combo.Value())

	combo = press(t, combo, up, up)
	require.Equal(t, "draft", combo.Value())

	combo = press(t, combo, down, down, down, down, enter)
	require.True(t, combo.Submitted())
	require.Equal(t, "-c", combo.Value())
}

func TestCombo_Cancel(t *testing.T) {
	combo := press(t, NewCombo("-a", nil, true), runes("x"), esc)
	require.True(t, combo.IsDone())
	require.False(t, combo.Submitted())
	require.Empty(t, combo.View())
}

func TestCombo_DisabledCannotSubmit(t *testing.T) {
	combo := press(t, NewCombo("", []string{"-a"}, false), runes("x"), down, enter)
	require.False(t, combo.IsDone())
	require.False(t, combo.Submitted())
	require.Equal(t, "", combo.Value())

	view := combo.View()
	require.Contains(t, view, "disabled")
	require.Contains(t, view, "-a")
}

func TestCombo_View(t *testing.T) {
	m := NewCombo("--verbose", []string{"--verbose", ""}, true).WithLabel("api", "CommandArguments")

	view := m.View()
	require.Contains(t, view, "Command line arguments")
	require.Contains(t, view, "api · CommandArguments")
	require.Contains(t, view, "--verbose")
	require.Contains(t, view, "(empty)")
	require.Contains(t, view, "enter apply")
	snaps.MatchSnapshot(t, view)
}

func TestCombo_ViewWithoutHistory(t *testing.T) {
	require.Contains(t, NewCombo("", nil, true).View(), "no recent command lines")
}

func TestCombo_ScrollsLongHistory(t *testing.T) {
	items := []string{"-0", "-1", "-2", "-3", "-4", "-5", "-6", "-7", "-8", "-9"}
	m := NewCombo("", items, true)

	var model tea.Model = m
	for i := 0; i < 10; i++ {
		model, _ = model.Update(down)
	}
	combo := model.(ComboModel)
	require.Equal(t, "-9", combo.Value())

	start, end := combo.visibleRange()
	require.Equal(t, 2, start)
	require.Equal(t, 10, end)
}
