package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestRadio_StartsOnCurrent(t *testing.T) {
	options := []RadioOption{
		{Value: "Debug", Label: "Debug"},
		{Value: "Release", Label: "Release"},
		{Value: "Profile", Label: "Profile"},
	}

	var m tea.Model = NewRadio("Configuration", options, "Release")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	radio := m.(RadioModel)
	require.True(t, radio.IsDone())
	require.True(t, radio.HasSelection())
	require.Equal(t, "Profile", radio.GetSelected())
}

func TestRadio_Cancel(t *testing.T) {
	var m tea.Model = NewRadio("Configuration", []RadioOption{{Value: "Debug", Label: "Debug"}}, "")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	radio := m.(RadioModel)
	require.True(t, radio.IsDone())
	require.False(t, radio.HasSelection())
	require.Equal(t, "", radio.GetSelected())
}

func TestRadio_View(t *testing.T) {
	m := NewRadio("Configuration", []RadioOption{
		{Value: "Debug", Label: "Debug", Description: "CommandArguments: -v"},
		{Value: "Release", Label: "Release"},
	}, "Debug")

	view := m.View()
	require.Contains(t, view, "Configuration")
	require.Contains(t, view, "(•)")
	require.Contains(t, view, "CommandArguments: -v")
}

func TestConfirm(t *testing.T) {
	var m tea.Model = NewConfirm("Clear recent command lines?")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.(ConfirmModel).IsConfirmed(), "defaults to no")

	m = NewConfirm("Clear recent command lines?")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.(ConfirmModel).IsConfirmed())

	m = NewConfirm("Clear recent command lines?")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.True(t, m.(ConfirmModel).IsConfirmed())
	require.True(t, m.(ConfirmModel).IsDone())
}
