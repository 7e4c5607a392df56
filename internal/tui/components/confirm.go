package components

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jakoblorz/go-debugargs/internal/tui"
)

// ConfirmModel asks a yes/no question. The cursor starts on "No".
type ConfirmModel struct {
	message   string
	cursor    int
	confirmed bool
	done      bool
}

// NewConfirm creates a new confirmation component
func NewConfirm(message string) ConfirmModel {
	return ConfirmModel{
		message: message,
		cursor:  1,
	}
}

// Init initializes the component
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		m.cursor = 0
	case "right", "l":
		m.cursor = 1
	case "tab":
		m.cursor = 1 - m.cursor
	case "enter", " ":
		m.confirmed = m.cursor == 0
		m.done = true
		return m, tea.Quit
	case "y", "Y":
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "ctrl+c", "esc":
		m.confirmed = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the component
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	options := [2]string{"Yes", "No"}
	for i := range options {
		if m.cursor == i {
			options[i] = tui.SelectedStyle.Render("> " + options[i])
		} else {
			options[i] = "  " + options[i]
		}
	}

	return fmt.Sprintf("%s\n\n%s  %s\n%s",
		tui.ErrorStyle.Render(m.message),
		options[0], options[1],
		tui.HelpStyle.Render("←→ navigate • enter confirm • y/n quick select"))
}

// IsConfirmed returns whether the user confirmed
func (m ConfirmModel) IsConfirmed() bool {
	return m.confirmed
}

// IsDone returns whether the user finished
func (m ConfirmModel) IsDone() bool {
	return m.done
}
