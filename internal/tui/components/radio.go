package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jakoblorz/go-debugargs/internal/tui"
)

// RadioOption represents a single radio option
type RadioOption struct {
	Value       string
	Label       string
	Description string
}

// RadioModel picks exactly one option, starting on the current one.
type RadioModel struct {
	title    string
	options  []RadioOption
	cursor   int
	current  int
	selected int
	done     bool
}

// NewRadio creates a radio list with the cursor on the option whose value is
// current.
func NewRadio(title string, options []RadioOption, current string) RadioModel {
	m := RadioModel{
		title:    title,
		options:  options,
		current:  -1,
		selected: -1,
	}
	for i, option := range options {
		if option.Value == current {
			m.current = i
			m.cursor = i
		}
	}
	return m
}

// Init initializes the component
func (m RadioModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m RadioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.options) == 0 {
				m.done = true
				return m, tea.Quit
			}
			m.selected = m.cursor
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the component
func (m RadioModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(tui.TitleStyle.Render(m.title) + "\n")
	}

	for i, option := range m.options {
		cursor := " "
		if m.cursor == i {
			cursor = tui.SelectedStyle.Render("›")
		}

		radio := tui.UncheckedStyle.Render("( )")
		if m.current == i {
			radio = tui.CheckedStyle.Render("(•)")
		}

		labelStyle := lipgloss.NewStyle()
		if m.cursor == i {
			labelStyle = tui.SelectedStyle
		}

		label := labelStyle.Render(option.Label)
		if option.Description != "" {
			label += "  " + tui.DescStyle.Render(option.Description)
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, radio, label))
	}

	b.WriteString(tui.HelpStyle.Render("↑↓ move • enter select • esc cancel"))
	return b.String()
}

// GetSelected returns the selected option value
func (m RadioModel) GetSelected() string {
	if m.selected >= 0 && m.selected < len(m.options) {
		return m.options[m.selected].Value
	}
	return ""
}

// IsDone returns whether the user finished selecting
func (m RadioModel) IsDone() bool {
	return m.done
}

// HasSelection returns whether a selection has been made
func (m RadioModel) HasSelection() bool {
	return m.selected >= 0
}
