package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jakoblorz/go-debugargs/internal/tui"
)

// maxVisibleItems limits how many recent entries the dropdown shows at once.
const maxVisibleItems = 8

// ComboModel is an editable text field with a dropdown of recent values.
type ComboModel struct {
	input    textinput.Model
	items    []string
	cursor   int
	draft    string
	enabled  bool
	project  string
	property string

	onChange  func(string)
	submitted bool
	done      bool
}

// NewCombo creates a combo showing value with items as its dropdown. A
// disabled combo shows the dropdown but cannot be edited or submitted.
func NewCombo(value string, items []string, enabled bool) ComboModel {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = "command line arguments"
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(value)
	ti.CursorEnd()
	if enabled {
		ti.Focus()
	}

	return ComboModel{
		input:   ti,
		items:   append([]string(nil), items...),
		cursor:  -1,
		draft:   value,
		enabled: enabled,
	}
}

// WithLabel sets the project and property names shown above the field.
func (m ComboModel) WithLabel(project, property string) ComboModel {
	m.project = project
	m.property = property
	return m
}

// OnChange registers fn to be called whenever the edited text changes.
func (m ComboModel) OnChange(fn func(string)) ComboModel {
	m.onChange = fn
	return m
}

// Init initializes the component
func (m ComboModel) Init() tea.Cmd {
	if m.enabled {
		return textinput.Blink
	}
	return nil
}

// Update handles messages
func (m ComboModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.done = true
			m.submitted = false
			return m, tea.Quit
		case "enter":
			if !m.enabled {
				return m, nil
			}
			m.done = true
			m.submitted = true
			return m, tea.Quit
		case "down", "ctrl+n":
			m.moveCursor(1)
			return m, nil
		case "up", "ctrl+p":
			m.moveCursor(-1)
			return m, nil
		}
	}

	if !m.enabled {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.cursor = -1
		m.draft = after
		if m.onChange != nil {
			m.onChange(after)
		}
	}
	return m, cmd
}

// moveCursor walks the dropdown. Moving above the first entry returns to
// the text typed before entering the dropdown.
func (m *ComboModel) moveCursor(delta int) {
	if len(m.items) == 0 {
		return
	}

	next := m.cursor + delta
	if next < -1 {
		next = -1
	}
	if next > len(m.items)-1 {
		next = len(m.items) - 1
	}
	m.cursor = next

	if !m.enabled {
		return
	}
	if m.cursor == -1 {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.items[m.cursor])
	}
	m.input.CursorEnd()
}

// View renders the component
func (m ComboModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Command line arguments"))
	if m.project != "" {
		label := m.project
		if m.property != "" {
			label += " · " + m.property
		}
		b.WriteString("  " + tui.DescStyle.Render(label))
	}
	b.WriteString("\n")

	if m.enabled {
		b.WriteString(tui.BorderStyle.Render(m.input.View()))
	} else {
		b.WriteString(tui.DisabledStyle.Render("disabled: no startup project, or it has no arguments property"))
	}
	b.WriteString("\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		cursor := " "
		label := m.items[i]
		if label == "" {
			label = tui.SubtleStyle.Render("(empty)")
		}
		if m.cursor == i {
			cursor = tui.SelectedStyle.Render("›")
			label = tui.SelectedStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, label))
	}
	if len(m.items) == 0 {
		b.WriteString(tui.SubtleStyle.Render("  no recent command lines") + "\n")
	}

	help := "↑↓ recent • enter apply • esc cancel"
	if !m.enabled {
		help = "esc close"
	}
	b.WriteString(tui.HelpStyle.Render(help))

	return b.String()
}

func (m ComboModel) visibleRange() (int, int) {
	if len(m.items) <= maxVisibleItems {
		return 0, len(m.items)
	}
	start := 0
	if m.cursor >= maxVisibleItems {
		start = m.cursor - maxVisibleItems + 1
	}
	return start, start + maxVisibleItems
}

// Value returns the text currently in the field.
func (m ComboModel) Value() string {
	return m.input.Value()
}

// Submitted reports whether the user applied the value.
func (m ComboModel) Submitted() bool {
	return m.submitted
}

// IsDone returns whether the user finished editing
func (m ComboModel) IsDone() bool {
	return m.done
}
