package components

import (
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Button is a clickable action with an optional keyboard shortcut shown in
// front of its label, e.g. "esc Back".
type Button struct {
	Region

	Shortcut string
	Label    string
	OnClick  func() tea.Cmd
	Dimmed   bool

	focused bool
}

func NewButton(shortcut, label string, onClick func() tea.Cmd) *Button {
	return &Button{Shortcut: shortcut, Label: label, OnClick: onClick}
}

func (b *Button) SetFocused(focused bool) {
	b.focused = focused
}

func (b *Button) HandleClick(_, _ int) tea.Cmd {
	if b.Dimmed || b.OnClick == nil {
		return nil
	}
	return b.OnClick()
}

// Render draws the button and records its size for hit testing.
func (b *Button) Render() string {
	style, keyStyle := styles.ButtonStyle, styles.KeyStyle
	switch {
	case b.Dimmed:
		style, keyStyle = styles.ButtonDimmedStyle, styles.KeyDimmedStyle
	case b.focused:
		style = styles.ButtonFocusedStyle
	}

	content := b.Label
	if b.Shortcut != "" {
		content = keyStyle.Render(b.Shortcut) + " " + b.Label
	}

	rendered := style.Render(content)
	b.measure(lipgloss.Width(rendered), lipgloss.Height(rendered))
	return rendered
}
