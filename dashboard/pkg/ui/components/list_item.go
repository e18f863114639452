package components

import (
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ListItem is one selectable row: an icon, a label and a muted detail line.
type ListItem struct {
	Region

	Icon     string
	Label    string
	Detail   string
	OnSelect func() tea.Cmd

	selected bool
}

func NewListItem(icon, label, detail string, onSelect func() tea.Cmd) *ListItem {
	return &ListItem{Icon: icon, Label: label, Detail: detail, OnSelect: onSelect}
}

func (l *ListItem) SetSelected(selected bool) {
	l.selected = selected
}

func (l *ListItem) Selected() bool {
	return l.selected
}

func (l *ListItem) HandleClick(_, _ int) tea.Cmd {
	if l.OnSelect != nil {
		return l.OnSelect()
	}
	return nil
}

func (l *ListItem) Render() string {
	style := styles.ListItemStyle
	cursor := "  "
	if l.selected {
		style = styles.ListItemSelectedStyle
		cursor = "▸ "
	}

	line := cursor + l.Label
	if l.Icon != "" {
		line = cursor + l.Icon + "  " + l.Label
	}
	content := line
	if l.Detail != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, line, styles.MutedStyle.Render("     "+l.Detail))
	}

	rendered := style.Render(content)
	l.measure(lipgloss.Width(rendered), lipgloss.Height(rendered))
	return rendered
}
