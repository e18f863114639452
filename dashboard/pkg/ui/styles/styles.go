package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	ButtonFocusedStyle = ButtonStyle.
				Background(lipgloss.Color("205"))

	ButtonDimmedStyle = ButtonStyle.
				Background(lipgloss.Color("238")).
				Foreground(lipgloss.Color("245"))

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	KeyDimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	ListItemSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("205"))

	// Dashboard cards.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(26).
			Height(3)

	CardFocusedStyle = CardStyle.
				BorderForeground(lipgloss.Color("205"))

	CardIconStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	CustomMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")).
				Bold(true)

	// Chat panel.
	ChatHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	ChatPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	UserMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230"))

	BotMessageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	ThinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3).
			Align(lipgloss.Center)
)

// CardColorStyle tints a card's background with a user-chosen color. Names
// and hex values are passed through to lipgloss unchanged.
func CardColorStyle(base lipgloss.Style, color string) lipgloss.Style {
	return base.Background(lipgloss.Color(colorCode(color)))
}

var namedColors = map[string]string{
	"red":    "#b03a2e",
	"green":  "#1e8449",
	"blue":   "#2e86c1",
	"yellow": "#b7950b",
	"orange": "#ca6f1e",
	"purple": "#7d3c98",
	"pink":   "#c2185b",
	"gray":   "#566573",
	"grey":   "#566573",
	"black":  "#17202a",
	"white":  "#d5d8dc",
}

func colorCode(color string) string {
	if code, ok := namedColors[strings.ToLower(strings.TrimSpace(color))]; ok {
		return code
	}
	return color
}
