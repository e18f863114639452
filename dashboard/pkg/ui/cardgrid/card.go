package cardgrid

import (
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/components"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardCard is the rendered handle for one layout card. The grid keeps
// the same *DashboardCard across updates for as long as the card survives.
type DashboardCard struct {
	components.Region

	ID      string
	Title   string
	Icon    string
	OnClick func(*DashboardCard) tea.Cmd

	color   string
	custom  bool
	focused bool
}

// NewDashboardCard builds a handle from a layout card.
func NewDashboardCard(c layout.Card) *DashboardCard {
	card := &DashboardCard{}
	card.apply(c)
	return card
}

// apply copies the card's presentation onto the handle. A set color tints the
// background and shows the custom marker; no color clears both.
func (c *DashboardCard) apply(src layout.Card) {
	c.ID = src.ID
	c.Title = src.Title
	c.Icon = src.Icon
	c.color = src.ColorValue()
	c.custom = c.color != ""
}

// Color is the applied background color, empty for the default style.
func (c *DashboardCard) Color() string {
	return c.color
}

// Custom reports whether the card carries the custom-color marker.
func (c *DashboardCard) Custom() bool {
	return c.custom
}

func (c *DashboardCard) Focused() bool {
	return c.focused
}

func (c *DashboardCard) SetFocused(focused bool) {
	c.focused = focused
}

func (c *DashboardCard) HandleClick(_, _ int) tea.Cmd {
	if c.OnClick != nil {
		return c.OnClick(c)
	}
	return nil
}

func (c *DashboardCard) Render() string {
	style := styles.CardStyle
	if c.focused {
		style = styles.CardFocusedStyle
	}
	if c.custom {
		style = styles.CardColorStyle(style, c.color)
	}

	header := styles.CardIconStyle.Render(Glyph(c.Icon)) + " " + truncate(c.Title, 20)
	if c.custom {
		header += " " + styles.CustomMarkerStyle.Render("●")
	}

	footer := styles.MutedStyle.Render(c.ID)
	if c.custom {
		footer = styles.MutedStyle.Render(c.ID + " · " + c.color)
	}

	rendered := style.Render(header + "\n\n" + footer)
	x, y, _, _ := c.Bounds()
	c.SetBounds(x, y, lipgloss.Width(rendered), lipgloss.Height(rendered))
	return rendered
}

var glyphs = map[string]string{
	"fa-book":               "📚",
	"fa-book-open":          "📖",
	"fa-book-reader":        "📖",
	"fa-bullhorn":           "📣",
	"fa-calendar":           "📅",
	"fa-calendar-alt":       "📅",
	"fa-chalkboard-teacher": "🏫",
	"fa-chart-bar":          "📊",
	"fa-chart-line":         "📈",
	"fa-clipboard-list":     "📋",
	"fa-cube":               "■",
	"fa-download":           "⬇",
	"fa-graduation-cap":     "🎓",
	"fa-handshake":          "🤝",
	"fa-microscope":         "🔬",
	"fa-newspaper":          "📰",
	"fa-server":             "🖥",
	"fa-tasks":              "📝",
	"fa-tools":              "🔧",
	"fa-users":              "👥",
}

// Glyph maps a Font Awesome class list such as "fas fa-book" to something a
// terminal can draw.
func Glyph(icon string) string {
	for _, class := range strings.Fields(icon) {
		if g, ok := glyphs[class]; ok {
			return g
		}
	}
	return "■"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
