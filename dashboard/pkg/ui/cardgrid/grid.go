// Package cardgrid renders a layout as a grid of cards with keyboard focus
// and mouse hit testing. Updates are applied through the reconciler so card
// handles survive re-layouts.
package cardgrid

import (
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/reconcile"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/components"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/ui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Grid struct {
	Cards      []*DashboardCard
	Cols       int
	FocusIndex int
	Dispatcher *components.ClickDispatcher

	// OnSelect runs when a card is clicked or enter is pressed on it.
	OnSelect func(*DashboardCard) tea.Cmd

	originX, originY int
	width, height    int
	hideFocus        bool
}

func New(cols int) *Grid {
	if cols < 1 {
		cols = 1
	}
	return &Grid{Cols: cols, Dispatcher: components.NewClickDispatcher()}
}

func keyOf(c *DashboardCard) reconcile.Key {
	return reconcile.Key{ID: c.ID, Title: c.Title}
}

// Apply brings the grid in line with l. Surviving cards keep their handle and
// get their color re-applied; focus stays on the same card when it survives.
func (g *Grid) Apply(l layout.Layout) reconcile.Plan[*DashboardCard] {
	focused := g.Focused()
	plan := reconcile.Reconcile(g.Cards, keyOf, l)

	cards := make([]*DashboardCard, 0, len(plan))
	for _, op := range plan {
		switch op := op.(type) {
		case reconcile.Reuse[*DashboardCard]:
			op.Handle.apply(op.Card)
			cards = append(cards, op.Handle)
		case reconcile.Create[*DashboardCard]:
			card := NewDashboardCard(op.Card)
			cards = append(cards, card)
		case reconcile.Discard[*DashboardCard]:
			op.Handle.SetFocused(false)
		}
	}
	for _, c := range cards {
		c.OnClick = g.selectCard
		c.SetFocused(false)
	}
	g.Cards = cards

	g.FocusIndex = 0
	for i, c := range cards {
		if c == focused {
			g.FocusIndex = i
		}
	}
	if len(cards) > 0 {
		cards[g.FocusIndex].SetFocused(!g.hideFocus)
	}
	g.updateDispatcher()
	return plan
}

func (g *Grid) selectCard(c *DashboardCard) tea.Cmd {
	for i, card := range g.Cards {
		if card == c {
			g.focus(i)
		}
	}
	if g.OnSelect != nil {
		return g.OnSelect(c)
	}
	return nil
}

func (g *Grid) updateDispatcher() {
	clickables := make([]components.Clickable, len(g.Cards))
	for i, c := range g.Cards {
		clickables[i] = c
	}
	g.Dispatcher.Set(clickables...)
}

// Focused returns the focused card, or nil when the grid is empty.
func (g *Grid) Focused() *DashboardCard {
	if g.FocusIndex < 0 || g.FocusIndex >= len(g.Cards) {
		return nil
	}
	return g.Cards[g.FocusIndex]
}

// SetOrigin tells the grid where its top-left corner lands on screen so
// mouse coordinates can be matched against card bounds.
func (g *Grid) SetOrigin(x, y int) {
	g.originX, g.originY = x, y
}

func (g *Grid) SetSize(width, height int) {
	g.width, g.height = width, height
}

// columns narrows the configured column count to what fits the width.
func (g *Grid) columns() int {
	cols := g.Cols
	if g.width > 0 {
		cardWidth := styles.CardStyle.GetWidth() + styles.CardStyle.GetHorizontalBorderSize()
		if fit := g.width / cardWidth; fit < cols {
			cols = fit
		}
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (g *Grid) Init() tea.Cmd {
	return nil
}

func (g *Grid) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cols := g.columns()
		switch msg.String() {
		case "right", "l":
			g.MoveFocus(1)
		case "left", "h":
			g.MoveFocus(-1)
		case "down", "j":
			g.MoveFocus(cols)
		case "up", "k":
			g.MoveFocus(-cols)
		case "enter":
			if c := g.Focused(); c != nil {
				return g, c.HandleClick(0, 0)
			}
		}
	case tea.MouseMsg:
		return g, g.Dispatcher.HandleMouse(msg)
	}
	return g, nil
}

// MoveFocus shifts focus by delta cards; moves off the grid are ignored.
func (g *Grid) MoveFocus(delta int) {
	if len(g.Cards) == 0 {
		return
	}
	g.focus(g.FocusIndex + delta)
}

func (g *Grid) focus(idx int) {
	if idx < 0 || idx >= len(g.Cards) {
		return
	}
	if c := g.Focused(); c != nil {
		c.SetFocused(false)
	}
	g.FocusIndex = idx
	g.Cards[idx].SetFocused(!g.hideFocus)
}

// SetFocusVisible controls whether the focused card is highlighted, e.g. while
// the keyboard belongs to another panel. The focus position is kept.
func (g *Grid) SetFocusVisible(visible bool) {
	g.hideFocus = !visible
	if c := g.Focused(); c != nil {
		c.SetFocused(visible)
	}
}

// View lays the cards out row by row and records each card's screen bounds.
func (g *Grid) View() string {
	if len(g.Cards) == 0 {
		return styles.MutedStyle.Render("This dashboard has no cards. Try \"add [card name]\" in the chat.")
	}

	cols := g.columns()
	var rows []string
	var row []string
	x, y, rowHeight := 0, 0, 0

	for i, card := range g.Cards {
		rendered := card.Render()
		w, h := lipgloss.Width(rendered), lipgloss.Height(rendered)
		card.SetBounds(g.originX+x, g.originY+y, w, h)

		row = append(row, rendered)
		x += w
		if h > rowHeight {
			rowHeight = h
		}

		if (i+1)%cols == 0 || i == len(g.Cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			x = 0
			y += rowHeight
			rowHeight = 0
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
