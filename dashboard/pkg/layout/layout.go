package layout

import (
	"fmt"
	"regexp"
	"strings"
)

// Profile is one of the fixed dashboard personas.
type Profile string

const (
	ProfileStudent  Profile = "student"
	ProfileTeacher  Profile = "teacher"
	ProfileATS      Profile = "ats"
	ProfileDoctoral Profile = "doctoral"
)

// DefaultIcon is used for cards created without an explicit icon.
const DefaultIcon = "fas fa-cube"

// Profiles returns every known profile in display order.
func Profiles() []Profile {
	return []Profile{ProfileStudent, ProfileTeacher, ProfileATS, ProfileDoctoral}
}

// ParseProfile validates a profile name (case-insensitive).
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Profiles() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown profile %q (want one of student, teacher, ats, doctoral)", s)
}

// Card is a single dashboard tile.
type Card struct {
	ID      string  `json:"id" yaml:"id"`
	Title   string  `json:"title" yaml:"title"`
	Icon    string  `json:"icon" yaml:"icon"`
	Color   *string `json:"color" yaml:"color"` // nil means default styling
	Visible bool    `json:"visible" yaml:"visible"`
}

// ColorValue returns the card color or "" when unset.
func (c Card) ColorValue() string {
	if c.Color == nil {
		return ""
	}
	return *c.Color
}

// Layout is the ordered card list for one profile plus its deletion history.
type Layout struct {
	Cards        []Card `json:"cards" yaml:"cards"`
	DeletedCards []Card `json:"deletedCards" yaml:"deletedCards"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug derives a card id from its title: lowercase, whitespace runs become "-".
func Slug(title string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(title), "-")
}

// NewCard builds a visible, uncolored card with a slugged id.
func NewCard(title, icon string) Card {
	if icon == "" {
		icon = DefaultIcon
	}
	return Card{
		ID:      Slug(title),
		Title:   title,
		Icon:    icon,
		Visible: true,
	}
}

// Find returns the index of the first card whose title matches
// case-insensitively, or -1.
func (l *Layout) Find(title string) int {
	for i, c := range l.Cards {
		if strings.EqualFold(c.Title, title) {
			return i
		}
	}
	return -1
}

// Add appends a card at the end of the display order.
func (l *Layout) Add(card Card) {
	l.Cards = append(l.Cards, card)
}

// Remove takes the first matching card out of Cards and appends it to
// DeletedCards. The remaining cards keep their relative order.
func (l *Layout) Remove(title string) (Card, bool) {
	idx := l.Find(title)
	if idx < 0 {
		return Card{}, false
	}
	removed := l.Cards[idx]
	l.Cards = append(l.Cards[:idx:idx], l.Cards[idx+1:]...)
	l.DeletedCards = append(l.DeletedCards, removed)
	return removed, true
}

// Swap exchanges the positions of two cards. Nothing changes unless both exist.
func (l *Layout) Swap(a, b string) bool {
	i, j := l.Find(a), l.Find(b)
	if i < 0 || j < 0 {
		return false
	}
	l.Cards[i], l.Cards[j] = l.Cards[j], l.Cards[i]
	return true
}

// Recolor sets the color of the first matching card. An empty color resets
// the card to default styling.
func (l *Layout) Recolor(title, color string) bool {
	idx := l.Find(title)
	if idx < 0 {
		return false
	}
	if color == "" {
		l.Cards[idx].Color = nil
	} else {
		c := color
		l.Cards[idx].Color = &c
	}
	return true
}

// Reset restores the profile defaults and clears the deletion history.
func (l *Layout) Reset(p Profile) {
	l.Cards = DefaultCards(p)
	l.DeletedCards = []Card{}
}

// VisibleCards returns the cards that should be displayed, in order.
func (l Layout) VisibleCards() []Card {
	visible := make([]Card, 0, len(l.Cards))
	for _, c := range l.Cards {
		if c.Visible {
			visible = append(visible, c)
		}
	}
	return visible
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (l Layout) Clone() Layout {
	return Layout{
		Cards:        cloneCards(l.Cards),
		DeletedCards: cloneCards(l.DeletedCards),
	}
}

// Normalize replaces nil slices with empty ones so the layout always
// serializes as {"cards": [], "deletedCards": []}.
func (l *Layout) Normalize() {
	if l.Cards == nil {
		l.Cards = []Card{}
	}
	if l.DeletedCards == nil {
		l.DeletedCards = []Card{}
	}
}

func cloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		if c.Color != nil {
			color := *c.Color
			c.Color = &color
		}
		out[i] = c
	}
	return out
}
