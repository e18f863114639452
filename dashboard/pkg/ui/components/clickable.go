// Package components holds the small mouse-aware widgets the dashboard
// screens are assembled from.
package components

import tea "github.com/charmbracelet/bubbletea"

// Clickable is implemented by every widget that reacts to the mouse.
type Clickable interface {
	Contains(x, y int) bool
	HandleClick(x, y int) tea.Cmd
	Bounds() (x, y, width, height int)
	SetBounds(x, y, width, height int)
}

// Region is the hit-testing half of Clickable; widgets embed it.
type Region struct {
	x, y          int
	width, height int
}

func (r *Region) Contains(x, y int) bool {
	return x >= r.x && x < r.x+r.width && y >= r.y && y < r.y+r.height
}

func (r *Region) Bounds() (x, y, width, height int) {
	return r.x, r.y, r.width, r.height
}

func (r *Region) SetBounds(x, y, width, height int) {
	r.x, r.y = x, y
	r.width, r.height = width, height
}

// Place moves the region without touching its size, which Render measures.
func (r *Region) Place(x, y int) {
	r.x, r.y = x, y
}

// Size returns the last measured size.
func (r *Region) Size() (width, height int) {
	return r.width, r.height
}

func (r *Region) measure(width, height int) {
	r.width, r.height = width, height
}

// ClickDispatcher routes mouse releases to the topmost widget under the
// pointer. Widgets registered later are considered on top.
type ClickDispatcher struct {
	components []Clickable
}

func NewClickDispatcher(components ...Clickable) *ClickDispatcher {
	return &ClickDispatcher{components: components}
}

// Set replaces the registered widgets, e.g. after the screen changed.
func (d *ClickDispatcher) Set(components ...Clickable) {
	d.components = components
}

func (d *ClickDispatcher) Register(c Clickable) {
	d.components = append(d.components, c)
}

func (d *ClickDispatcher) Len() int {
	return len(d.components)
}

// HandleMouse ignores everything but a left-button release.
func (d *ClickDispatcher) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease {
		return nil
	}
	if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
		return nil
	}
	for i := len(d.components) - 1; i >= 0; i-- {
		c := d.components[i]
		if c.Contains(msg.X, msg.Y) {
			return c.HandleClick(msg.X, msg.Y)
		}
	}
	return nil
}
