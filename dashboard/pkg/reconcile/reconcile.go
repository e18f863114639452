// Package reconcile computes how to bring a set of rendered card handles in
// line with a target layout without rebuilding handles that still match.
//
// The package never renders anything. A Plan lists, in display order, which
// existing handle to reuse for each visible card and which cards need a new
// handle, followed by the handles nothing references any more.
package reconcile

import (
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
)

// Key is what a rendered handle exposes for matching.
type Key struct {
	ID    string
	Title string
}

// Op is one step of a Plan.
type Op[H any] interface {
	op()
}

// Reuse keeps an existing handle and re-applies Card's color to it.
type Reuse[H any] struct {
	Handle H
	Card   layout.Card
}

// Create builds a new handle for Card.
type Create[H any] struct {
	Card layout.Card
}

// Discard drops a handle that no visible card references.
type Discard[H any] struct {
	Handle H
}

func (Reuse[H]) op()   {}
func (Create[H]) op()  {}
func (Discard[H]) op() {}

// Plan is the ordered result of Reconcile. Reuse and Create ops come first,
// in display order; Discard ops follow.
type Plan[H any] []Op[H]

// Counts tallies the ops by kind.
func (p Plan[H]) Counts() (reused, created, discarded int) {
	for _, op := range p {
		switch op.(type) {
		case Reuse[H]:
			reused++
		case Create[H]:
			created++
		case Discard[H]:
			discarded++
		}
	}
	return reused, created, discarded
}

// Reconcile matches target's visible cards against existing handles. A handle
// matches by card id first, then by exact title (surrounding whitespace
// ignored); each handle is used at most once.
func Reconcile[H any](existing []H, key func(H) Key, target layout.Layout) Plan[H] {
	keys := make([]Key, len(existing))
	for i, h := range existing {
		keys[i] = key(h)
	}
	used := make([]bool, len(existing))

	match := func(eq func(Key) bool) int {
		for i, k := range keys {
			if !used[i] && eq(k) {
				return i
			}
		}
		return -1
	}

	var plan Plan[H]
	for _, card := range target.Cards {
		if !card.Visible {
			continue
		}

		idx := match(func(k Key) bool { return k.ID != "" && k.ID == card.ID })
		if idx < 0 {
			idx = match(func(k Key) bool { return strings.TrimSpace(k.Title) == card.Title })
		}

		if idx < 0 {
			plan = append(plan, Create[H]{Card: card})
			continue
		}
		used[idx] = true
		plan = append(plan, Reuse[H]{Handle: existing[idx], Card: card})
	}

	for i, h := range existing {
		if !used[i] {
			plan = append(plan, Discard[H]{Handle: h})
		}
	}
	return plan
}
