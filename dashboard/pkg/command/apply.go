package command

import (
	"fmt"
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
)

// HelpText is the reply for input that no rule understands.
const HelpText = `I'm sorry, but I don't understand that command. Try "show layout", "add [card name]", "remove [card name]", or "swap [card1] and [card2]".`

// Result is what applying an Outcome produced. The caller persists and
// broadcasts the layout when Changed is set.
type Result struct {
	Changed bool
	Reply   string
}

// Apply performs the outcome against l and returns the reply text. Targets
// that vanished between Interpret and Apply (or that a remote service named
// without checking) leave the layout untouched and reply NotFound.
func Apply(o Outcome, l *layout.Layout, p layout.Profile) Result {
	switch o := o.(type) {
	case ListCards:
		return Result{Reply: Describe(*l, p)}

	case AddCard:
		l.Add(layout.NewCard(o.Title, o.Icon))
		return Result{Changed: true, Reply: fmt.Sprintf("Adding '%s' card to your %s dashboard.", o.Title, p)}

	case RemoveCard:
		if _, ok := l.Remove(o.Title); !ok {
			return Apply(NotFound{Titles: []string{o.Title}, Quoted: true}, l, p)
		}
		return Result{Changed: true, Reply: fmt.Sprintf("Removing '%s' from your %s dashboard.", o.Title, p)}

	case SwapCards:
		if !l.Swap(o.First, o.Second) {
			return Apply(notFoundFor(*l, o.First, o.Second), l, p)
		}
		return Result{Changed: true, Reply: fmt.Sprintf("Swapping positions of '%s' and '%s' in your %s dashboard.", o.First, o.Second, p)}

	case ChangeColor:
		if !l.Recolor(o.Title, o.Color) {
			return Apply(NotFound{Titles: []string{o.Title}, Quoted: true}, l, p)
		}
		return Result{Changed: true, Reply: fmt.Sprintf("Changing the color of '%s' to %s.", o.Title, o.Color)}

	case ResetLayout:
		l.Reset(p)
		return Result{Changed: true, Reply: fmt.Sprintf("Resetting your %s dashboard to its default layout.", p)}

	case NotFound:
		titles := o.Titles
		if o.Quoted {
			titles = make([]string, len(o.Titles))
			for i, t := range o.Titles {
				titles[i] = "'" + t + "'"
			}
		}
		return Result{Reply: fmt.Sprintf("I couldn't find %s in your %s dashboard. Use 'show layout' to see available cards.", strings.Join(titles, " and "), p)}
	}

	return Result{Reply: HelpText}
}

// Describe renders the visible cards the way "show layout" reports them.
func Describe(l layout.Layout, p layout.Profile) string {
	visible := l.VisibleCards()
	if len(visible) == 0 {
		return fmt.Sprintf("Your %s dashboard is currently empty. You can add cards using commands like 'Add new [card name]'.", p)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current %s Dashboard Layout:\n\n", p)
	for i, c := range visible {
		fmt.Fprintf(&b, "%d. %s", i+1, c.Title)
		if color := c.ColorValue(); color != "" {
			fmt.Fprintf(&b, " (Color: %s)", color)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTotal: %d cards", len(visible))
	return b.String()
}

func notFoundFor(l layout.Layout, titles ...string) NotFound {
	var missing []string
	for _, t := range titles {
		if l.Find(t) < 0 {
			missing = append(missing, t)
		}
	}
	return NotFound{Titles: missing}
}
