// Package command turns chat input into layout operations and applies them.
//
// Interpret is pure: it only reads the layout to decide between an operation
// and NotFound. Apply performs the mutation and builds the reply text.
package command

import (
	"regexp"
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
)

// Outcome is the closed set of things a chat message can mean.
type Outcome interface {
	outcome()
}

// ListCards enumerates the visible cards.
type ListCards struct{}

// AddCard appends a new card. Icon is only set by the remote service.
type AddCard struct {
	Title string
	Icon  string
}

// RemoveCard moves the first matching card to the deletion history.
type RemoveCard struct {
	Title string
}

// SwapCards exchanges the positions of two cards.
type SwapCards struct {
	First  string
	Second string
}

// ChangeColor recolors a card. Only produced by the remote service.
type ChangeColor struct {
	Title string
	Color string
}

// ResetLayout restores the profile defaults. Only produced by the remote service.
type ResetLayout struct{}

// NotFound reports titles referenced by remove or swap that do not exist.
type NotFound struct {
	Titles []string
	// Quoted is set for single-target commands, which quote the title in
	// the reply.
	Quoted bool
}

// Unrecognized means no grammar rule matched.
type Unrecognized struct{}

func (ListCards) outcome()    {}
func (AddCard) outcome()      {}
func (RemoveCard) outcome()   {}
func (SwapCards) outcome()    {}
func (ChangeColor) outcome()  {}
func (ResetLayout) outcome()  {}
func (NotFound) outcome()     {}
func (Unrecognized) outcome() {}

var (
	removePattern = regexp.MustCompile(`(?i)^(delete|remove)\s+`)
	swapPattern   = regexp.MustCompile(`(?is)^swap\s+(.+?)\s+and\s+(.+)$`)
)

// IsShowLayout reports whether text is the list command, which is always
// answered locally.
func IsShowLayout(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "show layout")
}

// Interpret classifies a chat message. Rules are tried in order and the first
// match wins; title matching is case-insensitive and exact.
func Interpret(raw string, l layout.Layout) Outcome {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	switch {
	case lower == "show layout":
		return ListCards{}

	case strings.HasPrefix(lower, "add "):
		title := strings.TrimSpace(text[len("add "):])
		if title == "" {
			return Unrecognized{}
		}
		return AddCard{Title: title}

	case removePattern.MatchString(text):
		title := strings.TrimSpace(removePattern.ReplaceAllString(text, ""))
		if l.Find(title) < 0 {
			return NotFound{Titles: []string{title}, Quoted: true}
		}
		return RemoveCard{Title: title}
	}

	if m := swapPattern.FindStringSubmatch(text); m != nil {
		first, second := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		var missing []string
		if l.Find(first) < 0 {
			missing = append(missing, first)
		}
		if l.Find(second) < 0 {
			missing = append(missing, second)
		}
		if len(missing) > 0 {
			return NotFound{Titles: missing}
		}
		return SwapCards{First: first, Second: second}
	}

	return Unrecognized{}
}
