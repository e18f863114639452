package layout

import (
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Foo Bar", "foo-bar"},
		{"Resume Builder", "resume-builder"},
		{"  Two   Spaces ", "-two-spaces-"},
		{"Tab\tSeparated", "tab-separated"},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := Slug(tt.title); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestNewCard(t *testing.T) {
	c := NewCard("Foo Bar", "")
	if c.ID != "foo-bar" {
		t.Errorf("expected id foo-bar, got %s", c.ID)
	}
	if !c.Visible {
		t.Error("expected new card to be visible")
	}
	if c.Color != nil {
		t.Errorf("expected nil color, got %q", *c.Color)
	}
	if c.Icon != DefaultIcon {
		t.Errorf("expected default icon, got %s", c.Icon)
	}
}

func TestParseProfile(t *testing.T) {
	for _, p := range Profiles() {
		got, err := ParseProfile(string(p))
		if err != nil || got != p {
			t.Errorf("ParseProfile(%q) = %q, %v", p, got, err)
		}
	}
	if got, err := ParseProfile(" Student "); err != nil || got != ProfileStudent {
		t.Errorf("expected case-insensitive parse, got %q, %v", got, err)
	}
	if _, err := ParseProfile("janitor"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestRemove_MovesOnlyTargetToEndOfHistory(t *testing.T) {
	l := DefaultLayout(ProfileStudent)
	l.DeletedCards = []Card{NewCard("Old", "")}

	removed, ok := l.Remove("virtual library")
	if !ok {
		t.Fatal("expected Virtual Library to be removed")
	}
	if removed.ID != "virtual-library" {
		t.Errorf("removed wrong card: %s", removed.ID)
	}

	wantOrder := []string{"my-cursus", "announcements", "schedule", "grades", "assignments"}
	if len(l.Cards) != len(wantOrder) {
		t.Fatalf("expected %d cards, got %d", len(wantOrder), len(l.Cards))
	}
	for i, id := range wantOrder {
		if l.Cards[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, l.Cards[i].ID)
		}
	}

	if len(l.DeletedCards) != 2 || l.DeletedCards[1].ID != "virtual-library" {
		t.Errorf("expected removed card at end of history, got %+v", l.DeletedCards)
	}
}

func TestRemove_FirstDuplicateWins(t *testing.T) {
	l := Layout{}
	first := NewCard("Notes", "")
	second := NewCard("notes", "fas fa-sticky-note")
	l.Add(first)
	l.Add(second)

	removed, ok := l.Remove("NOTES")
	if !ok || removed.Icon != DefaultIcon {
		t.Fatalf("expected first duplicate removed, got %+v", removed)
	}
	if len(l.Cards) != 1 || l.Cards[0].Icon != "fas fa-sticky-note" {
		t.Errorf("expected second duplicate to remain, got %+v", l.Cards)
	}
}

func TestRemove_Missing(t *testing.T) {
	l := DefaultLayout(ProfileTeacher)
	if _, ok := l.Remove("Nope"); ok {
		t.Error("expected missing card removal to fail")
	}
	if len(l.DeletedCards) != 0 {
		t.Errorf("history should be untouched, got %d entries", len(l.DeletedCards))
	}
}

func TestSwap_Involution(t *testing.T) {
	l := DefaultLayout(ProfileStudent)
	original := l.Clone()

	if !l.Swap("Grades", "Assignments") {
		t.Fatal("swap failed")
	}
	if l.Cards[4].ID != "assignments" || l.Cards[5].ID != "grades" {
		t.Errorf("expected indices 4 and 5 swapped, got %s %s", l.Cards[4].ID, l.Cards[5].ID)
	}
	if !l.Swap("Grades", "Assignments") {
		t.Fatal("second swap failed")
	}
	for i := range original.Cards {
		if l.Cards[i].ID != original.Cards[i].ID {
			t.Errorf("position %d: expected %s after double swap, got %s", i, original.Cards[i].ID, l.Cards[i].ID)
		}
	}
}

func TestSwap_MissingLeavesOrder(t *testing.T) {
	l := DefaultLayout(ProfileATS)
	if l.Swap("Server Status", "Coffee Machine") {
		t.Error("expected swap with missing card to fail")
	}
	if l.Cards[0].ID != "server-status" {
		t.Errorf("order changed: %s", l.Cards[0].ID)
	}
}

func TestRecolorAndReset(t *testing.T) {
	l := DefaultLayout(ProfileDoctoral)
	if !l.Recolor("publications", "#ff0000") {
		t.Fatal("recolor failed")
	}
	if got := l.Cards[2].ColorValue(); got != "#ff0000" {
		t.Errorf("expected color set, got %q", got)
	}
	if !l.Recolor("Publications", "") {
		t.Fatal("clearing color failed")
	}
	if l.Cards[2].Color != nil {
		t.Error("expected color cleared")
	}

	l.Remove("Publications")
	l.Reset(ProfileDoctoral)
	if len(l.Cards) != 4 || len(l.DeletedCards) != 0 {
		t.Errorf("reset did not restore defaults: %d cards, %d deleted", len(l.Cards), len(l.DeletedCards))
	}
}

func TestDefaultCards_ReturnsCopies(t *testing.T) {
	cards := DefaultCards(ProfileStudent)
	cards[0].Title = "Mutated"
	red := "red"
	cards[1].Color = &red

	fresh := DefaultCards(ProfileStudent)
	if fresh[0].Title != "My Cursus" || fresh[1].Color != nil {
		t.Error("default table was mutated through a returned slice")
	}
}

func TestVisibleCards(t *testing.T) {
	l := DefaultLayout(ProfileTeacher)
	l.Cards[1].Visible = false
	visible := l.VisibleCards()
	if len(visible) != 3 {
		t.Fatalf("expected 3 visible cards, got %d", len(visible))
	}
	if visible[1].ID != "gradebook" {
		t.Errorf("expected gradebook second, got %s", visible[1].ID)
	}
}

func TestPersonaFor(t *testing.T) {
	p := PersonaFor(ProfileATS)
	if p.Icon != "⚙️" || p.Title != "Technical Support AI" {
		t.Errorf("unexpected ats persona %+v", p)
	}
	want := `Hello! I'm your Technical Support AI assistant. How can I help you customize your dashboard? Say "show layout" to see your current dashboard cards.`
	if got := p.Greeting(); got != want {
		t.Errorf("greeting = %q", got)
	}
	if PersonaFor("nobody").Title != "Dashboard AI" {
		t.Error("expected fallback persona")
	}
}
