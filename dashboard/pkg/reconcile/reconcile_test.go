package reconcile

import (
	"testing"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/google/go-cmp/cmp"
)

type handle struct {
	id, title string
}

func keyOf(h *handle) Key {
	return Key{ID: h.id, Title: h.title}
}

func TestReconcile_EmptyExistingCreatesVisibleOnly(t *testing.T) {
	target := layout.DefaultLayout(layout.ProfileStudent)
	target.Cards[1].Visible = false

	plan := Reconcile[*handle](nil, keyOf, target)

	reused, created, discarded := plan.Counts()
	if reused != 0 || discarded != 0 {
		t.Errorf("reused=%d discarded=%d, want 0 and 0", reused, discarded)
	}
	if created != 5 {
		t.Errorf("created = %d, want 5", created)
	}

	var titles []string
	for _, op := range plan {
		titles = append(titles, op.(Create[*handle]).Card.Title)
	}
	want := []string{"My Cursus", "Emploi du Temps", "Virtual Library", "Grades", "Assignments"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("created titles mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_ReusesByIdentity(t *testing.T) {
	grades := &handle{id: "grades", title: "Grades"}
	stale := &handle{id: "old", title: "Old"}

	target := layout.Layout{Cards: []layout.Card{
		{ID: "grades", Title: "Grades", Visible: true},
		{ID: "new", Title: "New", Visible: true},
	}}

	plan := Reconcile([]*handle{stale, grades}, keyOf, target)
	if len(plan) != 3 {
		t.Fatalf("plan length = %d, want 3", len(plan))
	}

	reuse, ok := plan[0].(Reuse[*handle])
	if !ok {
		t.Fatalf("plan[0] = %T, want Reuse", plan[0])
	}
	if reuse.Handle != grades {
		t.Error("expected the same handle pointer to be reused")
	}

	if _, ok := plan[1].(Create[*handle]); !ok {
		t.Errorf("plan[1] = %T, want Create", plan[1])
	}

	discard, ok := plan[2].(Discard[*handle])
	if !ok || discard.Handle != stale {
		t.Errorf("plan[2] = %#v, want Discard of stale", plan[2])
	}
}

func TestReconcile_FallsBackToTitle(t *testing.T) {
	legacy := &handle{title: " Virtual Library "}
	target := layout.Layout{Cards: []layout.Card{
		{ID: "virtual-library", Title: "Virtual Library", Visible: true},
	}}

	plan := Reconcile([]*handle{legacy}, keyOf, target)
	reuse, ok := plan[0].(Reuse[*handle])
	if !ok || reuse.Handle != legacy {
		t.Fatalf("plan = %#v, want reuse of legacy handle", plan)
	}
	if reuse.Card.ID != "virtual-library" {
		t.Errorf("card id = %q", reuse.Card.ID)
	}
}

func TestReconcile_TitleMatchIsCaseSensitive(t *testing.T) {
	shouting := &handle{id: "legacy-grades", title: "GRADES"}
	target := layout.Layout{Cards: []layout.Card{
		{ID: "grades", Title: "Grades", Visible: true},
	}}

	plan := Reconcile([]*handle{shouting}, keyOf, target)
	reused, created, discarded := plan.Counts()
	if reused != 0 || created != 1 || discarded != 1 {
		t.Errorf("counts = %d/%d/%d, want 0/1/1", reused, created, discarded)
	}
	if d, ok := plan[1].(Discard[*handle]); !ok || d.Handle != shouting {
		t.Errorf("plan[1] = %#v, want Discard of the GRADES handle", plan[1])
	}
}

func TestReconcile_EachHandleUsedOnce(t *testing.T) {
	only := &handle{id: "dup", title: "Dup"}
	target := layout.Layout{Cards: []layout.Card{
		{ID: "dup", Title: "Dup", Visible: true},
		{ID: "dup", Title: "Dup", Visible: true},
	}}

	plan := Reconcile([]*handle{only}, keyOf, target)
	reused, created, discarded := plan.Counts()
	if reused != 1 || created != 1 || discarded != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/1/0", reused, created, discarded)
	}
}

func TestReconcile_FollowsTargetOrder(t *testing.T) {
	a := &handle{id: "grades", title: "Grades"}
	b := &handle{id: "assignments", title: "Assignments"}

	target := layout.Layout{Cards: []layout.Card{
		{ID: "assignments", Title: "Assignments", Visible: true},
		{ID: "grades", Title: "Grades", Visible: true},
	}}

	plan := Reconcile([]*handle{a, b}, keyOf, target)

	got := []*handle{plan[0].(Reuse[*handle]).Handle, plan[1].(Reuse[*handle]).Handle}
	if got[0] != b || got[1] != a {
		t.Errorf("order = %v, %v", got[0], got[1])
	}
}

func TestReconcile_HiddenCardDiscardsHandle(t *testing.T) {
	h := &handle{id: "grades", title: "Grades"}
	target := layout.Layout{Cards: []layout.Card{
		{ID: "grades", Title: "Grades", Visible: false},
	}}

	plan := Reconcile([]*handle{h}, keyOf, target)
	want := Plan[*handle]{Discard[*handle]{Handle: h}}
	if diff := cmp.Diff(want, plan, cmp.AllowUnexported(handle{})); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}
