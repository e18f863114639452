package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestButton_Click(t *testing.T) {
	clicked := false
	btn := NewButton("esc", "Back", func() tea.Cmd {
		clicked = true
		return nil
	})
	btn.SetBounds(10, 10, 20, 3)

	if !btn.Contains(15, 11) {
		t.Error("Button should contain point inside bounds")
	}
	if btn.Contains(5, 5) {
		t.Error("Button should not contain point outside bounds")
	}

	btn.HandleClick(15, 11)
	if !clicked {
		t.Error("Button should have been clicked")
	}

	clicked = false
	btn.Dimmed = true
	btn.HandleClick(15, 11)
	if clicked {
		t.Error("Dimmed button should ignore clicks")
	}
}

func TestButton_RenderMeasures(t *testing.T) {
	btn := NewButton("x", "Close", nil)
	out := btn.Render()
	if !strings.Contains(out, "Close") {
		t.Errorf("Expected label in render, got %q", out)
	}
	w, h := btn.Size()
	if w == 0 || h == 0 {
		t.Errorf("Expected Render to record a size, got %dx%d", w, h)
	}

	btn.Place(4, 2)
	x, y, bw, bh := btn.Bounds()
	if x != 4 || y != 2 || bw != w || bh != h {
		t.Errorf("Place changed size or missed position: %d,%d %dx%d", x, y, bw, bh)
	}
}

func TestListItem_Click(t *testing.T) {
	selected := false
	item := NewListItem("🎓", "Student", "Courses and grades", func() tea.Cmd {
		selected = true
		return nil
	})
	item.SetBounds(0, 5, 20, 2)

	if !item.Contains(10, 6) {
		t.Error("ListItem should contain point inside bounds")
	}
	item.HandleClick(10, 6)
	if !selected {
		t.Error("ListItem should have been selected")
	}
}

func TestListItem_RenderShowsCursor(t *testing.T) {
	item := NewListItem("", "Teacher", "", nil)
	if strings.Contains(item.Render(), "▸") {
		t.Error("Unselected item should not show the cursor")
	}
	item.SetSelected(true)
	if !strings.Contains(item.Render(), "▸ Teacher") {
		t.Errorf("Selected item should show the cursor, got %q", item.Render())
	}
}

func TestClickDispatcher(t *testing.T) {
	btnClicked, listClicked := false, false

	btn := NewButton("", "Btn", func() tea.Cmd {
		btnClicked = true
		return nil
	})
	btn.SetBounds(10, 10, 10, 3)

	list := NewListItem("", "List", "", func() tea.Cmd {
		listClicked = true
		return nil
	})
	list.SetBounds(0, 0, 10, 1)

	d := NewClickDispatcher(btn, list)

	d.HandleMouse(release(15, 11))
	if !btnClicked || listClicked {
		t.Errorf("expected only the button to be clicked, got btn=%v list=%v", btnClicked, listClicked)
	}

	btnClicked = false
	d.HandleMouse(release(5, 0))
	if btnClicked || !listClicked {
		t.Errorf("expected only the list item to be clicked, got btn=%v list=%v", btnClicked, listClicked)
	}

	listClicked = false
	d.HandleMouse(release(100, 100))
	d.HandleMouse(tea.MouseMsg{X: 15, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	d.HandleMouse(tea.MouseMsg{X: 15, Y: 11, Action: tea.MouseActionRelease, Button: tea.MouseButtonRight})
	if btnClicked || listClicked {
		t.Error("Nothing should have been clicked")
	}
}

func TestClickDispatcher_TopmostWins(t *testing.T) {
	var order []string
	under := NewButton("", "under", func() tea.Cmd { order = append(order, "under"); return nil })
	over := NewButton("", "over", func() tea.Cmd { order = append(order, "over"); return nil })
	under.SetBounds(0, 0, 10, 10)
	over.SetBounds(0, 0, 10, 10)

	d := NewClickDispatcher()
	d.Set(under, over)
	d.HandleMouse(release(1, 1))

	if len(order) != 1 || order[0] != "over" {
		t.Errorf("expected the later widget to win, got %v", order)
	}
}
