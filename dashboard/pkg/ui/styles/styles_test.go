package styles

import "testing"

func TestColorCode(t *testing.T) {
	tests := map[string]string{
		"red":     "#b03a2e",
		" Blue ":  "#2e86c1",
		"#123456": "#123456",
		"214":     "214",
	}
	for in, want := range tests {
		if got := colorCode(in); got != want {
			t.Errorf("colorCode(%q) = %q, want %q", in, got, want)
		}
	}
}
