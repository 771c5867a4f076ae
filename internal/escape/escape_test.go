package escape

import "testing"

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   rune
		want rune
	}{
		{'n', '\n'},
		{'t', '\t'},
		{'a', '\a'},
		{'b', '\b'},
		{'$', '$'},
		{'\\', '\\'},
		{'"', '"'},
		{'x', 'x'},
	}
	for _, tt := range tests {
		if got := Unescape(tt.in); got != tt.want {
			t.Errorf("Unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
