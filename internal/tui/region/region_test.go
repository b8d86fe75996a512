package region

import (
	"slices"
	"testing"
)

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 2, W: 5, H: 3}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"top-left corner", 10, 2, true},
		{"bottom-right cell", 14, 4, true},
		{"right edge is exclusive", 15, 2, false},
		{"bottom edge is exclusive", 10, 5, false},
		{"left of rect", 9, 3, false},
		{"above rect", 12, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if (Rect{X: 1, Y: 1}).Contains(1, 1) {
		t.Error("empty rect should contain nothing")
	}
	if r.Right() != 15 || r.Bottom() != 5 {
		t.Errorf("Right/Bottom = %d/%d", r.Right(), r.Bottom())
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Set("trigger", Rect{X: 0, Y: 0, W: 10, H: 1})
	reg.Set("panel", Rect{X: 0, Y: 2, W: 10, H: 4})

	if _, ok := reg.Lookup("trigger"); !ok {
		t.Fatal("Lookup(trigger) missing")
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d", reg.Len())
	}

	tests := []struct {
		name     string
		selector string
		x, y     int
		want     bool
	}{
		{"single id hit", "trigger", 3, 0, true},
		{"single id miss", "trigger", 3, 3, false},
		{"second id of list", "trigger,panel", 3, 3, true},
		{"whitespace tolerated", " trigger , panel ", 3, 5, true},
		{"unknown id", "other", 3, 0, false},
		{"empty selector", "", 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.Contains(tt.selector, tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%q, %d, %d) = %v, want %v", tt.selector, tt.x, tt.y, got, tt.want)
			}
		})
	}

	if got := reg.At(1, 0); !slices.Equal(got, []string{"trigger"}) {
		t.Errorf("At(1, 0) = %v", got)
	}

	reg.Remove("trigger")
	if reg.Contains("trigger", 3, 0) {
		t.Error("removed region still matches")
	}

	reg.Reset()
	if reg.Len() != 0 {
		t.Errorf("Len() after Reset = %d", reg.Len())
	}
}
