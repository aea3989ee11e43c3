package graphics

import (
	"math"
	"testing"
)

func TestFloatsEqual(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{1, 1, true},
		{1, 1.00005, true},
		{1, 1.001, false},
		{math.NaN(), math.NaN(), true},
		{math.NaN(), 0, false},
		{0, math.NaN(), false},
	}
	for _, tt := range tests {
		if got := FloatsEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("FloatsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRectUnionAndContains(t *testing.T) {
	a := RectFromXYWH(0, 0, 10, 10)
	b := RectFromXYWH(5, 20, 10, 5)
	u := a.Union(b)
	if !u.Equal(RectFromXYWH(0, 0, 15, 25)) {
		t.Errorf("Union = %v", u)
	}
	if !a.Contains(Point{X: 9.9, Y: 0}) {
		t.Error("expected point inside rect")
	}
	if a.Contains(Point{X: 10, Y: 5}) {
		t.Error("max edge should be exclusive")
	}
}

func TestEdgeInsetsInset(t *testing.T) {
	r := RectFromXYWH(0, 0, 100, 50)
	got := EdgeInsets{Left: 10, Top: 5, Right: 10, Bottom: 5}.Inset(r)
	if !got.Equal(RectFromXYWH(10, 5, 80, 40)) {
		t.Errorf("Inset = %v", got)
	}
	collapsed := EdgeInsetsAll(80).Inset(r)
	if collapsed.Size.Width != 0 || collapsed.Size.Height != 0 {
		t.Errorf("oversized insets should collapse to zero, got %v", collapsed.Size)
	}
}
