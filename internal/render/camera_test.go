package render

import (
	"math"
	"testing"
)

func TestCameraRoundTrip(t *testing.T) {
	c := Camera{X: 10, Y: -5, Zoom: 2, Width: 800, Height: 600}

	sx, sy := c.ToScreen(10, -5)
	if sx != 400 || sy != 300 {
		t.Fatalf("camera centre maps to (%v, %v), want screen centre", sx, sy)
	}
	sx, sy = c.ToScreen(20, 0)
	if sx != 420 || sy != 290 {
		t.Errorf("ToScreen(20, 0) = (%v, %v), want (420, 290)", sx, sy)
	}
	x, y := c.ToWorld(float64(sx), float64(sy))
	if math.Abs(x-20) > 1e-4 || math.Abs(y) > 1e-4 {
		t.Errorf("ToWorld = (%v, %v), want (20, 0)", x, y)
	}
	if c.Length(3) != 6 {
		t.Errorf("Length(3) = %v", c.Length(3))
	}
}

func TestCorners(t *testing.T) {
	got := corners(0, 0, 90, 4, 2)
	want := [4][2]float64{{1, -2}, {1, 2}, {-1, 2}, {-1, -2}}
	for i := range want {
		if math.Abs(got[i][0]-want[i][0]) > 1e-9 || math.Abs(got[i][1]-want[i][1]) > 1e-9 {
			t.Errorf("corner %d = %v, want %v", i, got[i], want[i])
		}
	}
}
