package render

import "math"

// Camera maps world units to screen pixels: world (X, Y) is drawn at the
// screen centre, Zoom pixels per unit. World y grows upwards, screen y down.
type Camera struct {
	X, Y          float64
	Zoom          float64
	Width, Height int
}

func NewCamera(width, height int) Camera {
	return Camera{Zoom: 1, Width: width, Height: height}
}

func (c Camera) ToScreen(x, y float64) (float32, float32) {
	sx := (x-c.X)*c.Zoom + float64(c.Width)/2
	sy := float64(c.Height)/2 - (y-c.Y)*c.Zoom
	return float32(sx), float32(sy)
}

func (c Camera) ToWorld(sx, sy float64) (float64, float64) {
	x := (sx-float64(c.Width)/2)/c.Zoom + c.X
	y := (float64(c.Height)/2-sy)/c.Zoom + c.Y
	return x, y
}

// Length scales a world distance to pixels.
func (c Camera) Length(d float64) float32 { return float32(d * c.Zoom) }

// corners returns the four world-space corners of a w×h box centred on
// (x, y) and rotated by angle degrees, counter-clockwise from bottom-left.
func corners(x, y, angle, w, h float64) [4][2]float64 {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	hw, hh := w/2, h/2
	local := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	var out [4][2]float64
	for i, p := range local {
		out[i] = [2]float64{
			x + p[0]*cos - p[1]*sin,
			y + p[0]*sin + p[1]*cos,
		}
	}
	return out
}
