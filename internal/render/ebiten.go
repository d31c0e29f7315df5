package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/greybox2d/greybox/internal/entity"
)

var (
	colliderColor = color.RGBA{R: 0x40, G: 0xe0, B: 0x60, A: 0xff}
	spriteColor   = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
)

// Ebiten draws onto the current frame's screen image. Sprites whose texture
// was never registered are drawn as outlined boxes.
type Ebiten struct {
	Camera   Camera
	target   *ebiten.Image
	textures map[string]*ebiten.Image
}

var _ entity.Renderer = (*Ebiten)(nil)

func NewEbiten(width, height int) *Ebiten {
	return &Ebiten{
		Camera:   NewCamera(width, height),
		textures: make(map[string]*ebiten.Image),
	}
}

// Begin sets the image the following draw calls target. Drawing with no
// target is a no-op.
func (r *Ebiten) Begin(screen *ebiten.Image) { r.target = screen }

func (r *Ebiten) End() { r.target = nil }

func (r *Ebiten) SetTexture(name string, img *ebiten.Image) {
	r.textures[name] = img
}

func (r *Ebiten) DrawSprite(texture string, x, y, angle, width, height float64) {
	if r.target == nil {
		return
	}
	img, ok := r.textures[texture]
	if !ok {
		r.strokeBox(x, y, angle, width, height, spriteColor)
		return
	}

	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if width <= 0 {
		width = w
	}
	if height <= 0 {
		height = h
	}
	sx, sy := r.Camera.ToScreen(x, y)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(width/w*r.Camera.Zoom, height/h*r.Camera.Zoom)
	// screen y points down, so a counter-clockwise world angle is negated
	op.GeoM.Rotate(-angle * math.Pi / 180)
	op.GeoM.Translate(float64(sx), float64(sy))
	op.Filter = ebiten.FilterLinear
	r.target.DrawImage(img, op)
}

func (r *Ebiten) DrawCircle(x, y, radius float64) {
	if r.target == nil {
		return
	}
	sx, sy := r.Camera.ToScreen(x, y)
	vector.StrokeCircle(r.target, sx, sy, r.Camera.Length(radius), 1, colliderColor, true)
}

func (r *Ebiten) DrawSegment(x1, y1, x2, y2, radius float64) {
	if r.target == nil {
		return
	}
	ax, ay := r.Camera.ToScreen(x1, y1)
	bx, by := r.Camera.ToScreen(x2, y2)
	width := 2 * r.Camera.Length(radius)
	if width < 1 {
		width = 1
	}
	vector.StrokeLine(r.target, ax, ay, bx, by, width, colliderColor, true)
}

func (r *Ebiten) DrawText(x, y float64, text string) {
	if r.target == nil {
		return
	}
	sx, sy := r.Camera.ToScreen(x, y)
	ebitenutil.DebugPrintAt(r.target, text, int(sx), int(sy))
}

func (r *Ebiten) strokeBox(x, y, angle, w, h float64, clr color.Color) {
	c := corners(x, y, angle, w, h)
	for i := range c {
		j := (i + 1) % len(c)
		ax, ay := r.Camera.ToScreen(c[i][0], c[i][1])
		bx, by := r.Camera.ToScreen(c[j][0], c[j][1])
		vector.StrokeLine(r.target, ax, ay, bx, by, 1, clr, true)
	}
}

// Fill clears the target to a solid colour.
func (r *Ebiten) Fill(clr color.Color) {
	if r.target == nil {
		return
	}
	b := r.target.Bounds()
	vector.DrawFilledRect(r.target, 0, 0, float32(b.Dx()), float32(b.Dy()), clr, false)
}
