package entity

// Sprite draws a texture centred on a local offset, rotated with the actor.
type Sprite struct {
	Base
	texture       string
	width, height float64
	x, y          float64
}

func (s *Sprite) Properties() []Property {
	return []Property{
		StringProperty("texture", &s.texture),
		FloatProperty("width", &s.width),
		FloatProperty("height", &s.height),
		FloatProperty("x", &s.x),
		FloatProperty("y", &s.y),
	}
}

func (s *Sprite) Texture() string { return s.texture }

func (s *Sprite) Render() {
	r := s.actor.ctx.Renderer
	if r == nil {
		return
	}
	x, y := s.actor.TransformPoint(s.x, s.y)
	r.DrawSprite(s.texture, x, y, s.actor.Angle(), s.width, s.height)
}
