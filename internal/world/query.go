package world

import "github.com/jakecoffman/cp"

// PointQuery returns the owner of the shape nearest to (x, y) within
// maxDistance, or nil.
func (w *World) PointQuery(x, y, maxDistance float64) Owner {
	info := w.space.PointQueryNearest(cp.Vector{X: x, Y: y}, maxDistance, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return nil
	}
	if c, ok := w.shapes[info.Shape]; ok {
		return c.Owner()
	}
	return nil
}

// SegmentQuery casts a segment of the given thickness from (x1, y1) to
// (x2, y2) and returns the first owner hit and the hit point.
func (w *World) SegmentQuery(x1, y1, x2, y2, radius float64) (o Owner, hitX, hitY float64, ok bool) {
	info := w.space.SegmentQueryFirst(cp.Vector{X: x1, Y: y1}, cp.Vector{X: x2, Y: y2}, radius, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return nil, 0, 0, false
	}
	c, found := w.shapes[info.Shape]
	if !found {
		return nil, 0, 0, false
	}
	return c.Owner(), info.Point.X, info.Point.Y, true
}
