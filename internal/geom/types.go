package geom

import "github.com/paulmach/orb"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a positive extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Center returns the lon/lat midpoint of the box.
func (b BBox) Center() orb.Point {
	return orb.Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

func bboxFromBound(bd orb.Bound) BBox {
	return BBox{MinX: bd.Min[0], MinY: bd.Min[1], MaxX: bd.Max[0], MaxY: bd.Max[1]}
}

// ScreenPoint is a pixel position relative to the map viewport's top-left corner.
// Pixels are braille micro-dots: 2 per cell horizontally, 4 vertically.
type ScreenPoint struct {
	X float64
	Y float64
}

// Sub returns p - q.
func (p ScreenPoint) Sub(q ScreenPoint) ScreenPoint {
	return ScreenPoint{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p ScreenPoint) Add(q ScreenPoint) ScreenPoint {
	return ScreenPoint{X: p.X + q.X, Y: p.Y + q.Y}
}

// Dist2 is the squared distance between p and q.
func (p ScreenPoint) Dist2(q ScreenPoint) float64 {
	d := p.Sub(q)
	return d.X*d.X + d.Y*d.Y
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   []orb.Point
	Lines    []orb.LineString
	Polygons []orb.Polygon // first ring outer, following rings holes
	BBox     BBox
}

// Empty reports whether there is nothing to draw.
func (d Data) Empty() bool {
	return len(d.Points)+len(d.Lines)+len(d.Polygons) == 0
}
