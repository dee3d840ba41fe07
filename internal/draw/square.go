package draw

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"geosquare/internal/geom"
)

// Projector converts between geographic and viewport coordinates.
// *mapview.Map implements it.
type Projector interface {
	Project(p orb.Point) geom.ScreenPoint
	Unproject(s geom.ScreenPoint) orb.Point
}

// SquareCorners returns the screen corners of the smallest axis-aligned
// square anchored at anchor whose diagonal spans the drag to current. The
// order is (minX,minY), (maxX,minY), (maxX,maxY), (minX,maxY).
func SquareCorners(anchor, current geom.ScreenPoint) [4]geom.ScreenPoint {
	dx := current.X - anchor.X
	dy := current.Y - anchor.Y
	side := math.Max(math.Abs(dx), math.Abs(dy))

	far := geom.ScreenPoint{X: anchor.X + sign(dx)*side, Y: anchor.Y + sign(dy)*side}
	minX, maxX := math.Min(anchor.X, far.X), math.Max(anchor.X, far.X)
	minY, maxY := math.Min(anchor.Y, far.Y), math.Max(anchor.Y, far.Y)

	return [4]geom.ScreenPoint{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
}

// sign treats zero as positive.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// ComputeSquare projects the square corners back to lon/lat as a closed ring
// of five points.
func ComputeSquare(p Projector, anchor, current geom.ScreenPoint) orb.Ring {
	corners := SquareCorners(anchor, current)
	ring := make(orb.Ring, 0, 5)
	for _, c := range corners {
		ring = append(ring, p.Unproject(c))
	}
	return append(ring, ring[0])
}

// ValidSquare reports whether g is a polygon with a closed 5-point outer ring
// enclosing a positive area.
func ValidSquare(g orb.Geometry) bool {
	poly, ok := g.(orb.Polygon)
	if !ok || len(poly) != 1 {
		return false
	}
	ring := poly[0]
	return len(ring) == 5 && ring.Closed() && planar.Area(poly) > 0
}
