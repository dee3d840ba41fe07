package mapview

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"geosquare/internal/geom"
)

// TileSize is the pixel width of the world at zoom 0.
const TileSize = 512

const earthRadiusPi = orb.EarthRadius * math.Pi

func worldSize(zoom float64) float64 {
	return TileSize * math.Exp2(zoom)
}

// worldPixel maps lon/lat to Web-Mercator pixels at the given zoom, origin at
// the north-west corner of the world.
func worldPixel(p orb.Point, zoom float64) (float64, float64) {
	mp := project.WGS84.ToMercator(p)
	ws := worldSize(zoom)
	x := (mp[0] + earthRadiusPi) / (2 * earthRadiusPi) * ws
	y := (earthRadiusPi - mp[1]) / (2 * earthRadiusPi) * ws
	return x, y
}

func fromWorldPixel(x, y, zoom float64) orb.Point {
	ws := worldSize(zoom)
	mx := x/ws*2*earthRadiusPi - earthRadiusPi
	my := earthRadiusPi - y/ws*2*earthRadiusPi
	return project.Mercator.ToWGS84(orb.Point{mx, my})
}

func wrapLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	w := math.Mod(lon+180, 360)
	if w < 0 {
		w += 360
	}
	return w - 180
}

// Project converts lon/lat to viewport pixels for the current center and zoom.
func (m *Map) Project(p orb.Point) geom.ScreenPoint {
	x, y := worldPixel(p, m.zoom)
	cx, cy := worldPixel(m.center, m.zoom)
	return geom.ScreenPoint{
		X: x - cx + m.width()/2,
		Y: y - cy + m.height()/2,
	}
}

// Unproject converts viewport pixels back to lon/lat. Longitude is wrapped
// into [-180, 180].
func (m *Map) Unproject(s geom.ScreenPoint) orb.Point {
	cx, cy := worldPixel(m.center, m.zoom)
	p := fromWorldPixel(s.X-m.width()/2+cx, s.Y-m.height()/2+cy, m.zoom)
	p[0] = wrapLon(p[0])
	return p
}
