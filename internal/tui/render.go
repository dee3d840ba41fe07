package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"geosquare/internal/draw"
	"geosquare/internal/geom"
	"geosquare/internal/mapview"
)

// layer decides the colour of a cell; later layers win.
type layer int

const (
	layerNone layer = iota
	layerBasemap
	layerShape
	layerShapeActive
	layerVertex
	layerHover
	layerCursor
	layerControl
)

type cell struct {
	r rune
	l layer
}

type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	cells := make([][]cell, h)
	for y := range cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		cells[y] = row
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) set(x, y int, r rune, l layer) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, l: l}
}

func (c *canvas) text(x, y int, s string, l layer) {
	for _, r := range s {
		c.set(x, y, r, l)
		x++
	}
}

// overlay copies every non-empty braille cell of b onto the canvas.
func (c *canvas) overlay(b *brailleBuf, l layer) {
	for y := 0; y < c.h && y < b.h; y++ {
		for x := 0; x < c.w && x < b.w; x++ {
			if g := b.glyph(x, y); g != 0 {
				c.cells[y][x] = cell{r: g, l: l}
			}
		}
	}
}

// render styles runs of equal layer together.
func (c *canvas) render(styles map[layer]lipgloss.Style) string {
	lines := make([]string, c.h)
	var sb, run strings.Builder
	for y, row := range c.cells {
		sb.Reset()
		cur := layerNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[cur]; ok && cur != layerNone {
				sb.WriteString(st.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.l != cur {
				flush()
				cur = cl.l
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func projectPath(mp *mapview.Map, pts []orb.Point) []geom.ScreenPoint {
	out := make([]geom.ScreenPoint, len(pts))
	for i, p := range pts {
		out[i] = mp.Project(p)
	}
	return out
}

// pixelCell returns the cell holding a pixel.
func pixelCell(s geom.ScreenPoint) (int, int) {
	return int(math.Floor(s.X / 2)), int(math.Floor(s.Y / 4))
}

func (m Model) renderMap(w, h int) string {
	cv := newCanvas(w, h)
	hs := m.host
	mp := hs.mp

	// Basemap outline
	if bm := mp.Basemap(); !bm.Empty() {
		base := newBrailleBuf(w, h)
		for _, poly := range bm.Polygons {
			for _, ring := range poly {
				base.drawPath(projectPath(mp, ring))
			}
		}
		for _, ls := range bm.Lines {
			base.drawPath(projectPath(mp, ls))
		}
		for _, p := range bm.Points {
			s := mp.Project(p)
			base.setPixel(int(math.Floor(s.X)), int(math.Floor(s.Y)))
		}
		cv.overlay(base, layerBasemap)
	}

	// Drawn shapes: fill then edges
	shapes := newBrailleBuf(w, h)
	active := newBrailleBuf(w, h)
	var corners []geom.ScreenPoint
	for _, f := range hs.draw.DisplayFeatures() {
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok || len(poly) == 0 || len(poly[0]) < 4 {
			continue
		}
		ring := projectPath(mp, poly[0])
		buf := shapes
		if f.Properties[draw.PropActive] == "true" {
			buf = active
			corners = append(corners, ring[:len(ring)-1]...)
		}
		buf.fillRing(ring)
		buf.drawPath(ring)
	}
	cv.overlay(shapes, layerShape)
	cv.overlay(active, layerShapeActive)
	for _, s := range corners {
		cx, cy := pixelCell(s)
		if cx >= 0 && cy >= 0 && cx < w && cy < h {
			r := cv.cells[cy][cx].r
			if r == ' ' {
				r = '•'
			}
			cv.set(cx, cy, r, layerVertex)
		}
	}

	if a, ok := hs.draw.Anchor(); ok {
		cx, cy := pixelCell(a)
		cv.set(cx, cy, '✛', layerCursor)
	}

	// Hover highlight: an orange circle at the nearest basemap vertex
	if m.hovering && m.hoverVertex {
		cv.set(m.hoverMicX/2, m.hoverMicY/4, '◯', layerHover)
	}
	if m.hovering && hs.draw.Cursor() == draw.CursorAdd {
		cv.set(m.hoverCellX, m.hoverCellY, '+', layerCursor)
	}

	for _, b := range mp.Buttons() {
		cv.text(b.X, b.Y, b.Text(), layerControl)
	}
	return cv.render(m.theme.layers)
}
