package tui

import (
	"math"
	"sort"

	"geosquare/internal/geom"
)

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	b.m[cy][cx] |= bit
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawSegment clips a pixel-space segment to the buffer and draws it.
func (b *brailleBuf) drawSegment(p, q geom.ScreenPoint) {
	p, q, ok := clipSegment(p, q, float64(b.w*2-1), float64(b.h*4-1))
	if !ok {
		return
	}
	b.drawLineMicro(int(math.Round(p.X)), int(math.Round(p.Y)), int(math.Round(q.X)), int(math.Round(q.Y)))
}

// drawPath strokes consecutive points given in pixels.
func (b *brailleBuf) drawPath(r []geom.ScreenPoint) {
	for i := 0; i+1 < len(r); i++ {
		b.drawSegment(r[i], r[i+1])
	}
}

// fillRing fills a ring with the even-odd rule, one scanline per micro row.
func (b *brailleBuf) fillRing(r []geom.ScreenPoint) {
	if len(r) < 3 {
		return
	}
	hMic := b.h * 4
	wMic := b.w * 2
	for yMic := 0; yMic < hMic; yMic++ {
		y := float64(yMic)
		var xs []float64
		for i := 0; i < len(r); i++ {
			a := r[i]
			c := r[(i+1)%len(r)]
			if a.Y == c.Y { // horizontal edge: skip
				continue
			}
			if (y >= a.Y && y < c.Y) || (y >= c.Y && y < a.Y) {
				t := (y - a.Y) / (c.Y - a.Y)
				xs = append(xs, a.X+t*(c.X-a.X))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xstart := max(0, int(math.Ceil(xs[i])))
			xend := min(wMic-1, int(math.Floor(xs[i+1])))
			for xMic := xstart; xMic <= xend; xMic++ {
				b.setPixel(xMic, yMic)
			}
		}
	}
}

// glyph returns the braille glyph for a cell, or 0 when empty.
func (b *brailleBuf) glyph(cx, cy int) rune {
	mask := b.m[cy][cx]
	if mask == 0 {
		return 0
	}
	return rune(0x2800 + int(mask))
}

// clipSegment clips p-q to [0,maxX]x[0,maxY] (Liang-Barsky).
func clipSegment(p, q geom.ScreenPoint, maxX, maxY float64) (geom.ScreenPoint, geom.ScreenPoint, bool) {
	dx, dy := q.X-p.X, q.Y-p.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, p.X},
		{dx, maxX - p.X},
		{-dy, p.Y},
		{dy, maxY - p.Y},
	}
	for _, e := range edges {
		pe, qe := e[0], e[1]
		if pe == 0 {
			if qe < 0 {
				return p, q, false
			}
			continue
		}
		t := qe / pe
		if pe < 0 {
			if t > t1 {
				return p, q, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return p, q, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return geom.ScreenPoint{X: p.X + t0*dx, Y: p.Y + t0*dy},
		geom.ScreenPoint{X: p.X + t1*dx, Y: p.Y + t1*dy}, true
}
