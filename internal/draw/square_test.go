package draw

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geosquare/internal/geom"
)

// flatProjector maps x to lon and y to -lat.
type flatProjector struct{}

func (flatProjector) Project(p orb.Point) geom.ScreenPoint {
	return geom.ScreenPoint{X: p[0], Y: -p[1]}
}

func (flatProjector) Unproject(s geom.ScreenPoint) orb.Point {
	return orb.Point{s.X, -s.Y}
}

func pts(xy ...float64) [4]geom.ScreenPoint {
	var out [4]geom.ScreenPoint
	for i := range out {
		out[i] = geom.ScreenPoint{X: xy[2*i], Y: xy[2*i+1]}
	}
	return out
}

func TestSquareCorners(t *testing.T) {
	cases := []struct {
		name            string
		anchor, current geom.ScreenPoint
		want            [4]geom.ScreenPoint
	}{
		{
			name:    "drag down right",
			anchor:  geom.ScreenPoint{X: 100, Y: 100},
			current: geom.ScreenPoint{X: 150, Y: 130},
			want:    pts(100, 100, 150, 100, 150, 150, 100, 150),
		},
		{
			name:    "drag up left",
			anchor:  geom.ScreenPoint{X: 100, Y: 100},
			current: geom.ScreenPoint{X: 70, Y: 60},
			want:    pts(60, 60, 100, 60, 100, 100, 60, 100),
		},
		{
			name:    "vertical drag grows right",
			anchor:  geom.ScreenPoint{X: 10, Y: 10},
			current: geom.ScreenPoint{X: 10, Y: 30},
			want:    pts(10, 10, 30, 10, 30, 30, 10, 30),
		},
		{
			name:    "horizontal drag left grows down",
			anchor:  geom.ScreenPoint{X: 10, Y: 10},
			current: geom.ScreenPoint{X: -5, Y: 10},
			want:    pts(-5, 10, 10, 10, 10, 25, -5, 25),
		},
		{
			name:    "no movement",
			anchor:  geom.ScreenPoint{X: 4, Y: 4},
			current: geom.ScreenPoint{X: 4, Y: 4},
			want:    pts(4, 4, 4, 4, 4, 4, 4, 4),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SquareCorners(tc.anchor, tc.current))
		})
	}
}

func TestSquareCornersProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := geom.ScreenPoint{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
		c := geom.ScreenPoint{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
		side := math.Max(math.Abs(c.X-a.X), math.Abs(c.Y-a.Y))

		sq := SquareCorners(a, c)
		assert.InDelta(t, side, sq[1].X-sq[0].X, 1e-9)
		assert.InDelta(t, side, sq[3].Y-sq[0].Y, 1e-9)
		assert.Equal(t, sq[0].Y, sq[1].Y)
		assert.Equal(t, sq[1].X, sq[2].X)
		assert.Equal(t, sq[2].Y, sq[3].Y)
		assert.Equal(t, sq[3].X, sq[0].X)

		// the anchor is one of the corners
		assert.Contains(t, sq[:], a)
	}
}

func TestComputeSquare(t *testing.T) {
	anchor := geom.ScreenPoint{X: 100, Y: 100}
	current := geom.ScreenPoint{X: 150, Y: 130}

	ring := ComputeSquare(flatProjector{}, anchor, current)
	require.Len(t, ring, 5)
	assert.True(t, ring.Closed())
	assert.Equal(t, orb.Ring{{100, -100}, {150, -100}, {150, -150}, {100, -150}, {100, -100}}, ring)

	assert.Equal(t, ring, ComputeSquare(flatProjector{}, anchor, current))
}

func TestValidSquare(t *testing.T) {
	square := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	cases := []struct {
		name string
		g    orb.Geometry
		want bool
	}{
		{"square", orb.Polygon{square}, true},
		{"empty ring", orb.Polygon{orb.Ring{}}, false},
		{"zero size", orb.Polygon{orb.Ring{{1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}}}, false},
		{"open ring", orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 2}}}, false},
		{"too few points", orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, false},
		{"hole", orb.Polygon{square, square}, false},
		{"not a polygon", square, false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidSquare(tc.g), tc.name)
	}
}
