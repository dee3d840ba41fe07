package mapview

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geosquare/internal/assets"
	"geosquare/internal/geom"
)

var sofia = orb.Point{23.3219, 42.6977}

func testBasemap(t *testing.T) *geom.Basemap {
	t.Helper()
	b, err := geom.NewBasemap(orb.Bound{Min: orb.Point{22, 41}, Max: orb.Point{29, 44}})
	require.NoError(t, err)
	return b
}

func newTestMap(t *testing.T, cols, rows int) *Map {
	t.Helper()
	reg := assets.NewRegistry()
	reg.SetGlobal(assets.GlobalEngine, testBasemap(t))
	m, err := New(reg, Options{
		Container: &Container{Cols: cols, Rows: rows},
		Center:    sofia,
		Zoom:      10,
	})
	require.NoError(t, err)
	m.Resize()
	return m
}

func TestNewWithoutEngine(t *testing.T) {
	reg := assets.NewRegistry()
	_, err := New(reg, Options{Container: &Container{Cols: 10, Rows: 10}})
	var unavailable *EngineUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, assets.GlobalEngine, unavailable.Global)

	// raw script bytes are not an engine
	reg.SetGlobal(assets.GlobalEngine, []byte("{}"))
	_, err = New(reg, Options{Container: &Container{Cols: 10, Rows: 10}})
	require.ErrorAs(t, err, &unavailable)
}

func TestNewWithoutContainer(t *testing.T) {
	reg := assets.NewRegistry()
	reg.SetGlobal(assets.GlobalEngine, testBasemap(t))
	_, err := New(reg, Options{})
	assert.Error(t, err)
}

func TestProjectCenter(t *testing.T) {
	m := newTestMap(t, 80, 20)
	s := m.Project(sofia)
	assert.InDelta(t, 80.0, s.X, 1e-6)
	assert.InDelta(t, 40.0, s.Y, 1e-6)
	assert.Equal(t, s, m.ViewCenter())
}

func TestProjectRoundTrip(t *testing.T) {
	m := newTestMap(t, 80, 20)
	for _, s := range []geom.ScreenPoint{
		{X: 0, Y: 0},
		{X: 100, Y: 100},
		{X: 150, Y: 130},
		{X: 159.5, Y: 79.5},
		{X: 60, Y: 60},
	} {
		p := m.Unproject(s)
		back := m.Project(p)
		assert.InDelta(t, s.X, back.X, 1e-6, "%v", s)
		assert.InDelta(t, s.Y, back.Y, 1e-6, "%v", s)

		again := m.Unproject(back)
		assert.InDelta(t, p[0], again[0], 1e-9)
		assert.InDelta(t, p[1], again[1], 1e-9)
	}
}

func TestProjectAxes(t *testing.T) {
	m := newTestMap(t, 80, 20)
	east := m.Project(orb.Point{sofia[0] + 0.1, sofia[1]})
	north := m.Project(orb.Point{sofia[0], sofia[1] + 0.1})
	c := m.ViewCenter()
	assert.Greater(t, east.X, c.X)
	assert.InDelta(t, c.Y, east.Y, 1e-9)
	assert.Less(t, north.Y, c.Y)
	assert.InDelta(t, c.X, north.X, 1e-9)
}

func TestWrapLon(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{540, -180},
		{725, 5},
	}
	for _, tc := range cases {
		got := wrapLon(tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "wrapLon(%v)", tc.in)
		assert.True(t, got >= -180 && got <= 180)
	}
}

func TestLoadAndResizeEvents(t *testing.T) {
	reg := assets.NewRegistry()
	reg.SetGlobal(assets.GlobalEngine, testBasemap(t))
	c := &Container{}
	m, err := New(reg, Options{Container: c, Center: sofia, Zoom: 4})
	require.NoError(t, err)

	var events []string
	m.On(EventLoad, func(e Event) {
		events = append(events, e.Type)
		m.Resize()
	})
	m.On(EventResize, func(e Event) { events = append(events, e.Type) })

	m.Resize()
	assert.False(t, m.Loaded())
	assert.Equal(t, []string{EventResize}, events)

	c.Cols, c.Rows = 40, 10
	m.Resize()
	assert.True(t, m.Loaded())
	assert.Equal(t, []string{EventResize, EventLoad, EventResize}, events)

	m.Resize()
	assert.Len(t, events, 3)

	cols, rows := m.Size()
	assert.Equal(t, 40, cols)
	assert.Equal(t, 10, rows)
}

func TestZoomByKeepsAnchor(t *testing.T) {
	m := newTestMap(t, 80, 20)
	around := geom.ScreenPoint{X: 30, Y: 20}
	before := m.Unproject(around)

	m.ZoomBy(2, around)
	assert.InDelta(t, 11.0, m.Zoom(), 1e-9)
	after := m.Unproject(around)
	assert.InDelta(t, before[0], after[0], 1e-9)
	assert.InDelta(t, before[1], after[1], 1e-9)
}

func TestZoomClamped(t *testing.T) {
	reg := assets.NewRegistry()
	reg.SetGlobal(assets.GlobalEngine, testBasemap(t))
	m, err := New(reg, Options{Container: &Container{Cols: 10, Rows: 10}, Zoom: 50, MinZoom: 1, MaxZoom: 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, m.Zoom())

	moves := 0
	m.On(EventMove, func(Event) { moves++ })
	m.ZoomBy(4, m.ViewCenter())
	assert.Equal(t, 0, moves)
	m.ZoomBy(1.0/64, m.ViewCenter())
	assert.Equal(t, 1.0, m.Zoom())
	assert.Equal(t, 1, moves)
}

func TestPan(t *testing.T) {
	m := newTestMap(t, 80, 20)
	target := m.Unproject(geom.ScreenPoint{X: 100, Y: 50})
	m.Pan(20, 10)
	assert.InDelta(t, target[0], m.Center()[0], 1e-9)
	assert.InDelta(t, target[1], m.Center()[1], 1e-9)
	assert.False(t, math.IsNaN(m.Center()[1]))
}

func TestStyleSheet(t *testing.T) {
	reg := assets.NewRegistry()
	reg.SetGlobal(assets.GlobalEngine, testBasemap(t))
	m, err := New(reg, Options{Container: &Container{Cols: 1, Rows: 1}, Style: assets.MapStylesheetID})
	require.NoError(t, err)
	_, ok := m.StyleSheet()
	assert.False(t, ok)
}
