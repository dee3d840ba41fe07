// Package mapview is the terminal map engine: a Web-Mercator view over a
// vector basemap, with controls and a synchronous event bus.
package mapview

import (
	"errors"
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"geosquare/internal/assets"
	"geosquare/internal/geom"
)

const (
	EventLoad   = "load"
	EventResize = "resize"
	EventMove   = "move"
)

const (
	defaultMinZoom = 0
	defaultMaxZoom = 22
)

// Container is the host surface the map renders into, in terminal cells.
// The host owns it and calls Map.Resize after changing it.
type Container struct {
	Cols int
	Rows int
}

type Options struct {
	Container *Container
	Style     string // stylesheet asset id the theme is read from
	Center    orb.Point
	Zoom      float64
	MinZoom   float64
	MaxZoom   float64
	Logger    *slog.Logger
}

// Event is delivered to handlers registered with On.
type Event struct {
	Type string
	Data any
}

type Handler func(Event)

type Map struct {
	registry  *assets.Registry
	container *Container
	cols      int
	rows      int
	style     string

	center  orb.Point
	zoom    float64
	minZoom float64
	maxZoom float64

	basemap  *geom.Basemap
	controls []*mountedControl
	handlers map[string][]Handler
	loaded   bool
	logger   *slog.Logger
}

// New constructs a map. The engine global must already be installed in reg.
func New(reg *assets.Registry, opts Options) (*Map, error) {
	v, ok := reg.Global(assets.GlobalEngine)
	basemap, isBasemap := v.(*geom.Basemap)
	if !ok || !isBasemap {
		return nil, &EngineUnavailableError{Global: assets.GlobalEngine}
	}
	if opts.Container == nil {
		return nil, errors.New("map: container is required")
	}
	m := &Map{
		registry:  reg,
		container: opts.Container,
		style:     opts.Style,
		center:    opts.Center,
		minZoom:   opts.MinZoom,
		maxZoom:   opts.MaxZoom,
		basemap:   basemap,
		handlers:  make(map[string][]Handler),
		logger:    opts.Logger,
	}
	if m.maxZoom <= m.minZoom {
		m.minZoom, m.maxZoom = defaultMinZoom, defaultMaxZoom
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.zoom = m.clampZoom(opts.Zoom)
	return m, nil
}

func (m *Map) width() float64  { return float64(m.cols * 2) }
func (m *Map) height() float64 { return float64(m.rows * 4) }

// Size returns the viewport in cells as of the last Resize.
func (m *Map) Size() (cols, rows int) { return m.cols, m.rows }

func (m *Map) Center() orb.Point      { return m.center }
func (m *Map) Zoom() float64          { return m.zoom }
func (m *Map) Basemap() *geom.Basemap { return m.basemap }
func (m *Map) Loaded() bool           { return m.loaded }

// StyleSheet returns the theme bytes of the map's stylesheet, if it loaded.
func (m *Map) StyleSheet() ([]byte, bool) {
	return m.registry.Stylesheet(m.style)
}

// On registers h for events of the given type.
func (m *Map) On(name string, h Handler) {
	m.handlers[name] = append(m.handlers[name], h)
}

// Fire calls the handlers for name synchronously, in registration order.
func (m *Map) Fire(name string, data any) {
	hs := append([]Handler(nil), m.handlers[name]...)
	ev := Event{Type: name, Data: data}
	for _, h := range hs {
		h(ev)
	}
}

// Resize re-reads the container size. The first resize to a non-empty
// container fires "load".
func (m *Map) Resize() {
	cols, rows := m.container.Cols, m.container.Rows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	changed := cols != m.cols || rows != m.rows
	m.cols, m.rows = cols, rows
	if !m.loaded && m.container.Cols > 0 && m.container.Rows > 0 {
		m.loaded = true
		m.logger.Debug("map loaded", "cols", cols, "rows", rows)
		m.Fire(EventLoad, nil)
	}
	if changed {
		m.Fire(EventResize, nil)
	}
}

func (m *Map) clampZoom(z float64) float64 {
	return math.Max(m.minZoom, math.Min(m.maxZoom, z))
}

// JumpTo recenters the map.
func (m *Map) JumpTo(center orb.Point, zoom float64) {
	m.center = center
	m.zoom = m.clampZoom(zoom)
	m.Fire(EventMove, nil)
}

// Pan moves the view by a pixel offset.
func (m *Map) Pan(dx, dy float64) {
	c := geom.ScreenPoint{X: m.width()/2 + dx, Y: m.height()/2 + dy}
	m.center = m.Unproject(c)
	m.Fire(EventMove, nil)
}

// ZoomBy scales the view by factor, keeping the geographic point under
// around fixed on screen.
func (m *Map) ZoomBy(factor float64, around geom.ScreenPoint) {
	if factor <= 0 {
		return
	}
	anchor := m.Unproject(around)
	z := m.clampZoom(m.zoom + math.Log2(factor))
	if z == m.zoom {
		return
	}
	m.zoom = z
	moved := m.Project(anchor)
	d := moved.Sub(around)
	m.center = m.Unproject(geom.ScreenPoint{X: m.width()/2 + d.X, Y: m.height()/2 + d.Y})
	m.Fire(EventMove, nil)
}

// ViewCenter is the middle of the viewport in pixels.
func (m *Map) ViewCenter() geom.ScreenPoint {
	return geom.ScreenPoint{X: m.width() / 2, Y: m.height() / 2}
}
