package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"geosquare/internal/assets"
	"geosquare/internal/draw"
	"geosquare/internal/geom"
	"geosquare/internal/mapview"
)

const panStep = 8 // pixels

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case assetsMsg:
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.initMap()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.stopDrawing()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.host == nil {
			return m, nil
		}
		m.handleKey(msg)
	case tea.MouseMsg:
		if m.host == nil {
			return m, nil
		}
		m.handleMouse(tea.MouseEvent(msg))
	}
	if m.host != nil && m.host.event != "" {
		m.status = m.host.event
		m.host.event = ""
	}
	if m.showSidebar {
		m.refreshCorners()
	}
	return m, nil
}

// stopDrawing ends the active mode so an unfinished square is settled: kept
// when valid, dropped otherwise.
func (m *Model) stopDrawing() {
	if m.host == nil {
		return
	}
	d := m.host.draw
	if err := d.ChangeMode(draw.ModeSimpleSelect, draw.ModeOptions{FeatureIDs: d.SelectedIDs()}); err != nil {
		m.opts.Logger.Error("stop drawing", "error", err)
	}
}

func (m *Model) fail(err error) {
	m.failed = true
	m.status = "map unavailable: " + err.Error()
	m.opts.Logger.Error("map init failed", "error", err)
}

// initMap runs once the bootstrapper reports both globals installed.
func (m *Model) initMap() {
	reg := m.opts.Bootstrapper.Registry
	m.sizeContainer()
	h, err := newHost(reg, m.opts, m.container)
	if err != nil {
		m.fail(err)
		return
	}
	m.host = h

	mapCSS, _ := h.mp.StyleSheet()
	drawCSS, _ := reg.Stylesheet(assets.DrawStylesheetID)
	t, err := buildTheme(mapCSS, drawCSS)
	if err != nil {
		m.opts.Logger.Warn("theme", "error", err)
	}
	m.theme = t
	m.status = fmt.Sprintf("map ready  basemap vertices=%d", h.mp.Basemap().VertexCount())
}

func (m *Model) sizeContainer() {
	l := m.layout()
	if m.width == 0 || m.height == 0 {
		m.container.Cols, m.container.Rows = 0, 0
		return
	}
	m.container.Cols, m.container.Rows = l.mapWidth, l.mapHeight
}

func (m *Model) resize() {
	m.sizeContainer()
	if m.host != nil {
		m.host.mp.Resize()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	mp, d := m.host.mp, m.host.draw
	switch {
	case key.Matches(msg, m.keys.Up):
		mp.Pan(0, -panStep)
	case key.Matches(msg, m.keys.Down):
		mp.Pan(0, panStep)
	case key.Matches(msg, m.keys.Left):
		mp.Pan(-panStep, 0)
	case key.Matches(msg, m.keys.Right):
		mp.Pan(panStep, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		mp.ZoomBy(2, mp.ViewCenter())
		m.status = fmt.Sprintf("zoom: %.1f", mp.Zoom())
	case key.Matches(msg, m.keys.ZoomOut):
		mp.ZoomBy(0.5, mp.ViewCenter())
		m.status = fmt.Sprintf("zoom: %.1f", mp.Zoom())
	case key.Matches(msg, m.keys.Draw):
		startSquare(d, m.opts.Logger)
	case key.Matches(msg, m.keys.Trash):
		d.Trash()
	case key.Matches(msg, m.keys.Cancel):
		if err := d.ChangeMode(draw.ModeSimpleSelect, draw.ModeOptions{}); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Fit):
		if bb := mp.Basemap().BBox; bb.Valid() {
			mp.JumpTo(bb.Center(), mp.Zoom())
		}
	case key.Matches(msg, m.keys.Corners):
		m.showSidebar = !m.showSidebar
		m.resize()
	}
}

func (m *Model) handleMouse(ev tea.MouseEvent) {
	l := m.layout()
	cx, cy, inside := l.mapCell(ev.X, ev.Y)
	p := mapview.CellCenter(cx, cy)
	mp, d := m.host.mp, m.host.draw

	switch ev.Action {
	case tea.MouseActionPress:
		if !inside {
			return
		}
		switch ev.Button {
		case tea.MouseButtonWheelUp:
			mp.ZoomBy(math.Sqrt2, p)
		case tea.MouseButtonWheelDown:
			mp.ZoomBy(1/math.Sqrt2, p)
		case tea.MouseButtonLeft:
			if b, ok := mp.ButtonAt(cx, cy); ok {
				m.pressedButton = true
				m.status = b.Title
				b.OnClick()
				return
			}
			d.MouseDown(p)
		}
	case tea.MouseActionMotion:
		m.hover(cx, cy, p, inside)
		if m.pressedButton || (!inside && ev.Button != tea.MouseButtonLeft) {
			return
		}
		d.MouseMove(p)
	case tea.MouseActionRelease:
		if m.pressedButton {
			m.pressedButton = false
			return
		}
		d.MouseUp(p)
	}
}

// hover tracks the pointer for the footer and the nearest basemap vertex.
func (m *Model) hover(cx, cy int, p geom.ScreenPoint, inside bool) {
	m.hovering = inside
	if !inside {
		m.hoverHasGeo = false
		return
	}
	mp := m.host.mp
	m.hoverCellX, m.hoverCellY = cx, cy
	ll := mp.Unproject(p)
	m.hoverHasGeo = true
	m.hoverLon, m.hoverLat = ll[0], ll[1]

	m.hoverVertex = false
	v, ok := mp.Basemap().NearestVertex(ll)
	if !ok {
		return
	}
	s := mp.Project(v)
	cols, rows := mp.Size()
	if s.X >= 0 && s.Y >= 0 && s.X < float64(cols*2) && s.Y < float64(rows*4) {
		m.hoverVertex = true
		m.hoverMicX, m.hoverMicY = int(s.X), int(s.Y)
	}
}
