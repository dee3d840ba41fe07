package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geosquare/internal/assets"
	"geosquare/internal/draw"
)

const testBasemapWKT = "POLYGON((22 41, 29 41, 29 44, 22 44, 22 41))"

// testLoader serves the builtin assets and a WKT basemap for the engine.
func testLoader(mapErr error) assets.Loader {
	builtin := assets.NewLoader(time.Second, "", "")
	return assets.LoaderFunc(func(ctx context.Context, a assets.Asset) ([]byte, error) {
		if a.ID == assets.MapScriptID {
			if mapErr != nil {
				return nil, mapErr
			}
			return []byte(testBasemapWKT), nil
		}
		return builtin.Load(ctx, a)
	})
}

func newTestModel(t *testing.T, mapErr error) Model {
	t.Helper()
	m := New(Options{
		Bootstrapper: &assets.Bootstrapper{
			Registry:   assets.NewRegistry(),
			Loader:     testLoader(mapErr),
			Assets:     assets.DefaultSet(),
			Installers: Installers(),
		},
		Center:  orb.Point{25.5, 42.5},
		Zoom:    3,
		Timeout: time.Second,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return update(t, m, ensureAssets(m.opts.Bootstrapper, m.opts.Timeout)())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	b := tea.MouseButtonLeft
	if action == tea.MouseActionMotion {
		b = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: b}
}

func drag(t *testing.T, m Model, x0, y0, x1, y1 int) Model {
	t.Helper()
	m = update(t, m, mouse(x0, y0, tea.MouseActionPress))
	move := mouse(x1, y1, tea.MouseActionMotion)
	move.Button = tea.MouseButtonLeft
	m = update(t, m, move)
	return update(t, m, mouse(x1, y1, tea.MouseActionRelease))
}

func TestAssetFailureLeavesNoMap(t *testing.T) {
	m := newTestModel(t, errors.New("offline"))

	assert.True(t, m.Failed())
	assert.Nil(t, m.host)
	assert.Nil(t, m.Shape())
	assert.Contains(t, m.status, "offline")
	assert.Contains(t, m.View(), "map unavailable")

	// input is ignored without a map
	m = update(t, m, keyMsg("s"))
	m = update(t, m, mouse(10, 5, tea.MouseActionPress))
	assert.Nil(t, m.host)
}

func TestAssetsReady(t *testing.T) {
	m := newTestModel(t, nil)

	require.NotNil(t, m.host)
	assert.False(t, m.Failed())
	assert.False(t, m.loading)
	assert.True(t, m.host.mp.Loaded())
	cols, rows := m.host.mp.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 21, rows)
	assert.Equal(t, draw.ModeSimpleSelect, m.host.draw.Mode())
	assert.NotEmpty(t, m.View())
}

func TestDrawSquareWithMouse(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("s"))
	require.Equal(t, draw.ModeDrawSquare, m.host.draw.Mode())

	m = drag(t, m, 10, 5, 20, 10)

	f := m.Shape()
	require.NotNil(t, f)
	poly, ok := f.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
	assert.True(t, poly[0].Closed())
	assert.Equal(t, draw.ModeSimpleSelect, m.host.draw.Mode())
	assert.Equal(t, []string{f.ID.(string)}, m.host.draw.SelectedIDs())
}

func TestSecondSquareReplacesFirst(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("s"))
	m = drag(t, m, 10, 5, 20, 10)
	first := m.Shape()
	require.NotNil(t, first)

	m = update(t, m, keyMsg("s"))
	m = drag(t, m, 30, 5, 40, 12)

	all := m.host.draw.GetAll().Features
	require.Len(t, all, 1)
	assert.NotEqual(t, first.ID, all[0].ID)
}

func TestTriggerButton(t *testing.T) {
	m := newTestModel(t, nil)

	var trigger *struct{ x, y int }
	for _, b := range m.host.mp.Buttons() {
		if b.Label == "□" {
			trigger = &struct{ x, y int }{b.X, b.Y}
		}
	}
	require.NotNil(t, trigger)

	// screen row is offset by the header
	m = update(t, m, mouse(trigger.x, trigger.y+headerHeight, tea.MouseActionPress))
	assert.True(t, m.pressedButton)
	assert.Equal(t, draw.ModeDrawSquare, m.host.draw.Mode())
	assert.Equal(t, "Чертай квадрат", m.status)

	m = update(t, m, mouse(trigger.x, trigger.y+headerHeight, tea.MouseActionRelease))
	assert.False(t, m.pressedButton)
	assert.Equal(t, draw.ModeDrawSquare, m.host.draw.Mode())
	assert.Nil(t, m.Shape())
}

func TestTrashKeyDeletesSelection(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("s"))
	m = drag(t, m, 10, 5, 20, 10)
	require.NotNil(t, m.Shape())

	m = update(t, m, keyMsg("x"))
	assert.Nil(t, m.Shape())
	assert.Contains(t, m.status, "deleted 1")
}

func TestCancelDrawing(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("s"))
	m = update(t, m, mouse(10, 5, tea.MouseActionPress))

	m = update(t, m, keyMsg("esc"))
	assert.Equal(t, draw.ModeSimpleSelect, m.host.draw.Mode())
	assert.Empty(t, m.host.draw.GetAll().Features)
}

func TestCornersSidebar(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("tab"))
	require.True(t, m.showSidebar)
	assert.Empty(t, m.tbl.Rows())
	cols, _ := m.host.mp.Size()
	assert.Equal(t, 80-sidebarWidth-1, cols)

	m = update(t, m, keyMsg("s"))
	m = drag(t, m, 10, 5, 20, 10)
	rows := m.tbl.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "1", rows[0][0])
	assert.Contains(t, m.View(), "corners")
}

func TestWheelAndKeyZoom(t *testing.T) {
	m := newTestModel(t, nil)
	z := m.host.mp.Zoom()

	m = update(t, m, tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.InDelta(t, z+0.5, m.host.mp.Zoom(), 1e-9)

	m = update(t, m, keyMsg("-"))
	assert.InDelta(t, z-0.5, m.host.mp.Zoom(), 1e-9)
	assert.Contains(t, m.status, "zoom")
}

func TestHoverCoordinates(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, mouse(40, 11, tea.MouseActionMotion))

	assert.True(t, m.hovering)
	assert.True(t, m.hoverHasGeo)
	assert.InDelta(t, 25.5, m.hoverLon, 0.2)
	assert.InDelta(t, 42.5, m.hoverLat, 0.2)
	assert.True(t, m.hoverVertex)

	// footer
	m = update(t, m, mouse(40, 23, tea.MouseActionMotion))
	assert.False(t, m.hovering)
	assert.False(t, m.hoverHasGeo)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitWhileArmedDropsEmptySquare(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("s"))
	require.Len(t, m.host.draw.GetAll().Features, 1)

	m = update(t, m, keyMsg("q"))
	assert.Nil(t, m.Shape())
	assert.Empty(t, m.host.draw.GetAll().Features)
	assert.Equal(t, draw.ModeSimpleSelect, m.host.draw.Mode())
}

func TestQuitMidDragKeepsSquare(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("s"))
	m = update(t, m, mouse(10, 5, tea.MouseActionPress))
	move := mouse(20, 10, tea.MouseActionMotion)
	move.Button = tea.MouseButtonLeft
	m = update(t, m, move)

	m = update(t, m, keyMsg("q"))
	f := m.Shape()
	require.NotNil(t, f)
	assert.True(t, draw.ValidSquare(f.Geometry))
	assert.Len(t, m.host.draw.GetAll().Features, 1)
}

func TestVimPanKeys(t *testing.T) {
	m := newTestModel(t, nil)
	c := m.host.mp.Center()

	m = update(t, m, keyMsg("h"))
	assert.Less(t, m.host.mp.Center()[0], c[0])
	assert.False(t, m.help.ShowAll)

	m = update(t, m, keyMsg("?"))
	assert.True(t, m.help.ShowAll)
}

func TestFitBasemap(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, keyMsg("l"))
	require.Greater(t, m.host.mp.Center()[0], 25.5)

	m = update(t, m, keyMsg("f"))
	c := m.host.mp.Center()
	assert.InDelta(t, 25.5, c[0], 1e-9)
	assert.InDelta(t, 42.5, c[1], 1e-9)
	assert.InDelta(t, 3, m.host.mp.Zoom(), 1e-9)
}
