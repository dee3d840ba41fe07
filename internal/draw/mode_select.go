package draw

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"geosquare/internal/geom"
)

type selectState struct {
	dragging string // id of the feature being moved
	last     geom.ScreenPoint
	moved    bool
}

// SimpleSelectMode is the neutral mode: click to select, drag a selected
// feature to move it, trash to delete the selection.
type SimpleSelectMode struct{}

var _ Mode = SimpleSelectMode{}

func (SimpleSelectMode) OnSetup(c *Context, opts ModeOptions) State {
	c.SetSelected(opts.FeatureIDs...)
	c.SetCursor(CursorNone)
	return &selectState{}
}

// featureAt returns the topmost polygon containing p.
func featureAt(c *Context, p orb.Point) *geojson.Feature {
	fs := c.Features()
	for _, f := range slices.Backward(fs) {
		if poly, ok := f.Geometry.(orb.Polygon); ok && len(poly) > 0 && len(poly[0]) > 0 && planar.PolygonContains(poly, p) {
			return f
		}
	}
	return nil
}

func (m SimpleSelectMode) OnMouseDown(c *Context, s State, e Event) { m.press(c, s.(*selectState), e) }

func (m SimpleSelectMode) OnTouchStart(c *Context, s State, e Event) { m.press(c, s.(*selectState), e) }

func (SimpleSelectMode) press(c *Context, st *selectState, e Event) {
	*st = selectState{}
	f := featureAt(c, e.LngLat)
	if f == nil {
		c.ClearSelectedFeatures()
		return
	}
	id := featureID(f)
	if !c.IsSelected(id) {
		c.SetSelected(id)
	}
	st.dragging = id
	st.last = e.Point
	c.SetCursor(CursorMove)
}

func (m SimpleSelectMode) OnDrag(c *Context, s State, e Event) { m.move(c, s.(*selectState), e) }

func (m SimpleSelectMode) OnTouchMove(c *Context, s State, e Event) { m.move(c, s.(*selectState), e) }

// move translates the dragged feature by the pointer delta in screen space.
func (SimpleSelectMode) move(c *Context, st *selectState, e Event) {
	if st.dragging == "" {
		return
	}
	f := c.GetFeature(st.dragging)
	if f == nil {
		st.dragging = ""
		return
	}
	delta := e.Point.Sub(st.last)
	if delta == (geom.ScreenPoint{}) {
		return
	}
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok {
		return
	}
	moved := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		for j, p := range ring {
			r[j] = c.Unproject(c.Project(p).Add(delta))
		}
		moved[i] = r
	}
	c.SetGeometry(st.dragging, moved)
	st.last = e.Point
	st.moved = true
}

func (SimpleSelectMode) OnMouseMove(c *Context, _ State, e Event) {
	if featureAt(c, e.LngLat) != nil {
		c.SetCursor(CursorPointer)
		return
	}
	c.SetCursor(CursorNone)
}

func (m SimpleSelectMode) OnMouseUp(c *Context, s State, _ Event) { m.release(c, s.(*selectState)) }

func (m SimpleSelectMode) OnTouchEnd(c *Context, s State, _ Event) { m.release(c, s.(*selectState)) }

func (m SimpleSelectMode) OnClick(c *Context, s State, _ Event) { m.release(c, s.(*selectState)) }

func (SimpleSelectMode) release(c *Context, st *selectState) {
	if st.moved {
		if f := c.GetFeature(st.dragging); f != nil {
			c.FireUpdate(ActionMove, f)
		}
	}
	*st = selectState{}
	c.SetCursor(CursorNone)
}

// OnTrash deletes the selected features and announces it.
func (SimpleSelectMode) OnTrash(c *Context, s State) {
	for _, id := range c.SelectedIDs() {
		c.DeleteFeature(id, false)
	}
	*s.(*selectState) = selectState{}
}

func (SimpleSelectMode) OnStop(c *Context, _ State) {
	c.SetCursor(CursorNone)
}

func (SimpleSelectMode) ToDisplayFeatures(c *Context, _ State, f *geojson.Feature, display func(*geojson.Feature)) {
	display(displayCopy(f, c.IsSelected(featureID(f))))
}
