package draw

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geosquare/internal/geom"
)

type squarePhase int

const (
	// phaseArmed: waiting for the first press or click.
	phaseArmed squarePhase = iota
	// phaseDragging: anchored by a press, the square follows the pointer.
	phaseDragging
	// phasePlacing: anchored by a click, the next click finishes.
	phasePlacing
)

func (p squarePhase) String() string {
	switch p {
	case phaseArmed:
		return "armed"
	case phaseDragging:
		return "dragging"
	case phasePlacing:
		return "placing"
	default:
		return "unknown"
	}
}

// SquareState is the gesture state of one DrawSquareMode activation.
type SquareState struct {
	Anchor    *orb.Point
	Active    bool
	FeatureID string
	phase     squarePhase
}

// DrawSquareMode draws one axis-aligned square by drag or by two clicks.
type DrawSquareMode struct{}

var _ Mode = DrawSquareMode{}

func (DrawSquareMode) OnSetup(c *Context, _ ModeOptions) State {
	f := c.NewFeature()
	c.AddFeature(f)
	c.ClearSelectedFeatures()
	c.SetCursor(CursorAdd)
	return &SquareState{FeatureID: featureID(f), phase: phaseArmed}
}

func (m DrawSquareMode) OnMouseDown(c *Context, s State, e Event) { m.anchor(c, s.(*SquareState), e) }

func (m DrawSquareMode) OnTouchStart(c *Context, s State, e Event) { m.anchor(c, s.(*SquareState), e) }

func (DrawSquareMode) anchor(c *Context, st *SquareState, e Event) {
	if c.GetFeature(st.FeatureID) == nil {
		return
	}
	st.Active = true
	if st.phase == phasePlacing {
		return
	}
	p := e.LngLat
	st.Anchor = &p
	st.phase = phaseDragging
}

func (m DrawSquareMode) OnDrag(c *Context, s State, e Event) { m.update(c, s.(*SquareState), e) }

func (m DrawSquareMode) OnMouseMove(c *Context, s State, e Event) { m.update(c, s.(*SquareState), e) }

func (m DrawSquareMode) OnTouchMove(c *Context, s State, e Event) { m.update(c, s.(*SquareState), e) }

func (DrawSquareMode) update(c *Context, st *SquareState, e Event) {
	if st.Anchor == nil {
		return
	}
	ring := ComputeSquare(c, c.Project(*st.Anchor), e.Point)
	c.SetGeometry(st.FeatureID, orb.Polygon{ring})
}

func (m DrawSquareMode) OnMouseUp(c *Context, s State, e Event) { m.finish(c, s.(*SquareState), e) }

func (m DrawSquareMode) OnTouchEnd(c *Context, s State, e Event) { m.finish(c, s.(*SquareState), e) }

// OnClick anchors on the first click and finishes on the second.
func (m DrawSquareMode) OnClick(c *Context, s State, e Event) {
	st := s.(*SquareState)
	switch st.phase {
	case phaseArmed, phaseDragging:
		// Draw always delivers a press first, so armed is only seen from
		// hosts that synthesize clicks without one.
		if st.phase == phaseArmed {
			p := e.LngLat
			st.Anchor = &p
		}
		st.phase = phasePlacing
		st.Active = true
		m.update(c, st, e)
	case phasePlacing:
		m.finish(c, st, e)
	}
}

func (m DrawSquareMode) finish(c *Context, st *SquareState, e Event) {
	if st.Anchor == nil {
		return
	}
	m.update(c, st, e)
	st.Active = false
	c.ChangeMode(ModeSimpleSelect, ModeOptions{FeatureIDs: []string{st.FeatureID}})
}

func (DrawSquareMode) OnTrash(c *Context, s State) {
	st := s.(*SquareState)
	c.DeleteFeature(st.FeatureID, true)
	c.ChangeMode(ModeSimpleSelect, ModeOptions{})
}

// OnStop keeps a valid square and announces it; anything else is dropped.
func (DrawSquareMode) OnStop(c *Context, s State) {
	st := s.(*SquareState)
	c.SetCursor(CursorNone)
	f := c.GetFeature(st.FeatureID)
	if f == nil {
		return
	}
	if !ValidSquare(f.Geometry) {
		c.DeleteFeature(st.FeatureID, true)
		c.d.logger.Debug("discarding degenerate square", "id", st.FeatureID, "phase", st.phase)
		return
	}
	c.FireCreate(f)
}

func (DrawSquareMode) ToDisplayFeatures(c *Context, s State, f *geojson.Feature, display func(*geojson.Feature)) {
	st := s.(*SquareState)
	if featureID(f) != st.FeatureID {
		display(displayCopy(f, false))
		return
	}
	if poly, ok := f.Geometry.(orb.Polygon); !ok || len(poly) == 0 || len(poly[0]) == 0 {
		return
	}
	display(displayCopy(f, true))
}

// anchorPoint is the anchor in screen space, for hosts drawing a marker.
func (st *SquareState) anchorPoint(p Projector) (geom.ScreenPoint, bool) {
	if st.Anchor == nil {
		return geom.ScreenPoint{}, false
	}
	return p.Project(*st.Anchor), true
}
