package draw

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geosquare/internal/geom"
)

// Event is a pointer event already resolved against the map view.
type Event struct {
	Point  geom.ScreenPoint
	LngLat orb.Point
}

// ModeOptions are passed to Mode.OnSetup.
type ModeOptions struct {
	FeatureIDs []string
}

// State is the per-activation state a mode returns from OnSetup. Draw hands
// the same value back to every hook until the mode stops.
type State any

// Mode is a drawing mode. Draw calls exactly one hook per pointer event and
// never calls a hook after OnStop.
type Mode interface {
	OnSetup(c *Context, opts ModeOptions) State
	OnMouseDown(c *Context, s State, e Event)
	OnTouchStart(c *Context, s State, e Event)
	OnDrag(c *Context, s State, e Event)
	OnMouseMove(c *Context, s State, e Event)
	OnTouchMove(c *Context, s State, e Event)
	OnMouseUp(c *Context, s State, e Event)
	OnTouchEnd(c *Context, s State, e Event)
	OnClick(c *Context, s State, e Event)
	OnStop(c *Context, s State)
	OnTrash(c *Context, s State)
	// ToDisplayFeatures decides how f is rendered while the mode is active;
	// display may be called zero or more times.
	ToDisplayFeatures(c *Context, s State, f *geojson.Feature, display func(*geojson.Feature))
}

// Cursor is the pointer affordance a mode asks the host to show.
type Cursor string

const (
	CursorNone    Cursor = ""
	CursorAdd     Cursor = "add"
	CursorPointer Cursor = "pointer"
	CursorMove    Cursor = "move"
)

// Display feature properties.
const (
	PropActive  = "active"
	PropMeta    = "meta"
	MetaFeature = "feature"
)

// Context is the view of a Draw instance handed to modes.
type Context struct {
	d *Draw
}

// NewFeature returns an unsaved polygon feature with an empty ring and a
// fresh id.
func (c *Context) NewFeature() *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{orb.Ring{}})
	f.ID = uuid.NewString()
	return f
}

func (c *Context) AddFeature(f *geojson.Feature) { c.d.store.add(f) }

func (c *Context) GetFeature(id string) *geojson.Feature { return c.d.store.get(id) }

// DeleteFeature removes a feature; unless silent a draw.delete event fires.
func (c *Context) DeleteFeature(id string, silent bool) {
	removed := c.d.store.remove(id)
	if !silent && len(removed) > 0 {
		c.d.fire(EventDelete, FeaturesEvent{Features: clones(removed)})
	}
}

// SetGeometry overwrites a feature's geometry in place.
func (c *Context) SetGeometry(id string, g orb.Geometry) bool {
	return c.d.store.setGeometry(id, g)
}

func (c *Context) ClearSelectedFeatures() { c.d.setSelected() }

func (c *Context) SetSelected(ids ...string) { c.d.setSelected(ids...) }

func (c *Context) IsSelected(id string) bool { return c.d.store.isSelected(id) }

func (c *Context) SelectedIDs() []string { return c.d.store.selectedIDs() }

// Features returns the collection in order. The features are live.
func (c *Context) Features() []*geojson.Feature { return c.d.store.all() }

func (c *Context) SetCursor(cur Cursor) { c.d.cursor = cur }

// ChangeMode stops the current mode and starts name. The calling hook must
// not touch its state afterwards.
func (c *Context) ChangeMode(name string, opts ModeOptions) {
	if err := c.d.changeMode(name, opts, false); err != nil {
		c.d.logger.Error("mode change failed", "mode", name, "error", err)
	}
}

func (c *Context) Project(p orb.Point) geom.ScreenPoint { return c.d.proj.Project(p) }

func (c *Context) Unproject(s geom.ScreenPoint) orb.Point { return c.d.proj.Unproject(s) }

func (c *Context) FireCreate(fs ...*geojson.Feature) {
	c.d.fire(EventCreate, FeaturesEvent{Features: clones(fs)})
}

func (c *Context) FireUpdate(action string, fs ...*geojson.Feature) {
	c.d.fire(EventUpdate, FeaturesEvent{Action: action, Features: clones(fs)})
}

func clones(fs []*geojson.Feature) []*geojson.Feature {
	out := make([]*geojson.Feature, len(fs))
	for i, f := range fs {
		out[i] = cloneFeature(f)
	}
	return out
}

// displayCopy copies f with the standard display properties set.
func displayCopy(f *geojson.Feature, active bool) *geojson.Feature {
	c := cloneFeature(f)
	c.Properties[PropMeta] = MetaFeature
	if active {
		c.Properties[PropActive] = "true"
	} else {
		c.Properties[PropActive] = "false"
	}
	return c
}
