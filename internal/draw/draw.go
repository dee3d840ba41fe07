// Package draw is the drawing plugin: an editable feature collection, a
// registry of gesture modes and the square drawing mode built on it.
package draw

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/paulmach/orb/geojson"

	"geosquare/internal/assets"
	"geosquare/internal/geom"
	"geosquare/internal/mapview"
)

const (
	ModeSimpleSelect = "simple_select"
	ModeDrawSquare   = "draw_square"
)

// Events fired on the map the plugin is added to.
const (
	EventCreate          = "draw.create"
	EventUpdate          = "draw.update"
	EventDelete          = "draw.delete"
	EventModeChange      = "draw.modechange"
	EventSelectionChange = "draw.selectionchange"
)

// ActionMove is the draw.update action for a translated feature.
const ActionMove = "move"

// FeaturesEvent is the payload of create, update, delete and selection events.
// Features are copies.
type FeaturesEvent struct {
	Action   string
	Features []*geojson.Feature
}

type ModeChangeEvent struct {
	Mode string
}

var ErrUnknownMode = errors.New("draw: unknown mode")

type Options struct {
	// DisplayControlsDefault enables every built-in control not listed in Controls.
	DisplayControlsDefault bool
	Controls               map[string]bool
	Modes                  map[string]Mode
	DefaultMode            string
	// ClickTolerance in pixels overrides the manifest value when positive.
	ClickTolerance float64
	Logger         *slog.Logger
}

// Modes returns the built-in modes. The map is a fresh copy the caller may
// extend.
func Modes() map[string]Mode {
	return map[string]Mode{
		ModeSimpleSelect: SimpleSelectMode{},
	}
}

type pointer struct {
	down  bool
	touch bool
	start geom.ScreenPoint
	moved bool
}

// Draw is the drawing plugin. It becomes usable once added to a map with
// Map.AddControl. All methods run on the host's event loop.
type Draw struct {
	opts     Options
	manifest *Manifest
	modes    map[string]Mode
	store    *Store
	ctx      *Context
	logger   *slog.Logger

	m    *mapview.Map
	proj Projector

	modeName string
	mode     Mode
	state    State
	cursor   Cursor
	ptr      pointer
}

// New builds the plugin from the draw global installed in reg.
func New(reg *assets.Registry, opts Options) (*Draw, error) {
	v, _ := reg.Global(assets.GlobalDraw)
	manifest, ok := v.(*Manifest)
	if !ok {
		return nil, &mapview.EngineUnavailableError{Global: assets.GlobalDraw}
	}
	d := &Draw{
		opts:     opts,
		manifest: manifest,
		modes:    opts.Modes,
		store:    newStore(),
		logger:   opts.Logger,
	}
	if d.modes == nil {
		d.modes = Modes()
	}
	if d.opts.DefaultMode == "" {
		d.opts.DefaultMode = ModeSimpleSelect
	}
	if _, ok := d.modes[d.opts.DefaultMode]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, d.opts.DefaultMode)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.ctx = &Context{d: d}
	return d, nil
}

func (d *Draw) Manifest() *Manifest { return d.manifest }

func (d *Draw) clickTolerance() float64 {
	switch {
	case d.opts.ClickTolerance > 0:
		return d.opts.ClickTolerance
	case d.manifest.ClickTolerance > 0:
		return d.manifest.ClickTolerance
	default:
		return defaultClickTolerance
	}
}

func (d *Draw) controlEnabled(name string) bool {
	if on, ok := d.opts.Controls[name]; ok {
		return on
	}
	return d.opts.DisplayControlsDefault
}

// OnAdd attaches the plugin to m and starts the default mode.
func (d *Draw) OnAdd(m *mapview.Map) mapview.Element {
	d.m = m
	d.proj = m
	if err := d.changeMode(d.opts.DefaultMode, ModeOptions{}, true); err != nil {
		d.logger.Error("draw: default mode", "error", err)
	}
	var el mapview.Element
	if d.controlEnabled(ControlTrash) {
		c := d.manifest.Control(ControlTrash)
		el.Buttons = append(el.Buttons, mapview.Button{Label: c.Label, Title: c.Title, OnClick: d.Trash})
	}
	return el
}

func (d *Draw) OnRemove() {
	if d.mode != nil {
		prev, st := d.mode, d.state
		d.mode, d.state, d.modeName = nil, nil, ""
		prev.OnStop(d.ctx, st)
	}
	d.m = nil
}

func (d *Draw) fire(name string, data any) {
	if d.m != nil {
		d.m.Fire(name, data)
	}
}

// Mode returns the name of the active mode.
func (d *Draw) Mode() string { return d.modeName }

func (d *Draw) Cursor() Cursor { return d.cursor }

// Anchor is the screen position a square is being drawn from, if any.
func (d *Draw) Anchor() (geom.ScreenPoint, bool) {
	st, ok := d.state.(*SquareState)
	if !ok || d.proj == nil {
		return geom.ScreenPoint{}, false
	}
	return st.anchorPoint(d.proj)
}

// Version changes whenever the display features may have changed.
func (d *Draw) Version() uint64 { return d.store.Version() }

// ChangeMode switches modes. Re-selecting the current selection in
// simple_select is a no-op; any other call restarts the target mode.
func (d *Draw) ChangeMode(name string, opts ModeOptions) error {
	if name == ModeSimpleSelect && d.modeName == ModeSimpleSelect {
		if !slices.Equal(opts.FeatureIDs, d.store.selectedIDs()) {
			d.store.setSelected(opts.FeatureIDs...)
		}
		return nil
	}
	return d.changeMode(name, opts, true)
}

func (d *Draw) changeMode(name string, opts ModeOptions, silent bool) error {
	mode, ok := d.modes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	if d.proj == nil {
		return errors.New("draw: not added to a map")
	}
	if d.mode != nil {
		prev, st := d.mode, d.state
		d.mode, d.state = nil, nil
		prev.OnStop(d.ctx, st)
	}
	d.modeName = name
	d.mode = mode
	d.state = mode.OnSetup(d.ctx, opts)
	d.store.changed()
	d.logger.Debug("draw mode", "mode", name)
	if !silent {
		d.fire(EventModeChange, ModeChangeEvent{Mode: name})
	}
	return nil
}

func (d *Draw) setSelected(ids ...string) {
	before := d.store.selectedIDs()
	d.store.setSelected(ids...)
	after := d.store.selectedIDs()
	if slices.Equal(before, after) {
		return
	}
	var fs []*geojson.Feature
	for _, id := range after {
		fs = append(fs, d.store.get(id))
	}
	d.fire(EventSelectionChange, FeaturesEvent{Features: clones(fs)})
}

// SelectedIDs lists selected feature ids in collection order.
func (d *Draw) SelectedIDs() []string { return d.store.selectedIDs() }

// GetAll returns a copy of the collection in order.
func (d *Draw) GetAll() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range d.store.all() {
		fc.Append(cloneFeature(f))
	}
	return fc
}

// Get returns a copy of one feature, or nil.
func (d *Draw) Get(id string) *geojson.Feature {
	f := d.store.get(id)
	if f == nil {
		return nil
	}
	return cloneFeature(f)
}

// Shape returns a copy of the newest feature holding a valid square, or nil.
// An unfinished square is never returned.
func (d *Draw) Shape() *geojson.Feature {
	for _, f := range slices.Backward(d.store.all()) {
		if ValidSquare(f.Geometry) {
			return cloneFeature(f)
		}
	}
	return nil
}

// Delete removes features without firing events.
func (d *Draw) Delete(ids ...string) {
	d.store.remove(ids...)
}

// DeleteAll empties the collection without firing events.
func (d *Draw) DeleteAll() {
	d.store.remove(d.store.ids()...)
}

// Trash asks the active mode to discard what it is working on.
func (d *Draw) Trash() {
	if d.mode != nil {
		d.mode.OnTrash(d.ctx, d.state)
	}
}

// DisplayFeatures renders the collection through the active mode.
func (d *Draw) DisplayFeatures() []*geojson.Feature {
	var out []*geojson.Feature
	push := func(f *geojson.Feature) { out = append(out, f) }
	for _, f := range d.store.all() {
		if d.mode == nil {
			push(displayCopy(f, false))
			continue
		}
		d.mode.ToDisplayFeatures(d.ctx, d.state, f, push)
	}
	return out
}

type hook func(Mode, *Context, State, Event)

func (d *Draw) dispatch(h hook, p geom.ScreenPoint) {
	if d.mode == nil {
		return
	}
	h(d.mode, d.ctx, d.state, Event{Point: p, LngLat: d.proj.Unproject(p)})
}

func (d *Draw) track(p geom.ScreenPoint) {
	tol := d.clickTolerance()
	if p.Dist2(d.ptr.start) > tol*tol {
		d.ptr.moved = true
	}
}

// MouseDown handles a primary button press at p.
func (d *Draw) MouseDown(p geom.ScreenPoint) {
	d.ptr = pointer{down: true, start: p}
	d.dispatch(Mode.OnMouseDown, p)
}

// MouseMove handles pointer motion; with the button held it is a drag.
func (d *Draw) MouseMove(p geom.ScreenPoint) {
	if d.ptr.down && !d.ptr.touch {
		d.track(p)
		d.dispatch(Mode.OnDrag, p)
		return
	}
	d.dispatch(Mode.OnMouseMove, p)
}

// MouseUp handles the release. A release within the click tolerance of its
// press, with no drag beyond it, is delivered as a click.
func (d *Draw) MouseUp(p geom.ScreenPoint) {
	if !d.ptr.down {
		d.dispatch(Mode.OnMouseUp, p)
		return
	}
	d.track(p)
	click := !d.ptr.moved
	d.ptr = pointer{}
	if click {
		d.dispatch(Mode.OnClick, p)
		return
	}
	d.dispatch(Mode.OnMouseUp, p)
}

func (d *Draw) TouchStart(p geom.ScreenPoint) {
	d.ptr = pointer{down: true, touch: true, start: p}
	d.dispatch(Mode.OnTouchStart, p)
}

func (d *Draw) TouchMove(p geom.ScreenPoint) {
	d.track(p)
	d.dispatch(Mode.OnTouchMove, p)
}

func (d *Draw) TouchEnd(p geom.ScreenPoint) {
	d.ptr = pointer{}
	d.dispatch(Mode.OnTouchEnd, p)
}
