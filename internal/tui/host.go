package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"geosquare/internal/assets"
	"geosquare/internal/draw"
	"geosquare/internal/geom"
	"geosquare/internal/mapview"
)

// Installers turn the two scripts into the engine basemap and the draw
// plugin manifest.
func Installers() map[string]assets.Installer {
	return map[string]assets.Installer{
		assets.MapScriptID: func(_ assets.Asset, data []byte) (any, error) {
			return geom.LoadBasemap(data)
		},
		assets.DrawScriptID: func(_ assets.Asset, data []byte) (any, error) {
			return draw.ParseManifest(data)
		},
	}
}

// assetsMsg reports the outcome of the bootstrap command.
type assetsMsg struct {
	err error
}

func ensureAssets(b *assets.Bootstrapper, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return assetsMsg{err: b.EnsureAssets(ctx)}
	}
}

// host is the live map with its plugin. Map and draw event handlers write
// into it, so the Model holds it by pointer.
type host struct {
	mp     *mapview.Map
	draw   *draw.Draw
	shapes *draw.ShapeManager
	event  string
}

// buttonControl is a single custom button on the map.
type buttonControl struct {
	label, title string
	onClick      func()
}

func (b *buttonControl) OnAdd(*mapview.Map) mapview.Element {
	return mapview.Element{Buttons: []mapview.Button{{Label: b.label, Title: b.title, OnClick: b.onClick}}}
}

func (b *buttonControl) OnRemove() {}

// startSquare clears every shape and arms the square mode.
func startSquare(d *draw.Draw, logger *slog.Logger) {
	d.DeleteAll()
	if err := d.ChangeMode(draw.ModeDrawSquare, draw.ModeOptions{}); err != nil {
		logger.Error("draw square", "error", err)
	}
}

func shortID(f any) string {
	s := fmt.Sprint(f)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// newHost builds the map, the draw plugin and their controls. The registry
// must hold both globals.
func newHost(reg *assets.Registry, opts Options, c *mapview.Container) (*host, error) {
	logger := opts.Logger
	mp, err := mapview.New(reg, mapview.Options{
		Container: c,
		Style:     assets.MapStylesheetID,
		Center:    opts.Center,
		Zoom:      opts.Zoom,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	mp.AddControl(mapview.NewNavigationControl(), mapview.TopRight)

	modes := draw.Modes()
	modes[draw.ModeDrawSquare] = draw.DrawSquareMode{}
	d, err := draw.New(reg, draw.Options{
		DisplayControlsDefault: false,
		Controls:               map[string]bool{draw.ControlTrash: true},
		Modes:                  modes,
		Logger:                 logger,
	})
	if err != nil {
		return nil, err
	}
	mp.AddControl(d, mapview.TopLeft)

	trigger := d.Manifest().Control(draw.ControlDrawSquare)
	mp.AddControl(&buttonControl{
		label:   trigger.Label,
		title:   trigger.Title,
		onClick: func() { startSquare(d, logger) },
	}, mapview.TopLeft)

	h := &host{mp: mp, draw: d, shapes: draw.NewShapeManager(d, logger)}
	h.shapes.Attach(mp)

	mp.On(mapview.EventLoad, func(mapview.Event) { mp.Resize() })
	mp.On(draw.EventCreate, func(e mapview.Event) {
		fs := e.Data.(draw.FeaturesEvent).Features
		h.event = "created square " + shortID(fs[0].ID)
		logger.Info("square created", "id", fs[0].ID)
	})
	mp.On(draw.EventUpdate, func(e mapview.Event) {
		ev := e.Data.(draw.FeaturesEvent)
		h.event = ev.Action + " square " + shortID(ev.Features[0].ID)
	})
	mp.On(draw.EventDelete, func(e mapview.Event) {
		h.event = fmt.Sprintf("deleted %d shape(s)", len(e.Data.(draw.FeaturesEvent).Features))
	})
	mp.On(draw.EventModeChange, func(e mapview.Event) {
		h.event = "mode: " + e.Data.(draw.ModeChangeEvent).Mode
	})
	mp.Resize()
	return h, nil
}
