package assets

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Installer turns a loaded script into the global it provides.
type Installer func(a Asset, data []byte) (any, error)

// Bootstrapper loads a Set into a Registry.
type Bootstrapper struct {
	Registry   *Registry
	Loader     Loader
	Assets     Set
	Installers map[string]Installer // keyed by asset ID
	Logger     *slog.Logger
}

func (b *Bootstrapper) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// EnsureAssets returns once the engine and draw globals are installed.
//
// With both globals already present it returns immediately and loads nothing.
// Otherwise both stylesheets are injected concurrently, then the engine
// script, then the draw script; a script whose global is present is skipped.
// Stylesheet failures are logged and ignored. A script failure is returned as
// *AssetLoadError and is not retried, including by later calls.
func (b *Bootstrapper) EnsureAssets(ctx context.Context) error {
	reg := b.Registry
	if reg.HasGlobal(b.Assets.MapJS.Global) && reg.HasGlobal(b.Assets.DrawJS.Global) {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, css := range []Asset{b.Assets.MapCSS, b.Assets.DrawCSS} {
		g.Go(func() error {
			b.injectStylesheet(gctx, css)
			return nil
		})
	}
	_ = g.Wait()

	if !reg.HasGlobal(b.Assets.MapJS.Global) {
		if err := b.injectScript(ctx, b.Assets.MapJS); err != nil {
			return err
		}
	}
	if !reg.HasGlobal(b.Assets.DrawJS.Global) {
		if err := b.injectScript(ctx, b.Assets.DrawJS); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrapper) injectStylesheet(ctx context.Context, a Asset) {
	el, owner := b.Registry.claim(a)
	if !owner {
		return
	}
	data, err := b.Loader.Load(ctx, a)
	b.Registry.settle(el, data, nil, err)
	if err != nil {
		b.logger().Warn("stylesheet unavailable, using defaults", "id", a.ID, "url", a.URL, "error", err)
		return
	}
	b.logger().Debug("stylesheet loaded", "id", a.ID, "bytes", len(data))
}

func (b *Bootstrapper) injectScript(ctx context.Context, a Asset) error {
	el, owner := b.Registry.claim(a)
	if !owner {
		select {
		case <-el.done:
		case <-ctx.Done():
			return &AssetLoadError{ID: a.ID, URL: a.URL, Err: ctx.Err()}
		}
		if el.err != nil {
			return &AssetLoadError{ID: a.ID, URL: a.URL, Err: el.err}
		}
		return nil
	}

	data, err := b.Loader.Load(ctx, a)
	var global any
	if err == nil {
		global, err = b.install(a, data)
	}
	b.Registry.settle(el, data, global, err)
	if err != nil {
		return &AssetLoadError{ID: a.ID, URL: a.URL, Err: err}
	}
	b.logger().Info("script loaded", "id", a.ID, "global", a.Global, "bytes", len(data))
	return nil
}

func (b *Bootstrapper) install(a Asset, data []byte) (any, error) {
	inst, ok := b.Installers[a.ID]
	if !ok {
		return data, nil
	}
	v, err := inst(a, data)
	if err != nil {
		return nil, fmt.Errorf("install %s: %w", a.Global, err)
	}
	return v, nil
}
