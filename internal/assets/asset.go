// Package assets makes sure the map engine and draw plugin resources are
// present before a map is constructed.
//
// An asset is injected at most once per Registry, keyed by its stable
// identifier. Stylesheets are best-effort theme files; scripts install a
// named global (the engine basemap or the draw plugin manifest) and are
// required.
package assets

// Kind separates best-effort stylesheets from required scripts.
type Kind int

const (
	Stylesheet Kind = iota
	Script
)

func (k Kind) String() string {
	switch k {
	case Stylesheet:
		return "stylesheet"
	case Script:
		return "script"
	default:
		return "unknown"
	}
}

// Logical identifiers, stable across hosts sharing a Registry.
const (
	MapStylesheetID  = "geosquare-map-css"
	DrawStylesheetID = "geosquare-draw-css"
	MapScriptID      = "geosquare-map-js"
	DrawScriptID     = "geosquare-draw-js"
)

// Globals installed by the two scripts.
const (
	GlobalEngine = "engine"
	GlobalDraw   = "draw"
)

// Default asset locations. Remote URLs are versioned so the disk cache never
// serves a stale copy under a new release.
const (
	DefaultMapStylesheetURL  = "builtin:map-theme.json"
	DefaultDrawStylesheetURL = "builtin:draw-theme.json"
	DefaultMapScriptURL      = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/v5.1.2/geojson/ne_110m_admin_0_countries.geojson"
	DefaultDrawScriptURL     = "builtin:draw-plugin.json"
)

type Asset struct {
	ID     string
	URL    string
	Kind   Kind
	Global string // name installed on load; scripts only
}

// Set is the four resources a map host needs.
type Set struct {
	MapCSS  Asset
	DrawCSS Asset
	MapJS   Asset
	DrawJS  Asset
}

// NewSet builds the asset set from the four locations.
func NewSet(mapCSS, drawCSS, mapJS, drawJS string) Set {
	return Set{
		MapCSS:  Asset{ID: MapStylesheetID, URL: mapCSS, Kind: Stylesheet},
		DrawCSS: Asset{ID: DrawStylesheetID, URL: drawCSS, Kind: Stylesheet},
		MapJS:   Asset{ID: MapScriptID, URL: mapJS, Kind: Script, Global: GlobalEngine},
		DrawJS:  Asset{ID: DrawScriptID, URL: drawJS, Kind: Script, Global: GlobalDraw},
	}
}

func DefaultSet() Set {
	return NewSet(DefaultMapStylesheetURL, DefaultDrawStylesheetURL, DefaultMapScriptURL, DefaultDrawScriptURL)
}
