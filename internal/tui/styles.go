package tui

import (
	"encoding/json"

	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// mapTheme is the map stylesheet asset.
type mapTheme struct {
	Foreground        string `json:"foreground"`
	Dim               string `json:"dim"`
	Accent            string `json:"accent"`
	Border            string `json:"border"`
	Basemap           string `json:"basemap"`
	Hover             string `json:"hover"`
	Control           string `json:"control"`
	ControlBackground string `json:"control_background"`
}

// drawTheme is the draw stylesheet asset.
type drawTheme struct {
	Polygon       string `json:"polygon"`
	PolygonActive string `json:"polygon_active"`
	Vertex        string `json:"vertex"`
}

type theme struct {
	layers map[layer]lipgloss.Style
	title  lipgloss.Style
	dim    lipgloss.Style
	box    lipgloss.Style
}

func defaultTheme() theme {
	t, _ := buildTheme(nil, nil)
	return t
}

// buildTheme overlays the stylesheet colours on the defaults. Missing or
// malformed stylesheets leave the defaults in place; the returned error is
// only for logging.
func buildTheme(mapCSS, drawCSS []byte) (theme, error) {
	mt := mapTheme{
		Foreground:        "#E6E6E6",
		Dim:               "#6B7280",
		Accent:            "#7C3AED",
		Border:            "#243141",
		Basemap:           "#4B5563",
		Hover:             "#FFA500",
		Control:           "#E6E6E6",
		ControlBackground: "#243141",
	}
	dt := drawTheme{Polygon: "#3BB2D0", PolygonActive: "#FBB03B", Vertex: "#FFFFFF"}

	var err error
	if len(mapCSS) > 0 {
		if e := json.Unmarshal(mapCSS, &mt); e != nil {
			err = e
		}
	}
	if len(drawCSS) > 0 {
		if e := json.Unmarshal(drawCSS, &dt); e != nil && err == nil {
			err = e
		}
	}

	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	t := theme{
		layers: map[layer]lipgloss.Style{
			layerNone:        fg(mt.Foreground),
			layerBasemap:     fg(mt.Basemap),
			layerShape:       fg(dt.Polygon),
			layerShapeActive: fg(dt.PolygonActive),
			layerVertex:      fg(dt.Vertex).Bold(true),
			layerHover:       fg(mt.Hover),
			layerCursor:      fg(mt.Accent).Bold(true),
			layerControl: lipgloss.NewStyle().
				Foreground(lipgloss.Color(mt.Control)).
				Background(lipgloss.Color(mt.ControlBackground)),
		},
		title: titleStyle.Foreground(lipgloss.Color(mt.Accent)),
		dim:   dimStyle.Foreground(lipgloss.Color(mt.Dim)),
		box:   boxStyle.BorderForeground(lipgloss.Color(mt.Border)),
	}
	return t, err
}
