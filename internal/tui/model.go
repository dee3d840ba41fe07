package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geosquare/internal/assets"
	"geosquare/internal/mapview"
)

// Options configure the map host.
type Options struct {
	Bootstrapper *assets.Bootstrapper
	Center       orb.Point
	Zoom         float64
	// Timeout bounds the whole asset bootstrap.
	Timeout time.Duration
	Logger  *slog.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool

	status string
	failed bool

	opts      Options
	loading   bool
	spinner   spinner.Model
	keys      keyMap
	help      help.Model
	theme     theme
	container *mapview.Container
	host      *host

	// button pressed on the map; its release is swallowed
	pressedButton bool

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverVertex bool
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// corner table
	tbl table.Model
}

func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := Model{
		status:    "loading map assets",
		opts:      opts,
		loading:   true,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:      defaultKeys(),
		help:      help.New(),
		theme:     defaultTheme(),
		container: &mapview.Container{},
	}
	m.spinner.Style = titleStyle
	m.tbl = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "lon", Width: 12},
			{Title: "lat", Width: 12},
		}),
		table.WithHeight(6),
	)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, ensureAssets(m.opts.Bootstrapper, m.opts.Timeout))
}

// Shape returns the drawn square, if one exists.
func (m Model) Shape() *geojson.Feature {
	if m.host == nil {
		return nil
	}
	return m.host.draw.Shape()
}

// Failed reports whether map initialisation failed.
func (m Model) Failed() bool { return m.failed }
