package mapview

import (
	"github.com/charmbracelet/lipgloss"

	"geosquare/internal/geom"
)

type Position string

const (
	TopLeft     Position = "top-left"
	TopRight    Position = "top-right"
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
)

// Button is one clickable cell run inside a control group.
type Button struct {
	Label   string
	Title   string
	OnClick func()
}

// Element is what a control contributes to the map surface.
type Element struct {
	Buttons []Button
}

// Control is anything that can be mounted on a map.
type Control interface {
	OnAdd(m *Map) Element
	OnRemove()
}

type mountedControl struct {
	control Control
	pos     Position
	el      Element
}

// PlacedButton is a button with its cell rectangle relative to the map.
type PlacedButton struct {
	Button
	X, Y, W int
}

// Text is the rendered form of the button.
func (b PlacedButton) Text() string { return "[" + b.Label + "]" }

// AddControl mounts c at pos. Groups at the same corner stack toward the
// middle of the map in the order they were added.
func (m *Map) AddControl(c Control, pos Position) {
	el := c.OnAdd(m)
	m.controls = append(m.controls, &mountedControl{control: c, pos: pos, el: el})
}

// RemoveControl unmounts c.
func (m *Map) RemoveControl(c Control) {
	for i, mc := range m.controls {
		if mc.control == c {
			m.controls = append(m.controls[:i], m.controls[i+1:]...)
			c.OnRemove()
			return
		}
	}
}

// Buttons lays out every mounted button.
func (m *Map) Buttons() []PlacedButton {
	var out []PlacedButton
	rowsUsed := map[Position]int{}
	for _, mc := range m.controls {
		for _, b := range mc.el.Buttons {
			pb := PlacedButton{Button: b}
			pb.W = lipgloss.Width(pb.Text())
			n := rowsUsed[mc.pos]
			rowsUsed[mc.pos] = n + 1
			switch mc.pos {
			case TopRight:
				pb.X, pb.Y = m.cols-pb.W, n
			case BottomLeft:
				pb.X, pb.Y = 0, m.rows-1-n
			case BottomRight:
				pb.X, pb.Y = m.cols-pb.W, m.rows-1-n
			default:
				pb.X, pb.Y = 0, n
			}
			out = append(out, pb)
		}
	}
	return out
}

// ButtonAt returns the button covering the given cell.
func (m *Map) ButtonAt(col, row int) (PlacedButton, bool) {
	for _, b := range m.Buttons() {
		if row == b.Y && col >= b.X && col < b.X+b.W {
			return b, true
		}
	}
	return PlacedButton{}, false
}

// NavigationControl offers zoom in and zoom out buttons.
type NavigationControl struct {
	m *Map
}

func NewNavigationControl() *NavigationControl { return &NavigationControl{} }

func (n *NavigationControl) OnAdd(m *Map) Element {
	n.m = m
	return Element{Buttons: []Button{
		{Label: "+", Title: "Zoom in", OnClick: func() { n.m.ZoomBy(2, n.m.ViewCenter()) }},
		{Label: "-", Title: "Zoom out", OnClick: func() { n.m.ZoomBy(0.5, n.m.ViewCenter()) }},
	}}
}

func (n *NavigationControl) OnRemove() { n.m = nil }

// CellCenter converts a cell position inside the map to the pixel at its center.
func CellCenter(col, row int) geom.ScreenPoint {
	return geom.ScreenPoint{X: float64(col*2) + 1, Y: float64(row*4) + 2}
}
