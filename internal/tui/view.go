package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	header := m.theme.title.Render(" geosquare ─ draw a square on the map ")
	header = lipgloss.NewStyle().Width(l.contentWidth).Render(header)

	var mapView string
	switch {
	case m.loading:
		mapView = lipgloss.Place(l.mapWidth, l.mapHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" loading map assets")
	case m.host == nil:
		mapView = lipgloss.Place(l.mapWidth, l.mapHeight, lipgloss.Center, lipgloss.Center,
			errStyle.Render(m.status))
	default:
		mapView = lipgloss.NewStyle().Width(l.mapWidth).Height(l.mapHeight).
			Render(m.renderMap(l.mapWidth, l.mapHeight))
	}

	body := mapView
	if m.showSidebar {
		side := m.renderSidebar(l)
		body = lipgloss.JoinHorizontal(lipgloss.Top, mapView, " ", side)
	}

	// Footer: status and help on the left, pointer coordinates on the right
	status := m.theme.dim.Render(" " + m.status + " ")
	if m.failed {
		status = errStyle.Render(" " + m.status + " ")
	}
	m.help.Width = max(0, l.contentWidth-lipgloss.Width(status))
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.help.View(m.keys))
	coords := ""
	if m.hoverHasGeo {
		coords = m.theme.dim.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	spacerW := max(0, l.contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(l.contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(l.contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderSidebar(l layout) string {
	title := m.theme.title.Render("corners")
	var content string
	if len(m.tbl.Rows()) == 0 {
		content = m.theme.dim.Render("no square yet\npress s or click □")
	} else {
		m.tbl.SetWidth(l.sidebar - 4)
		m.tbl.SetHeight(min(l.contentHeight-4, 6))
		content = m.tbl.View()
	}
	mode := ""
	if m.host != nil {
		mode = m.theme.dim.Render("mode: " + m.host.draw.Mode())
	}
	inner := lipgloss.JoinVertical(lipgloss.Left, title, content, mode)
	return m.theme.box.Width(l.sidebar - 2).Height(l.contentHeight - 2).Render(inner)
}
