package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/paulmach/orb"
)

// refreshCorners fills the sidebar table with the corners of the current
// square, skipping the closing point.
func (m *Model) refreshCorners() {
	f := m.Shape()
	if f == nil {
		m.tbl.SetRows(nil)
		return
	}
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok || len(poly) == 0 {
		m.tbl.SetRows(nil)
		return
	}
	ring := poly[0]
	if ring.Closed() && len(ring) > 1 {
		ring = ring[:len(ring)-1]
	}
	rows := make([]table.Row, 0, len(ring))
	for i, p := range ring {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.6f", p[0]),
			fmt.Sprintf("%.6f", p[1]),
		})
	}
	m.tbl.SetRows(rows)
}
