package tui

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

const (
	sidebarWidth = 34
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen geometry shared by Update and View.
type layout struct {
	contentWidth  int
	contentHeight int
	mapOriginX    int
	mapOriginY    int
	mapWidth      int
	mapHeight     int
	sidebar       int
}

func (m Model) layout() layout {
	var l layout
	l.contentHeight = max(4, m.height-headerHeight-footerHeight)
	l.contentWidth = max(10, m.width)
	if m.showSidebar {
		l.sidebar = sidebarWidth
	}
	l.mapWidth = l.contentWidth - l.sidebar
	if m.showSidebar {
		l.mapWidth--
	}
	l.mapWidth = max(10, l.mapWidth)
	l.mapHeight = l.contentHeight
	l.mapOriginY = headerHeight
	return l
}

// mapCell converts a terminal position to a cell inside the map, clamped to
// the map. inside is false when the position was outside.
func (l layout) mapCell(x, y int) (cx, cy int, inside bool) {
	cx, cy = x-l.mapOriginX, y-l.mapOriginY
	inside = cx >= 0 && cx < l.mapWidth && cy >= 0 && cy < l.mapHeight
	cx = min(max(cx, 0), l.mapWidth-1)
	cy = min(max(cy, 0), l.mapHeight-1)
	return cx, cy, inside
}
