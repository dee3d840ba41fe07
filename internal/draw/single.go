package draw

import (
	"log/slog"

	"geosquare/internal/mapview"
)

// ShapeManager keeps at most one feature in a Draw collection. On every
// create or update it deletes everything but the last feature in collection
// order. Features are only ever appended and updates never reorder, so the
// last feature is the newest.
type ShapeManager struct {
	draw     *Draw
	trimming bool
	logger   *slog.Logger
}

func NewShapeManager(d *Draw, logger *slog.Logger) *ShapeManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShapeManager{draw: d, logger: logger}
}

// Attach subscribes the manager to the map's create and update events.
func (s *ShapeManager) Attach(m *mapview.Map) {
	m.On(EventCreate, s.handle)
	m.On(EventUpdate, s.handle)
}

func (s *ShapeManager) handle(mapview.Event) { s.Trim() }

// Trim deletes all but the last feature. Re-entrant calls are dropped.
func (s *ShapeManager) Trim() {
	if s.trimming {
		return
	}
	s.trimming = true
	defer func() { s.trimming = false }()

	all := s.draw.GetAll().Features
	if len(all) <= 1 {
		return
	}
	ids := make([]string, 0, len(all)-1)
	for _, f := range all[:len(all)-1] {
		ids = append(ids, featureID(f))
	}
	s.draw.Delete(ids...)
	s.logger.Debug("trimmed shapes", "deleted", len(ids), "kept", featureID(all[len(all)-1]))
}
