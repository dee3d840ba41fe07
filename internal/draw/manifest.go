package draw

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Control names understood by the plugin manifest.
const (
	ControlTrash      = "trash"
	ControlDrawSquare = "draw_square"
)

const defaultClickTolerance = 2

type ControlManifest struct {
	Label string `json:"label"`
	Title string `json:"title"`
}

// Manifest is the draw plugin script: version, pointer tuning and the labels
// of the controls it offers.
type Manifest struct {
	Version        string                     `json:"version"`
	ClickTolerance float64                    `json:"click_tolerance"`
	Controls       map[string]ControlManifest `json:"controls"`
}

// ParseManifest decodes the plugin script installed as the draw global.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("draw manifest: %w", err)
	}
	if m.Version == "" {
		return nil, errors.New("draw manifest: missing version")
	}
	if m.ClickTolerance < 0 {
		return nil, fmt.Errorf("draw manifest: negative click_tolerance %v", m.ClickTolerance)
	}
	return &m, nil
}

// Control returns the labels for a control, falling back to its name.
func (m *Manifest) Control(name string) ControlManifest {
	if m != nil {
		if c, ok := m.Controls[name]; ok && c.Label != "" {
			return c
		}
	}
	return ControlManifest{Label: name, Title: name}
}
