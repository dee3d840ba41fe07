package geom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKTBasemap parses a WKT geometry (POINT, LINESTRING, POLYGON, their MULTI
// forms or a GEOMETRYCOLLECTION) into a Basemap.
func ParseWKTBasemap(s string) (*Basemap, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty wkt")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("wkt: %w", err)
	}
	return NewBasemap(g)
}

// LoadBasemap picks the GeoJSON or WKT reader based on the first byte of data.
func LoadBasemap(data []byte) (*Basemap, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseBasemap(trimmed)
	}
	return ParseWKTBasemap(string(trimmed))
}

// WKT renders g as well-known text.
func WKT(g orb.Geometry) string {
	return wkt.MarshalString(g)
}
