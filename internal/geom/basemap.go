package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	vertexTolerance = 1e-7
	minChildren     = 25
	maxChildren     = 50
)

// vertex wraps a basemap coordinate for the R-tree.
type vertex struct {
	p orb.Point
}

func (v vertex) Bounds() rtreego.Rect {
	return rtreego.Point{v.p[0], v.p[1]}.ToRect(vertexTolerance)
}

// Basemap is the vector outline drawn under the editable shapes, plus a
// vertex index used for hover lookups.
type Basemap struct {
	Data
	index *rtreego.Rtree
}

// ParseBasemap reads a GeoJSON document (FeatureCollection, Feature or bare
// geometry) into a Basemap.
func ParseBasemap(data []byte) (*Basemap, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("basemap: %w", err)
	}
	var geoms []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("basemap: %w", err)
		}
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geoms = append(geoms, f.Geometry)
			}
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("basemap: %w", err)
		}
		if f.Geometry != nil {
			geoms = append(geoms, f.Geometry)
		}
	case "":
		return nil, errors.New("basemap: missing geojson type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("basemap: %w", err)
		}
		geoms = append(geoms, g.Geometry())
	}
	return NewBasemap(geoms...)
}

// NewBasemap flattens geometries into drawable parts and indexes their vertices.
func NewBasemap(geoms ...orb.Geometry) (*Basemap, error) {
	b := &Basemap{}
	var bound orb.Bound
	seen := false
	var verts []rtreego.Spatial
	addPt := func(p orb.Point) {
		if !seen {
			bound = p.Bound()
			seen = true
		} else {
			bound = bound.Extend(p)
		}
		verts = append(verts, vertex{p: p})
	}
	var walk func(g orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			b.Points = append(b.Points, g)
			addPt(g)
		case orb.MultiPoint:
			for _, p := range g {
				walk(p)
			}
		case orb.LineString:
			b.Lines = append(b.Lines, g)
			for _, p := range g {
				addPt(p)
			}
		case orb.MultiLineString:
			for _, ls := range g {
				walk(ls)
			}
		case orb.Ring:
			walk(orb.Polygon{g})
		case orb.Bound:
			walk(g.ToPolygon())
		case orb.Polygon:
			b.Polygons = append(b.Polygons, g)
			for _, ring := range g {
				for _, p := range ring {
					addPt(p)
				}
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				walk(poly)
			}
		case orb.Collection:
			for _, c := range g {
				walk(c)
			}
		}
	}
	for _, g := range geoms {
		walk(g)
	}
	if !seen {
		return nil, errors.New("basemap: no coordinates")
	}
	b.BBox = bboxFromBound(bound)
	b.index = rtreego.NewTree(2, minChildren, maxChildren, verts...)
	return b, nil
}

// NearestVertex returns the basemap vertex closest to p.
func (b *Basemap) NearestVertex(p orb.Point) (orb.Point, bool) {
	if b == nil || b.index == nil || b.index.Size() == 0 {
		return orb.Point{}, false
	}
	v, ok := b.index.NearestNeighbor(rtreego.Point{p[0], p[1]}).(vertex)
	if !ok {
		return orb.Point{}, false
	}
	return v.p, true
}

// VertexCount is the number of indexed coordinates.
func (b *Basemap) VertexCount() int {
	if b == nil || b.index == nil {
		return 0
	}
	return b.index.Size()
}
