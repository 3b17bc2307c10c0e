// Package vector provides the minimal feature-layer model the raster core
// needs: identified polygon features, a GeoJSON reader, and a call-scoped
// read cache owned by the driver.
//
// Feature coordinates are interpreted in raster pixel space. Coordinate
// reprojection is out of scope; callers align their layers to the raster
// grid before handing them in.
package vector

import (
	"encoding/json"
	"fmt"
	"os"
)

// Point is a 2-D coordinate in raster pixel space.
type Point struct {
	X float64
	Y float64
}

// Feature is one identified polygon: an ID and its outer ring.
type Feature struct {
	ID   string
	Ring []Point
}

// Bounds returns the feature's axis-aligned bounding box.
func (f Feature) Bounds() (min, max Point) {
	if len(f.Ring) == 0 {
		return Point{}, Point{}
	}
	min, max = f.Ring[0], f.Ring[0]
	for _, p := range f.Ring[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Contains reports whether the point lies inside the feature's outer ring,
// using even-odd ray casting.
func (f Feature) Contains(p Point) bool {
	inside := false
	n := len(f.Ring)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := f.Ring[i], f.Ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Layer is a collection of features read from one file.
type Layer struct {
	Path     string
	Features []Feature
}

// geoJSON mirrors the subset of the GeoJSON FeatureCollection schema the
// reader understands: Polygon geometries with an "id" property.
// Coordinates stay raw until the geometry type is known, so features with
// foreign geometry types (Point, LineString, ...) are skipped instead of
// failing the whole document.
type geoJSON struct {
	Type     string `json:"type"`
	Features []struct {
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ReadGeoJSON loads a FeatureCollection of polygons. Only each polygon's
// outer ring is kept; features without an "id" property get a positional
// one.
func ReadGeoJSON(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc geoJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%s: expected FeatureCollection, got %q", path, doc.Type)
	}

	layer := &Layer{Path: path}
	for i, f := range doc.Features {
		if f.Geometry.Type != "Polygon" {
			continue
		}
		var rings [][][2]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("parse %s feature %d: %w", path, i, err)
		}
		if len(rings) == 0 {
			continue
		}
		feature := Feature{ID: fmt.Sprintf("feature-%d", i)}
		if id, ok := f.Properties["id"].(string); ok && id != "" {
			feature.ID = id
		}
		for _, coord := range rings[0] {
			feature.Ring = append(feature.Ring, Point{X: coord[0], Y: coord[1]})
		}
		layer.Features = append(layer.Features, feature)
	}
	return layer, nil
}
