package alertengine

import (
	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"
)

// Window is the fixed viewing rectangle alerts are culled against. It is
// configured once at startup and never grows to fit data.
type Window struct {
	rect s2.Rect
}

func NewWindow(minLat, minLng, maxLat, maxLng float64) Window {
	r := s2.EmptyRect()
	r = r.AddPoint(s2.LatLngFromDegrees(minLat, minLng))
	r = r.AddPoint(s2.LatLngFromDegrees(maxLat, maxLng))
	return Window{rect: r}
}

// IsEmpty reports whether the window was never configured. The zero value is
// a degenerate point rect, which counts as empty here.
func (w Window) IsEmpty() bool { return w.rect.IsEmpty() || w.rect.IsPoint() }

// Intersects reports whether the bounding box of g overlaps the window.
// A nil or ring-less geometry never intersects.
func (w Window) Intersects(g *geojson.Geometry) bool {
	bb, ok := boundsOf(g)
	if !ok {
		return false
	}
	return w.rect.Intersects(bb)
}

// boundsOf scans every ring of g and returns its bounding rectangle.
// Coordinates are GeoJSON [lon, lat] pairs.
func boundsOf(g *geojson.Geometry) (s2.Rect, bool) {
	r := s2.EmptyRect()
	points := 0
	addRings := func(rings [][][]float64) {
		for _, ring := range rings {
			for _, pt := range ring {
				if len(pt) < 2 {
					continue
				}
				r = r.AddPoint(s2.LatLngFromDegrees(pt[1], pt[0]))
				points++
			}
		}
	}
	if g == nil {
		return r, false
	}
	switch {
	case g.IsPolygon():
		addRings(g.Polygon)
	case g.IsMultiPolygon():
		for _, poly := range g.MultiPolygon {
			addRings(poly)
		}
	}
	return r, points > 0
}

// MergeGeometries concatenates polygon ring-groups into one MultiPolygon.
// A Polygon input contributes one ring-group, a MultiPolygon all of its
// ring-groups; rings pass through untouched, no reprojection. Nil inputs
// are skipped, and a merge of nothing yields nil.
func MergeGeometries(geoms []*geojson.Geometry) *geojson.Geometry {
	var merged [][][][]float64
	for _, g := range geoms {
		if g == nil {
			continue
		}
		switch {
		case g.IsPolygon():
			merged = append(merged, g.Polygon)
		case g.IsMultiPolygon():
			merged = append(merged, g.MultiPolygon...)
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return geojson.NewMultiPolygonGeometry(merged...)
}
