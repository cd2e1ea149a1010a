package alertengine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// newZoneServer serves fake zone records keyed by path. A nil geometry serves
// an explicit null; missing paths return 404.
func newZoneServer(t *testing.T, zones map[string]*geojson.Geometry, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt64(hits, 1)
		}
		g, ok := zones[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"geometry": g})
	}))
}

func testResolverOpts(window Window) Options {
	return Options{
		Window:           window,
		ZoneFetchTimeout: time.Second,
		MaxZonesPerAlert: 12,
		ZoneConcurrency:  4,
	}
}

func paWindow() Window { return NewWindow(38.5, -81.0, 43.5, -73.0) }

func TestResolveCheapPaths(t *testing.T) {
	var hits int64
	srv := newZoneServer(t, nil, &hits)
	defer srv.Close()

	cache := NewGeometryCache()
	r := NewZoneResolver(cache, NewFetcher(""), testResolverOpts(paWindow()))
	budget := NewRunBudget(10)

	direct := geojson.NewPolygonGeometry(square(40.0, -77.0, 0.5))
	got := r.Resolve(context.Background(), Alert{ID: "a1", Geometry: direct}, budget, nil)
	if got.Geometry != direct {
		t.Error("Alert with geometry should pass through untouched")
	}

	got = r.Resolve(context.Background(), Alert{ID: "a2"}, budget, nil)
	if got.Geometry != nil {
		t.Error("Alert without zones should stay geometry-less")
	}

	if hits != 0 {
		t.Errorf("Cheap paths should not hit the network, saw %d requests", hits)
	}
	if budget.Spent() != 0 {
		t.Errorf("Cheap paths should not spend budget, spent %d", budget.Spent())
	}
}

func TestResolveMergesZones(t *testing.T) {
	zones := map[string]*geojson.Geometry{
		"/z1": geojson.NewPolygonGeometry(square(40.0, -77.0, 0.3)),
		"/z2": geojson.NewPolygonGeometry(square(41.0, -76.0, 0.3)),
	}
	srv := newZoneServer(t, zones, nil)
	defer srv.Close()

	r := NewZoneResolver(NewGeometryCache(), NewFetcher(""), testResolverOpts(paWindow()))
	budget := NewRunBudget(10)

	in := Alert{ID: "a1", AffectedZones: []string{srv.URL + "/z1", srv.URL + "/z2"}}
	got := r.Resolve(context.Background(), in, budget, nil)

	if got.Geometry == nil {
		t.Fatal("Expected merged geometry")
	}
	if !got.Geometry.IsMultiPolygon() || len(got.Geometry.MultiPolygon) != 2 {
		t.Errorf("Expected a 2-polygon MultiPolygon, got %v", got.Geometry)
	}
	if in.Geometry != nil {
		t.Error("Input alert must not be mutated")
	}
	if budget.Spent() != 2 {
		t.Errorf("Expected 2 fetches spent, got %d", budget.Spent())
	}
}

func TestResolvePerAlertTruncation(t *testing.T) {
	zones := map[string]*geojson.Geometry{}
	var refs []string
	for i := 0; i < 5; i++ {
		zones[fmt.Sprintf("/z%d", i)] = geojson.NewPolygonGeometry(square(40.0, -77.0, 0.3))
	}
	srv := newZoneServer(t, zones, nil)
	defer srv.Close()
	for i := 0; i < 5; i++ {
		refs = append(refs, fmt.Sprintf("%s/z%d", srv.URL, i))
	}

	opts := testResolverOpts(paWindow())
	opts.MaxZonesPerAlert = 2
	r := NewZoneResolver(NewGeometryCache(), NewFetcher(""), opts)
	budget := NewRunBudget(100)

	got := r.Resolve(context.Background(), Alert{ID: "a1", AffectedZones: refs}, budget, nil)
	if budget.Spent() != 2 {
		t.Errorf("Expected truncation to 2 zone fetches, spent %d", budget.Spent())
	}
	if got.Geometry == nil {
		t.Error("Truncated resolution should still merge what it fetched")
	}
}

func TestResolveGlobalCap(t *testing.T) {
	zones := map[string]*geojson.Geometry{}
	var refs []string
	for i := 0; i < 6; i++ {
		zones[fmt.Sprintf("/z%d", i)] = geojson.NewPolygonGeometry(square(40.0, -77.0, 0.3))
	}
	srv := newZoneServer(t, zones, nil)
	defer srv.Close()
	for i := 0; i < 6; i++ {
		refs = append(refs, fmt.Sprintf("%s/z%d", srv.URL, i))
	}

	r := NewZoneResolver(NewGeometryCache(), NewFetcher(""), testResolverOpts(paWindow()))
	budget := NewRunBudget(3)

	got := r.Resolve(context.Background(), Alert{ID: "a1", AffectedZones: refs}, budget, nil)
	if budget.Spent() != 3 {
		t.Errorf("Expected spend capped at 3, got %d", budget.Spent())
	}
	if got.Geometry == nil {
		t.Error("Capped resolution should still merge the fetched zones")
	}

	// Budget exhausted: the next alert gets no fetches and stays bare.
	got = r.Resolve(context.Background(), Alert{ID: "a2", AffectedZones: refs[:1]}, budget, nil)
	if got.Geometry != nil {
		t.Error("Exhausted budget should yield no geometry for uncached zones")
	}
	if budget.Spent() != 3 {
		t.Errorf("Exhausted budget must not be overspent, got %d", budget.Spent())
	}
}

func TestResolveCacheSkipsRefetch(t *testing.T) {
	var hits int64
	zones := map[string]*geojson.Geometry{
		"/z1": geojson.NewPolygonGeometry(square(40.0, -77.0, 0.3)),
	}
	srv := newZoneServer(t, zones, &hits)
	defer srv.Close()

	cache := NewGeometryCache()
	r := NewZoneResolver(cache, NewFetcher(""), testResolverOpts(paWindow()))
	ref := srv.URL + "/z1"

	alert := Alert{ID: "a1", AffectedZones: []string{ref}}
	r.Resolve(context.Background(), alert, NewRunBudget(10), nil)
	// Second run, fresh budget, same cache.
	b2 := NewRunBudget(10)
	got := r.Resolve(context.Background(), alert, b2, nil)

	if atomic.LoadInt64(&hits) != 1 {
		t.Errorf("Expected exactly 1 network fetch across runs, got %d", hits)
	}
	if b2.Spent() != 0 {
		t.Errorf("Cache hits must not spend budget, spent %d", b2.Spent())
	}
	if got.Geometry == nil {
		t.Error("Cached geometry should resolve on the second run")
	}
}

func TestResolveFailureNotCached(t *testing.T) {
	var hits int64
	// Empty zone map: every request 404s.
	srv := newZoneServer(t, nil, &hits)
	defer srv.Close()

	cache := NewGeometryCache()
	r := NewZoneResolver(cache, NewFetcher(""), testResolverOpts(paWindow()))
	ref := srv.URL + "/z1"
	alert := Alert{ID: "a1", AffectedZones: []string{ref}}

	got := r.Resolve(context.Background(), alert, NewRunBudget(10), nil)
	if got.Geometry != nil {
		t.Error("Failed zone fetch should leave the alert bare")
	}
	if cache.Len() != 0 {
		t.Error("Failures must not be cached")
	}

	// The next run retries the same zone.
	r.Resolve(context.Background(), alert, NewRunBudget(10), nil)
	if atomic.LoadInt64(&hits) != 2 {
		t.Errorf("Expected a retry on the next run, got %d total requests", hits)
	}
}

func TestResolveNullGeometryCached(t *testing.T) {
	var hits int64
	zones := map[string]*geojson.Geometry{"/z1": nil}
	srv := newZoneServer(t, zones, &hits)
	defer srv.Close()

	cache := NewGeometryCache()
	r := NewZoneResolver(cache, NewFetcher(""), testResolverOpts(paWindow()))
	alert := Alert{ID: "a1", AffectedZones: []string{srv.URL + "/z1"}}

	r.Resolve(context.Background(), alert, NewRunBudget(10), nil)
	r.Resolve(context.Background(), alert, NewRunBudget(10), nil)

	// A successful fetch that answered "no geometry" is memoized like any
	// other answer.
	if atomic.LoadInt64(&hits) != 1 {
		t.Errorf("Expected null geometry to be cached, got %d requests", hits)
	}
}

func TestResolveDropsZonesOutsideWindow(t *testing.T) {
	zones := map[string]*geojson.Geometry{
		"/in":  geojson.NewPolygonGeometry(square(40.0, -77.0, 0.3)),
		"/out": geojson.NewPolygonGeometry(square(30.0, -95.0, 0.3)),
	}
	srv := newZoneServer(t, zones, nil)
	defer srv.Close()

	r := NewZoneResolver(NewGeometryCache(), NewFetcher(""), testResolverOpts(paWindow()))
	alert := Alert{ID: "a1", AffectedZones: []string{srv.URL + "/in", srv.URL + "/out"}}

	got := r.Resolve(context.Background(), alert, NewRunBudget(10), nil)
	if got.Geometry == nil {
		t.Fatal("Expected geometry from the in-window zone")
	}
	if len(got.Geometry.MultiPolygon) != 1 {
		t.Errorf("Out-of-window zone should be dropped before the merge, got %d polygons", len(got.Geometry.MultiPolygon))
	}
}
