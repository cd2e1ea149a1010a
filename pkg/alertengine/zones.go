package alertengine

import (
	"context"
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// ZoneResolver fills in geometry for alerts that reference forecast zones
// instead of carrying a polygon of their own. Zone records are fetched by
// their reference URL, memoized in the GeometryCache and merged into one
// MultiPolygon.
type ZoneResolver struct {
	cache       *GeometryCache
	fetcher     *Fetcher
	window      Window
	zoneTimeout time.Duration
	maxPerAlert int
	concurrency int
}

func NewZoneResolver(cache *GeometryCache, fetcher *Fetcher, opts Options) *ZoneResolver {
	return &ZoneResolver{
		cache:       cache,
		fetcher:     fetcher,
		window:      opts.Window,
		zoneTimeout: opts.ZoneFetchTimeout,
		maxPerAlert: opts.MaxZonesPerAlert,
		concurrency: opts.ZoneConcurrency,
	}
}

// zoneRecord is the slice of a zone feature we care about.
type zoneRecord struct {
	Geometry *geojson.Geometry `json:"geometry"`
}

// Resolve returns a copy of alert with merged zone geometry attached, or the
// alert unchanged when it already carries geometry, references no zones, or
// nothing could be resolved. The input alert is never modified. Individual
// zone failures of any kind degrade the merge, never abort it.
func (r *ZoneResolver) Resolve(ctx context.Context, alert Alert, budget *RunBudget, onProgress func(done, total int)) Alert {
	if alert.Geometry != nil {
		return alert
	}
	zones := alert.AffectedZones
	if len(zones) == 0 {
		return alert
	}
	if len(zones) > r.maxPerAlert {
		zones = zones[:r.maxPerAlert]
	}
	// Snapshot of the global allowance; each worker re-checks right before
	// it spends, since siblings may drain the budget in the meantime.
	if rem := budget.Remaining(); len(zones) > rem {
		zones = zones[:rem]
	}
	if len(zones) == 0 {
		return alert
	}

	geoms := MapLimited(ctx, zones, r.concurrency, func(ctx context.Context, zone string) (*geojson.Geometry, error) {
		g, err := r.fetchZone(ctx, zone, budget)
		if err != nil || g == nil {
			return nil, err
		}
		if !r.window.Intersects(g) {
			return nil, nil
		}
		return g, nil
	}, onProgress)

	merged := MergeGeometries(geoms)
	if merged == nil {
		return alert
	}
	out := alert
	out.Geometry = merged
	return out
}

func (r *ZoneResolver) fetchZone(ctx context.Context, zone string, budget *RunBudget) (*geojson.Geometry, error) {
	if g, ok := r.cache.Lookup(zone); ok {
		return g, nil
	}
	if !budget.TrySpend() {
		return nil, nil
	}
	var rec zoneRecord
	if err := r.fetcher.FetchJSON(ctx, zone, r.zoneTimeout, &rec); err != nil {
		// Not cached, so the next run can retry a transient failure.
		return nil, err
	}
	r.cache.Store(zone, rec.Geometry)
	return rec.Geometry, nil
}
