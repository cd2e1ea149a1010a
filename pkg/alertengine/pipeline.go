package alertengine

import (
	"context"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// Pipeline is one full ingestion pass: fetch the active-alert collection,
// keep the hazard classes, resolve geometry per alert and cull to the view
// window. Zone-level failures are absorbed; only a failed main fetch
// escalates.
type Pipeline struct {
	opts       Options
	fetcher    *Fetcher
	resolver   *ZoneResolver
	classifier *Classifier
}

func NewPipeline(opts Options, cache *GeometryCache) *Pipeline {
	opts = opts.withDefaults()
	fetcher := NewFetcher(opts.UserAgent)
	return &Pipeline{
		opts:       opts,
		fetcher:    fetcher,
		resolver:   NewZoneResolver(cache, fetcher, opts),
		classifier: NewClassifier(),
	}
}

// alertFeed matches the shape of the NWS active-alerts collection.
type alertFeed struct {
	Features []alertFeature `json:"features"`
}

type alertFeature struct {
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties struct {
		ID            string   `json:"id"`
		Event         string   `json:"event"`
		Headline      string   `json:"headline"`
		AreaDesc      string   `json:"areaDesc"`
		Severity      string   `json:"severity"`
		Urgency       string   `json:"urgency"`
		Certainty     string   `json:"certainty"`
		Effective     string   `json:"effective"`
		Expires       string   `json:"expires"`
		Web           string   `json:"@id"`
		AffectedZones []string `json:"affectedZones"`
	} `json:"properties"`
}

func (f alertFeature) toAlert() Alert {
	return Alert{
		ID:            f.Properties.ID,
		Event:         f.Properties.Event,
		Headline:      f.Properties.Headline,
		AreaDesc:      f.Properties.AreaDesc,
		Severity:      f.Properties.Severity,
		Urgency:       f.Properties.Urgency,
		Certainty:     f.Properties.Certainty,
		Effective:     f.Properties.Effective,
		Expires:       f.Properties.Expires,
		Link:          f.Properties.Web,
		AffectedZones: f.Properties.AffectedZones,
		Geometry:      f.Geometry,
	}
}

// Run executes one ingestion pass. The returned result is partial when the
// soft time budget ran out before every qualifying alert was processed;
// alerts resolved before that point are kept, the remainder is omitted.
// Output order is the filtered feed order minus omissions.
func (p *Pipeline) Run(ctx context.Context, onProgress func(string)) (*RunResult, error) {
	budget := NewRunBudget(p.opts.ZoneFetchCap)

	var feed alertFeed
	if err := p.fetcher.FetchJSON(ctx, p.opts.AlertsURL, p.opts.MainFetchTimeout, &feed); err != nil {
		return nil, err
	}

	candidates := make([]Alert, 0, len(feed.Features))
	for _, f := range feed.Features {
		if !p.classifier.Qualifies(f.Properties.Event) {
			continue
		}
		candidates = append(candidates, f.toAlert())
	}

	report := func(current int) {
		if onProgress != nil {
			onProgress(fmt.Sprintf("processing %d/%d, zone fetches used %d/%d",
				current, len(candidates), budget.Spent(), budget.Cap()))
		}
	}

	out := make([]Alert, 0, len(candidates))
	partial := false
	for i, alert := range candidates {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		// Soft budget: checked only between alerts, so a resolution already
		// in progress is allowed to finish.
		if budget.Elapsed() > p.opts.TimeBudget {
			partial = true
			break
		}
		report(i + 1)

		resolved := p.resolver.Resolve(ctx, alert, budget, func(done, total int) {
			report(i + 1)
		})
		if resolved.Geometry == nil {
			continue
		}
		if !p.opts.Window.Intersects(resolved.Geometry) {
			continue
		}
		out = append(out, resolved)
	}
	report(len(candidates))

	return &RunResult{
		Alerts:      out,
		Partial:     partial,
		ZoneFetches: budget.Spent(),
		Elapsed:     budget.Elapsed(),
	}, nil
}
