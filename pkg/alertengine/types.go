// Package alertengine ingests live hazard alerts, resolves their geometry
// and publishes the windowed result to the map frontend.
package alertengine

import (
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// Alert is one hazard alert as published to the map. Geometry is nil until
// resolution succeeds; only alerts whose final geometry intersects the view
// window are ever published.
type Alert struct {
	ID            string            `json:"id"`
	Event         string            `json:"event"`
	Headline      string            `json:"headline,omitempty"`
	AreaDesc      string            `json:"areaDesc,omitempty"`
	Severity      string            `json:"severity,omitempty"`
	Urgency       string            `json:"urgency,omitempty"`
	Certainty     string            `json:"certainty,omitempty"`
	Effective     string            `json:"effective,omitempty"`
	Expires       string            `json:"expires,omitempty"`
	Link          string            `json:"link,omitempty"`
	AffectedZones []string          `json:"affectedZones,omitempty"`
	Geometry      *geojson.Geometry `json:"geometry,omitempty"`
	New           bool              `json:"new,omitempty"`
}

// RunResult is the outcome of one completed pipeline run.
type RunResult struct {
	Alerts      []Alert       `json:"alerts"`
	Partial     bool          `json:"partial"`
	ZoneFetches int           `json:"zoneFetches"`
	Elapsed     time.Duration `json:"-"`
}

// Options are the tunables for a single engine instance. Zero values are
// filled in from DefaultOptions by NewEngine.
type Options struct {
	AlertsURL        string
	UserAgent        string
	MainFetchTimeout time.Duration
	ZoneFetchTimeout time.Duration
	TimeBudget       time.Duration
	ZoneFetchCap     int
	ZoneConcurrency  int
	MaxZonesPerAlert int
	Window           Window
}

// DefaultOptions covers the NWS active-alerts feed windowed to the
// Pennsylvania corridor the frontend map shows.
func DefaultOptions() Options {
	return Options{
		AlertsURL:        "https://api.weather.gov/alerts/active",
		UserAgent:        "hazard-map (github.com/sudorandom/hazard-map)",
		MainFetchTimeout: 30 * time.Second,
		ZoneFetchTimeout: 8 * time.Second,
		TimeBudget:       45 * time.Second,
		ZoneFetchCap:     120,
		ZoneConcurrency:  4,
		MaxZonesPerAlert: 12,
		Window:           NewWindow(38.5, -81.0, 43.5, -73.0),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AlertsURL == "" {
		o.AlertsURL = d.AlertsURL
	}
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.MainFetchTimeout <= 0 {
		o.MainFetchTimeout = d.MainFetchTimeout
	}
	if o.ZoneFetchTimeout <= 0 {
		o.ZoneFetchTimeout = d.ZoneFetchTimeout
	}
	if o.TimeBudget <= 0 {
		o.TimeBudget = d.TimeBudget
	}
	if o.ZoneFetchCap <= 0 {
		o.ZoneFetchCap = d.ZoneFetchCap
	}
	if o.ZoneConcurrency <= 0 {
		o.ZoneConcurrency = d.ZoneConcurrency
	}
	if o.MaxZonesPerAlert <= 0 {
		o.MaxZonesPerAlert = d.MaxZonesPerAlert
	}
	if o.Window.IsEmpty() {
		o.Window = d.Window
	}
	return o
}
