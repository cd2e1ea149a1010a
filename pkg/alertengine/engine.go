package alertengine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine owns the ingestion pipeline and publishes its output to the map
// frontend. A failed run leaves the previously published alert set
// untouched; a successful run replaces it atomically.
type Engine struct {
	opts  Options
	log   *logrus.Logger
	cache *GeometryCache
	ctrl  *RunController
	hub   *Hub
	seen  *SeenStore

	mu      sync.RWMutex
	current *RunResult
	status  string
	lastErr error
	lastRun time.Time
}

// NewEngine wires the pipeline, controller and hub together. seen may be nil
// to disable new-alert tagging.
func NewEngine(opts Options, log *logrus.Logger, seen *SeenStore) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		opts:  opts,
		log:   log,
		cache: NewGeometryCache(),
		hub:   NewHub(log),
		seen:  seen,
	}
	pipeline := NewPipeline(opts, e.cache)
	e.ctrl = NewRunController(
		func(ctx context.Context) (*RunResult, error) {
			return pipeline.Run(ctx, e.setStatus)
		},
		e.publish,
		e.fail,
	)
	return e
}

// Refresh starts a new ingestion run, superseding any run in flight.
func (e *Engine) Refresh() { e.ctrl.Trigger() }

// StartRefreshLoop triggers a run shortly after startup and then on every
// tick. It blocks; run it in a goroutine.
func (e *Engine) StartRefreshLoop(interval time.Duration) {
	go func() {
		time.Sleep(2 * time.Second)
		e.Refresh()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		e.Refresh()
	}
}

// Current returns the last successfully published result, or nil before the
// first run completes.
func (e *Engine) Current() *RunResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Status returns the latest advisory progress line, the last run error (nil
// after a success) and when the last successful run finished.
func (e *Engine) Status() (string, error, time.Time) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status, e.lastErr, e.lastRun
}

func (e *Engine) Hub() *Hub { return e.hub }

func (e *Engine) setStatus(s string) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
	e.hub.BroadcastStatus(s)
}

func (e *Engine) publish(res *RunResult) {
	e.tagNew(res)

	e.mu.Lock()
	e.current = res
	e.lastErr = nil
	e.lastRun = time.Now()
	e.mu.Unlock()

	e.log.Infof("published %d alerts (partial=%v, zone fetches %d, %.1fs)",
		len(res.Alerts), res.Partial, res.ZoneFetches, res.Elapsed.Seconds())
	e.hub.BroadcastAlerts(res)
}

func (e *Engine) fail(err error) {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()

	// Previously published alerts stay up; the frontend only shows an
	// error indicator.
	e.log.Warnf("ingestion run failed: %v", err)
	e.hub.BroadcastStatus("refresh failed: " + err.Error())
}

func (e *Engine) tagNew(res *RunResult) {
	if e.seen == nil {
		return
	}
	ids := make([]string, len(res.Alerts))
	for i, a := range res.Alerts {
		ids[i] = a.ID
	}
	fresh, err := e.seen.MarkNew(ids)
	if err != nil {
		e.log.Warnf("seen store update failed: %v", err)
		return
	}
	for i := range res.Alerts {
		if fresh[res.Alerts[i].ID] {
			res.Alerts[i].New = true
		}
	}
}
