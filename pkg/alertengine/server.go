package alertengine

import (
	"encoding/json"
	"net/http"
	"time"
)

// Handler exposes the engine to the map frontend: the current alert set, an
// advisory status line and the live websocket feed.
func (e *Engine) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/alerts", e.handleAlerts)
	mux.HandleFunc("/api/status", e.handleStatus)
	mux.HandleFunc("/ws", e.hub.HandleWS)
	return mux
}

// ListenAndServe blocks serving the engine API on addr.
func (e *Engine) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           e.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	e.log.Infof("serving map API on %s", addr)
	return srv.ListenAndServe()
}

func (e *Engine) handleAlerts(w http.ResponseWriter, r *http.Request) {
	res := e.Current()
	if res == nil {
		writeJSON(w, map[string]any{"alerts": []Alert{}, "partial": false})
		return
	}
	e.mu.RLock()
	updated := e.lastRun
	e.mu.RUnlock()
	writeJSON(w, map[string]any{
		"alerts":  res.Alerts,
		"partial": res.Partial,
		"updated": updated.UTC().Format(time.RFC3339),
	})
}

func (e *Engine) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, lastErr, lastRun := e.Status()
	errMsg := ""
	if lastErr != nil {
		errMsg = lastErr.Error()
	}
	writeJSON(w, map[string]any{
		"status":      status,
		"error":       errMsg,
		"lastRun":     lastRun.UTC().Format(time.RFC3339),
		"cachedZones": e.cache.Len(),
		"wsClients":   e.hub.ClientCount(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(v)
}
