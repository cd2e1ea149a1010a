package sources

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// Snapshot wraps a normalized feed payload with provenance for the
// frontend.
type Snapshot struct {
	Source  string `json:"source"`
	Fetched string `json:"fetched"`
	Data    any    `json:"data"`
}

// WriteSnapshot writes v as a JSON snapshot file. The write is atomic so the
// frontend never reads a half-written file.
func WriteSnapshot(dir, name, source string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	snap := Snapshot{
		Source:  source,
		Fetched: time.Now().UTC().Format(time.RFC3339),
		Data:    v,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(filepath.Join(dir, name), bytes.NewReader(data))
}
