package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/certshowcase/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the current value alone.
type jsonConfig struct {
	ServerURL        string         `json:"server_url"`
	SessionFile      string         `json:"session_file"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	TransitionWindow timex.Duration `json:"transition_window"`
}

// parseJSON overlays cfg with the JSON file at path. An empty path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.TransitionWindow.Duration > 0 {
		cfg.TransitionWindow = jc.TransitionWindow.Duration
	}
	return nil
}
