package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the certcli client.
//
// Fields:
//   - ServerURL: base URL of the certshowcase HTTP API.
//   - SessionFile: JSON file holding the signed-in session between runs.
//   - RequestTimeout: timeout applied to every API request.
//   - TransitionWindow: how long the list shows enter/exit styling.
type Config struct {
	ServerURL        string
	SessionFile      string
	RequestTimeout   time.Duration
	TransitionWindow time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionFile = defaultSessionFile()
	c.RequestTimeout = 10 * time.Second
	c.TransitionWindow = 400 * time.Millisecond
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "certshowcase", "session.json")
}
