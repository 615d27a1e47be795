package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

// Flags receives the persistent flag values before they are merged over the
// defaults and the config file.
type Flags struct {
	ConfigFile       string
	ServerURL        string
	SessionFile      string
	RequestTimeout   time.Duration
	TransitionWindow time.Duration
}

// BindFlags registers the client's persistent flags on cmd.
func BindFlags(cmd *cobra.Command, f *Flags) {
	var d Config
	d.LoadDefaults()

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.ConfigFile, "config", "c", "", "path to a JSON config file")
	pf.StringVarP(&f.ServerURL, "server", "s", d.ServerURL, "base URL of the certshowcase API")
	pf.StringVar(&f.SessionFile, "session-file", d.SessionFile, "file the signed-in session is kept in")
	pf.DurationVar(&f.RequestTimeout, "timeout", d.RequestTimeout, "per-request timeout")
	pf.DurationVar(&f.TransitionWindow, "transition", d.TransitionWindow, "list transition window")
}

// Load builds a Config from defaults, then the config file, then the flags
// the user set explicitly on cmd.
func Load(cmd *cobra.Command, f *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, f.ConfigFile); err != nil {
		return nil, err
	}

	if changed(cmd, "server") {
		cfg.ServerURL = f.ServerURL
	}
	if changed(cmd, "session-file") {
		cfg.SessionFile = f.SessionFile
	}
	if changed(cmd, "timeout") {
		cfg.RequestTimeout = f.RequestTimeout
	}
	if changed(cmd, "transition") {
		cfg.TransitionWindow = f.TransitionWindow
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server url %q is not an absolute URL", c.ServerURL)
	}
	if c.SessionFile == "" {
		return fmt.Errorf("session file is empty")
	}
	if c.RequestTimeout <= 0 || c.TransitionWindow <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func changed(cmd *cobra.Command, name string) bool {
	fl := cmd.Flag(name)
	return fl != nil && fl.Changed
}
