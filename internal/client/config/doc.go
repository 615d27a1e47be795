// Package config loads runtime configuration for the certcli client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by --config/-c (see parseJSON).
//  3. Command-line flags bound with BindFlags, when given explicitly.
//
// Supported flags
//
//	-s, --server string         base URL of the certshowcase API
//	    --session-file string   where the signed-in session is kept
//	    --timeout duration      per-request timeout
//	    --transition duration   list transition window
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "session_file": "/home/me/.config/certshowcase/session.json",
//	  "request_timeout": "10s",
//	  "transition_window": "400ms"
//	}
package config
