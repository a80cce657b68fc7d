// Package config handles loading and parsing the damview configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/damview/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing, empty or non-positive, use defaults
//
// # Default Values
//
//   - API base: http://127.0.0.1:8080
//   - Log file: ~/.local/share/damview/damview.log
//   - Log level: info
//   - Record poll interval: 3s
//   - Batch poller: disabled
//   - Refresh loop: every 6s, at most 8 attempts
//   - Reveal batch: 24
//
// # TOML Format
//
//	api_base = "https://dam.example.com"
//	api_token = "..."
//	log_file = "~/.local/share/damview/damview.log"
//	log_level = "debug"
//
//	[polling]
//	record_interval_seconds = 3
//	batch_enabled = false
//	refresh_interval_seconds = 6
//	refresh_max_attempts = 8
//	reveal_batch = 24
//
// Every field is optional. Tilde expansion is performed for the config path
// and log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parsing errors. A missing config file is not an
// error so damview works against a local stub without any setup.
package config
