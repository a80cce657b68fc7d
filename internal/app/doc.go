// Package app provides the orchestration layer for damview.
//
// # Overview
//
// This package wires configuration, logging, the DAM client, the collection
// store, the reconciliation controllers and the UI. Run is the composition
// root; Session is the host controller that owns one mounted asset view.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       ├─────> config.Load()        Read damview config
//	       ├─────> logging.New()        zap logger to the log file
//	       ├─────> dam.NewClient()      HTTP client
//	       ├─────> NewSession()         store + controllers
//	       ├─────> session.Load()       categories and first page (errgroup)
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Session:
//	┌──────────────────────────────────────────────────────┐
//	│ RecordPoller ─┐                                      │
//	│ BatchPoller  ─┼─> Deliver ─> store.Apply ─> sync all │
//	│ RefreshLoop  ──> Reload (singleflight) ─> Replace    │
//	└──────────────────────────────────────────────────────┘
//
// # Reload Coalescing
//
// Navigation, the manual reload key and the refresh loop can all ask for a
// reload at the same moment. Reload runs them through a singleflight.Group
// keyed by the query, so only one request is in flight per query. A page
// that lands after the user already navigated away is dropped by the store.
//
// # Error Handling
//
// Startup errors (config, logger, client construction) abort Run. Load and
// Reload failures are recorded in the store and rendered by the header; the
// previous collection stays on screen.
package app
