// Package state provides thread-safe state management for the asset view.
//
// # Overview
//
// The Store holds the host's asset collection for the active query together
// with the category navigation, the modal pause flag and reload health. It is
// the single point where full reloads, per-record poll deliveries and UI
// reads meet.
//
// # Architecture
//
//	Producers:                          Consumer (UI):
//	┌──────────────────────┐           ┌────────────────────┐
//	│ Session.Reload()     │──Replace─>│                    │
//	│ RecordPoller/Batch   │──Apply───>│ store.Snapshot()   │
//	│   (via Session sink) │           │      ↓             │
//	└──────────────────────┘           │  render grid       │
//	        ↑                          └────────────────────┘
//	        └── store.Assets() (reconcile.Source)
//
// # Update Semantics
//
// Records are never modified in place. Apply swaps a single pointer inside a
// freshly allocated slice; Replace swaps the whole slice. Readers therefore
// never see a torn record, and a record whose pointer did not change is known
// to be unchanged.
//
//	// Reload succeeded: replace collection, clear error
//	store.Replace(query, page, nil)
//
//	// Reload failed: keep old data, record error
//	store.Replace(query, dam.AssetListResponse{}, err)
//
//	// A page fetched for a query the user already left is ignored
//	store.Replace(oldQuery, page, nil) // returns false
//
// # Testing Considerations
//
// The Store is safe to construct with zero value:
//
//	store := &state.Store{}  // Ready to use immediately
package state
