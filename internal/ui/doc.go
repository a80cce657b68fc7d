// Package ui provides the terminal asset browser for damview.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never talks to the network directly:
// it reads state.Snapshot values from the session's store on a one second
// tick and turns key presses into session calls (reload, category, search)
// that run as tea.Cmd so the event loop never blocks.
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages and the Run entry point
//   - grid.go: asset rows, thumbnail-state chips, incremental reveal
//   - header.go: status bar with query scope, controller activity and health
//   - detail.go: asset detail modal
//   - help.go: keyboard help overlay
//   - keys.go: key bindings
//   - theme.go: color palettes and lipgloss styles
//
// # Pausing
//
// The detail modal and help overlay pause the session's refresh loop while
// they are open so a reload cannot reshuffle the rows underneath them. Per
// record polling continues; the detail modal looks its asset up by id on
// every frame and shows deliveries as they land.
//
// # Incremental Reveal
//
// The whole collection is fetched at once, but rows are revealed in batches
// (24 by default). "m" reveals the next batch and moving past the last row
// does the same. The window resets whenever the category or search term
// changes.
package ui
