// Package reconcile keeps the host's asset collection in step with the DAM
// backend while thumbnails and renditions are generated asynchronously.
//
// # Components
//
//   - RecordPoller: one fixed-interval timer per qualifying record, polling
//     the single-asset status endpoint.
//   - BatchPoller: one shared backoff schedule for all qualifying records,
//     polling the batch status endpoint. Activation is gated by an Enabled
//     option owned by the host.
//   - RefreshLoop: while anything is still processing, asks the host to
//     reload the whole collection at a fixed interval, pausing while a modal
//     owns the view.
//
// # Data Flow
//
//	┌──────────────┐  Assets()   ┌───────────────┐  fetch   ┌─────────┐
//	│ host (Source)│────────────>│ RecordPoller  │─────────>│ DAM API │
//	│              │             │ BatchPoller   │<─────────│         │
//	│              │<────────────│ asset.Merge   │          └─────────┘
//	└──────┬───────┘  Deliver()  └───────────────┘
//	       │
//	       └── Sync() on every collection change
//
// The host owns the collection. Controllers never keep a copy between
// steps: they pull it through Source right before a request and again when
// the response arrives, and drop the response if the record or the
// controller's context is gone by then.
//
// # Concurrency
//
// Timer callbacks and host calls may run on different goroutines. Each
// controller guards its state with a mutex that is never held across a
// network call, a Source read or a Sink delivery, so a Sink may call back
// into Sync. Activations carry an epoch; a response whose epoch is stale is
// discarded.
//
// # Failure policy
//
// The record poller retries transient errors at its fixed interval forever
// and treats 404 as terminal. The batch poller stops its schedule on the
// first error. The refresh loop ignores reload errors; the host's own reload
// path surfaces them.
package reconcile
