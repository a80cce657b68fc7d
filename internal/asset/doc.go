// Package asset defines the DAM asset record and the pure functions the
// pollers build on: Merge, Classify and the per-poller qualification
// predicates.
//
// Nothing here performs I/O or starts timers. Records are treated as
// immutable values behind pointers; Merge returns its prev argument when an
// update carries no visual change, so a pointer comparison tells callers
// whether anything needs to be re-delivered.
package asset
