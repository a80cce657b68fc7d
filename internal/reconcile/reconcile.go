package reconcile

import (
	"context"
	"time"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

// Clock schedules callbacks. Controllers never call time.AfterFunc directly so
// tests can drive them deterministically.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

// Source returns the host's current collection. Controllers call it right
// before and after every network round trip instead of holding on to a copy.
type Source interface {
	Assets() []*asset.Asset
}

// SourceFunc adapts a function to Source.
type SourceFunc func() []*asset.Asset

// Assets implements Source.
func (f SourceFunc) Assets() []*asset.Asset { return f() }

// Sink receives merged records. It is called at most once per detected
// change and never for a merge that returned the previous record.
type Sink interface {
	Deliver(a *asset.Asset)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(a *asset.Asset)

// Deliver implements Sink.
func (f SinkFunc) Deliver(a *asset.Asset) { f(a) }

// StatusFetcher fetches one asset's thumbnail status.
type StatusFetcher interface {
	FetchThumbnailStatus(ctx context.Context, assetID string) (*dam.ThumbnailStatusResponse, error)
}

// BatchStatusFetcher fetches thumbnail fields for many assets at once.
type BatchStatusFetcher interface {
	FetchBatchStatus(ctx context.Context, assetIDs []string) ([]dam.BatchStatusItem, error)
}

// Reloader replaces the host's collection with a fresh authoritative copy.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context) error

// Reload implements Reloader.
func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameVersion(a, b *asset.Version) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func hasURL(s *string) bool {
	return s != nil && *s != ""
}
