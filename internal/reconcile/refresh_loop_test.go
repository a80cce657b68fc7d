package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/five82/damview/internal/asset"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
	hook  func()
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls.Add(1)
	if r.hook != nil {
		r.hook()
	}
	return r.err
}

func (r *countingReloader) Calls() int { return int(r.calls.Load()) }

func newTestRefreshLoop(t *testing.T, store *testStore, reloader Reloader, clock *fakeClock, paused bool) *RefreshLoop {
	t.Helper()
	l := NewRefreshLoop(context.Background(), RefreshLoopOptions{
		Source:   store,
		Reloader: reloader,
		Clock:    clock,
		Paused:   paused,
	})
	t.Cleanup(l.Close)
	return l
}

func TestRefreshLoop_ReloadsAtIntervalUntilCeiling(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(pendingAsset("a"))
	reloader := &countingReloader{}
	l := newTestRefreshLoop(t, store, reloader, clock, false)

	l.Sync()
	require.True(t, l.Running())

	clock.Advance(DefaultRefreshInterval - time.Millisecond)
	require.Zero(t, reloader.Calls(), "first reload waits one interval")

	clock.Advance(20 * DefaultRefreshInterval)
	require.Equal(t, DefaultRefreshAttempts, reloader.Calls())
	require.False(t, l.Running())

	l.Sync()
	require.False(t, l.Running(), "ceiling holds until pause or context change")
}

func TestRefreshLoop_PausedFromStartNeverReloads(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(pendingAsset("a"))
	reloader := &countingReloader{}
	l := newTestRefreshLoop(t, store, reloader, clock, true)

	l.Sync()
	clock.Advance(time.Minute)

	require.False(t, l.Running())
	require.Zero(t, reloader.Calls())
	require.Zero(t, clock.Pending())
}

func TestRefreshLoop_PauseBeforeFirstTickClearsTimer(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(pendingAsset("a"))
	reloader := &countingReloader{}
	l := newTestRefreshLoop(t, store, reloader, clock, false)

	l.Sync()
	l.SetPaused(true)

	require.Zero(t, clock.Pending())
	clock.Advance(time.Minute)
	require.Zero(t, reloader.Calls())
}

func TestRefreshLoop_ResumeAfterPauseStartsFromZero(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(pendingAsset("a"))
	reloader := &countingReloader{}
	l := newTestRefreshLoop(t, store, reloader, clock, false)

	l.Sync()
	clock.Advance(2 * DefaultRefreshInterval)
	require.Equal(t, 2, reloader.Calls())
	require.Equal(t, 2, l.Attempts())

	l.SetPaused(true)
	clock.Advance(5 * DefaultRefreshInterval)
	require.Equal(t, 2, reloader.Calls())
	require.False(t, l.Running())

	l.SetPaused(false)
	require.True(t, l.Running())
	require.Zero(t, l.Attempts())

	clock.Advance(DefaultRefreshInterval)
	require.Equal(t, 3, reloader.Calls())
	require.Equal(t, 1, l.Attempts())
}

func TestRefreshLoop_ContextChangeStopsAndResets(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(pendingAsset("a"))
	reloader := &countingReloader{}
	l := newTestRefreshLoop(t, store, reloader, clock, false)

	l.SetContext("category-1")
	l.Sync()
	clock.Advance(DefaultRefreshInterval)
	require.Equal(t, 1, l.Attempts())

	l.SetContext("category-2")
	require.False(t, l.Running())
	require.Zero(t, l.Attempts())
	clock.Advance(time.Minute)
	require.Equal(t, 1, reloader.Calls())

	l.Sync()
	require.True(t, l.Running())
}

func TestRefreshLoop_StopsWhenNothingIsProcessing(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(pendingAsset("a"))
	reloader := &countingReloader{}
	reloader.hook = func() {
		done := pendingAsset("a")
		done.ThumbnailStatus = asset.StatusCompleted
		done.FinalThumbnailURL = asset.String("https://cdn/a.png")
		store.Replace(done)
	}
	l := newTestRefreshLoop(t, store, reloader, clock, false)

	l.Sync()
	clock.Advance(time.Minute)

	require.Equal(t, 1, reloader.Calls())
	require.False(t, l.Running())
	require.Zero(t, l.Attempts())
}

func TestRefreshLoop_ReloadErrorsDoNotStopTheLoop(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(pendingAsset("a"))
	reloader := &countingReloader{err: errors.New("api GET /app/api/assets returned status 502")}
	l := newTestRefreshLoop(t, store, reloader, clock, false)

	l.Sync()
	clock.Advance(3 * DefaultRefreshInterval)

	require.Equal(t, 3, reloader.Calls())
	require.True(t, l.Running())
}

func TestRefreshLoop_IgnoresUnsupportedProcessingRecords(t *testing.T) {
	clock := &fakeClock{}
	store := newTestStore(&asset.Asset{ID: "z", MimeType: "application/zip", Processing: true})
	l := newTestRefreshLoop(t, store, &countingReloader{}, clock, false)

	l.Sync()
	require.False(t, l.Running())
}
