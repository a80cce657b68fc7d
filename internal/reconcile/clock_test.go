package reconcile

import (
	"sync"
	"time"

	"github.com/five82/damview/internal/asset"
)

// fakeClock fires AfterFunc callbacks synchronously from Advance, in due
// order, so a test fully controls when ticks happen.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the elapsed fake time.
func (c *fakeClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves time forward by d, running every timer that comes due,
// including timers scheduled by callbacks within the window.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		if next.at > c.now {
			c.now = next.at
		}
		c.mu.Unlock()
		next.fn()
	}
}

// Pending counts timers that have neither fired nor been stopped.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// testStore is a minimal host: it replaces records immutably and counts
// deliveries.
type testStore struct {
	mu         sync.Mutex
	assets     []*asset.Asset
	deliveries []*asset.Asset
	onDeliver  func()
}

func newTestStore(assets ...*asset.Asset) *testStore {
	return &testStore{assets: assets}
}

func (s *testStore) Assets() []*asset.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*asset.Asset(nil), s.assets...)
}

func (s *testStore) Deliver(a *asset.Asset) {
	s.mu.Lock()
	next := make([]*asset.Asset, len(s.assets))
	copy(next, s.assets)
	for i, existing := range next {
		if existing.ID == a.ID {
			next[i] = a
		}
	}
	s.assets = next
	s.deliveries = append(s.deliveries, a)
	hook := s.onDeliver
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (s *testStore) Replace(assets ...*asset.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = assets
}

func (s *testStore) Get(id string) *asset.Asset {
	return asset.Find(s.Assets(), id)
}

func (s *testStore) Delivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliveries)
}
