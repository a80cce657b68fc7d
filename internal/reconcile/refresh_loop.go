package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/damview/internal/asset"
)

const (
	// DefaultRefreshInterval is the delay between full collection reloads.
	DefaultRefreshInterval = 6 * time.Second
	// DefaultRefreshAttempts caps reloads per context.
	DefaultRefreshAttempts = 8
)

// RefreshLoopOptions configure a RefreshLoop.
type RefreshLoopOptions struct {
	Source      Source
	Reloader    Reloader
	Clock       Clock         // nil uses SystemClock
	Interval    time.Duration // zero uses DefaultRefreshInterval
	MaxAttempts int           // zero uses DefaultRefreshAttempts
	Paused      bool
	Logger      *zap.Logger
}

// RefreshLoop asks the host to reload its whole collection while any visible
// record is still processing. It never touches records itself.
type RefreshLoop struct {
	ctx         context.Context
	source      Source
	reloader    Reloader
	clock       Clock
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger

	mu         sync.Mutex
	paused     bool
	running    bool
	attempts   int
	epoch      uint64
	timer      Timer
	contextKey string
	closed     bool
}

// NewRefreshLoop builds an idle loop.
func NewRefreshLoop(ctx context.Context, opts RefreshLoopOptions) *RefreshLoop {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultRefreshAttempts
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshLoop{
		ctx:         ctx,
		source:      opts.Source,
		reloader:    opts.Reloader,
		clock:       clock,
		interval:    interval,
		maxAttempts: maxAttempts,
		paused:      opts.Paused,
		logger:      logger.Named("refresh_loop"),
	}
}

// Sync starts the loop when it is idle, not paused, has attempts left and
// some record qualifies. The first reload happens one interval later.
func (l *RefreshLoop) Sync() {
	pending := asset.Any(l.source.Assets(), asset.QualifiesForRefresh)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.paused || l.running || l.attempts >= l.maxAttempts || !pending {
		return
	}
	l.running = true
	l.epoch++
	epoch := l.epoch
	l.timer = l.clock.AfterFunc(l.interval, func() { l.tick(epoch) })
}

// SetPaused records whether a modal owns the view. Pausing stops the loop and
// forgets its attempt count; un-pausing re-evaluates Sync.
func (l *RefreshLoop) SetPaused(paused bool) {
	l.mu.Lock()
	l.paused = paused
	if paused {
		l.stopLocked()
		l.attempts = 0
	}
	l.mu.Unlock()

	if !paused {
		l.Sync()
	}
}

// SetContext stops the loop and resets attempts when key changes. It never
// starts the loop; the host calls Sync once the new collection has loaded.
func (l *RefreshLoop) SetContext(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if key == l.contextKey {
		return
	}
	l.contextKey = key
	l.stopLocked()
	l.attempts = 0
}

// Running reports whether a tick is scheduled.
func (l *RefreshLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Paused reports the last value passed to SetPaused.
func (l *RefreshLoop) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// Attempts returns the reloads triggered in the current context.
func (l *RefreshLoop) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}

// Close stops the loop permanently.
func (l *RefreshLoop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopLocked()
	l.closed = true
}

func (l *RefreshLoop) stopLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.running = false
	l.epoch++
}

func (l *RefreshLoop) tick(epoch uint64) {
	pending := asset.Any(l.source.Assets(), asset.QualifiesForRefresh)

	l.mu.Lock()
	if l.closed || !l.running || l.epoch != epoch {
		l.mu.Unlock()
		return
	}
	if l.paused {
		l.stopLocked()
		l.mu.Unlock()
		return
	}
	if !pending {
		l.stopLocked()
		l.attempts = 0
		l.mu.Unlock()
		return
	}
	if l.attempts >= l.maxAttempts {
		l.stopLocked()
		l.mu.Unlock()
		l.logger.Debug("refresh attempts exhausted", zap.Int("attempts", l.maxAttempts))
		return
	}
	l.attempts++
	attempt := l.attempts
	l.timer = l.clock.AfterFunc(l.interval, func() { l.tick(epoch) })
	l.mu.Unlock()

	if err := l.reloader.Reload(l.ctx); err != nil {
		l.logger.Debug("background reload failed", zap.Int("attempt", attempt), zap.Error(err))
	}
}
