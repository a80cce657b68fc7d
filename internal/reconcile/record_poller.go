package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

// DefaultRecordInterval is the fixed per-record poll interval.
const DefaultRecordInterval = 3 * time.Second

// RecordPollerOptions configure a RecordPoller.
type RecordPollerOptions struct {
	Fetcher  StatusFetcher
	Source   Source
	Sink     Sink
	Clock    Clock         // nil uses SystemClock
	Interval time.Duration // zero uses DefaultRecordInterval
	Logger   *zap.Logger
	Merger   asset.Merger
}

type recordTimer struct {
	timer    Timer
	inflight bool
}

// RecordPoller runs one fixed-interval timer per qualifying record and polls
// that record's status endpoint until it reaches a terminal state.
//
// Transient errors are retried on the next tick without backoff. A 404 or a
// terminal status ends polling for the id for the poller's lifetime.
type RecordPoller struct {
	ctx      context.Context
	cancel   context.CancelFunc
	fetcher  StatusFetcher
	source   Source
	sink     Sink
	clock    Clock
	interval time.Duration
	logger   *zap.Logger
	merger   asset.Merger

	mu         sync.Mutex
	active     map[string]*recordTimer
	terminated map[string]struct{}
	closed     bool
}

// NewRecordPoller builds an idle poller. Call Sync to start timers.
func NewRecordPoller(ctx context.Context, opts RecordPollerOptions) *RecordPoller {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultRecordInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordPoller{
		ctx:        ctx,
		cancel:     cancel,
		fetcher:    opts.Fetcher,
		source:     opts.Source,
		sink:       opts.Sink,
		clock:      clock,
		interval:   interval,
		logger:     logger.Named("record_poller"),
		merger:     opts.Merger,
		active:     make(map[string]*recordTimer),
		terminated: make(map[string]struct{}),
	}
}

// Sync makes the set of running timers match the records that currently
// qualify: new ones start, disqualified or removed ones stop.
func (p *RecordPoller) Sync() {
	qualifying := make(map[string]struct{})
	for _, id := range asset.IDs(p.source.Assets(), asset.QualifiesForRecordPoll) {
		qualifying[id] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	for id := range p.active {
		if _, ok := qualifying[id]; !ok {
			p.stopLocked(id)
		}
	}
	for id := range qualifying {
		if _, ok := p.active[id]; ok {
			continue
		}
		if _, done := p.terminated[id]; done {
			continue
		}
		p.startLocked(id)
	}
}

// Polling reports whether a timer is running for id.
func (p *RecordPoller) Polling(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.active[id]
	return ok
}

// ActiveCount returns the number of running timers.
func (p *RecordPoller) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// Close stops every timer. Responses still in flight are dropped.
func (p *RecordPoller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id := range p.active {
		p.stopLocked(id)
	}
	p.cancel()
}

func (p *RecordPoller) startLocked(id string) {
	entry := &recordTimer{}
	p.active[id] = entry
	entry.timer = p.clock.AfterFunc(p.interval, func() { p.tick(id, entry) })
}

func (p *RecordPoller) stopLocked(id string) {
	entry, ok := p.active[id]
	if !ok {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(p.active, id)
}

func (p *RecordPoller) terminateLocked(id string) {
	p.stopLocked(id)
	p.terminated[id] = struct{}{}
}

func (p *RecordPoller) tick(id string, entry *recordTimer) {
	latest := asset.Find(p.source.Assets(), id)

	p.mu.Lock()
	if p.closed || p.active[id] != entry {
		p.mu.Unlock()
		return
	}
	if latest == nil || !asset.QualifiesForRecordPoll(latest) {
		p.stopLocked(id)
		p.mu.Unlock()
		return
	}
	entry.timer = p.clock.AfterFunc(p.interval, func() { p.tick(id, entry) })
	if entry.inflight {
		p.mu.Unlock()
		return
	}
	entry.inflight = true
	p.mu.Unlock()

	resp, err := p.fetcher.FetchThumbnailStatus(p.ctx, id)

	p.mu.Lock()
	entry.inflight = false
	if p.closed {
		p.mu.Unlock()
		return
	}
	if err != nil {
		if dam.IsNotFound(err) {
			p.terminateLocked(id)
			p.logger.Debug("asset gone, polling stopped", zap.String("asset_id", id))
		} else {
			p.logger.Debug("thumbnail status poll failed", zap.String("asset_id", id), zap.Error(err))
		}
		p.mu.Unlock()
		return
	}
	if resp == nil {
		resp = &dam.ThumbnailStatusResponse{}
	}
	if resp.ThumbnailStatus.Terminal() {
		p.terminateLocked(id)
	}
	p.mu.Unlock()

	latest = asset.Find(p.source.Assets(), id)
	if latest == nil {
		return
	}
	merged := p.merger.Merge(latest, incomingFromStatus(latest, resp))
	if merged != latest {
		p.sink.Deliver(merged)
	}
}

// incomingFromStatus overlays a single-record status response on the latest
// local record. Fields the response leaves out keep their local value.
func incomingFromStatus(latest *asset.Asset, resp *dam.ThumbnailStatusResponse) *asset.Asset {
	in := latest.Clone()
	if resp.ThumbnailStatus != "" {
		in.ThumbnailStatus = resp.ThumbnailStatus
	}
	if resp.ThumbnailURL != nil {
		in.ThumbnailURL = resp.ThumbnailURL
		// The status endpoint only knows the legacy field; a completed
		// rendition is the final one.
		if in.ThumbnailStatus.Normalize() == asset.StatusCompleted && !hasURL(in.FinalThumbnailURL) {
			in.FinalThumbnailURL = resp.ThumbnailURL
		}
	}
	if resp.ThumbnailsGeneratedAt != nil {
		in.ThumbnailsGeneratedAt = resp.ThumbnailsGeneratedAt
		if in.ThumbnailVersion == nil {
			v := asset.Version(*resp.ThumbnailsGeneratedAt)
			in.ThumbnailVersion = &v
		}
	}
	return in
}
