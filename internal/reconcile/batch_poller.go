package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

// DefaultBatchSchedule is the delay before each follow-up batch poll. Its
// length is also the poll budget per activation.
var DefaultBatchSchedule = []time.Duration{
	10 * time.Second,
	15 * time.Second,
	30 * time.Second,
	60 * time.Second,
	60 * time.Second,
}

// BatchPollerOptions configure a BatchPoller.
type BatchPollerOptions struct {
	// Enabled gates activation. A disabled poller ignores Sync entirely.
	Enabled  bool
	Fetcher  BatchStatusFetcher
	Source   Source
	Sink     Sink
	Clock    Clock           // nil uses SystemClock
	Schedule []time.Duration // nil uses DefaultBatchSchedule
	Logger   *zap.Logger
	Merger   asset.Merger
}

// BatchPoller polls every qualifying record with one request per round on a
// shared backoff schedule.
//
// An activation polls immediately, then after each schedule slot, and gives
// up after len(schedule) polls. A network error also ends the activation.
// Either way the poller stays halted until the query context changes; it
// only restarts on its own after a round leaves nothing qualifying.
type BatchPoller struct {
	parent   context.Context
	enabled  bool
	fetcher  BatchStatusFetcher
	source   Source
	sink     Sink
	clock    Clock
	schedule []time.Duration
	logger   *zap.Logger
	merger   asset.Merger

	mu         sync.Mutex
	active     bool
	halted     bool
	attempts   int
	epoch      uint64
	timer      Timer
	cancel     context.CancelFunc
	contextKey string
	closed     bool
}

// NewBatchPoller builds an idle poller.
func NewBatchPoller(ctx context.Context, opts BatchPollerOptions) *BatchPoller {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	schedule := opts.Schedule
	if len(schedule) == 0 {
		schedule = DefaultBatchSchedule
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchPoller{
		parent:   ctx,
		enabled:  opts.Enabled,
		fetcher:  opts.Fetcher,
		source:   opts.Source,
		sink:     opts.Sink,
		clock:    clock,
		schedule: append([]time.Duration(nil), schedule...),
		logger:   logger.Named("batch_poller"),
		merger:   opts.Merger,
	}
}

// Enabled reports whether the poller may activate.
func (p *BatchPoller) Enabled() bool {
	return p.enabled
}

// Sync starts an activation when the poller is enabled, idle, not halted and
// at least one record qualifies. The first poll runs without delay.
func (p *BatchPoller) Sync() {
	if !p.enabled {
		return
	}
	pending := asset.Any(p.source.Assets(), asset.QualifiesForBatchPoll)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.active || p.halted || !pending {
		return
	}
	p.active = true
	p.attempts = 0
	p.epoch++
	ctx, cancel := context.WithCancel(p.parent)
	p.cancel = cancel
	epoch := p.epoch
	p.timer = p.clock.AfterFunc(0, func() { p.poll(ctx, epoch) })
}

// SetContext cancels any activation when key differs from the previous key
// and clears the halted state. Results of requests already in flight are
// discarded.
func (p *BatchPoller) SetContext(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if key == p.contextKey {
		return
	}
	p.contextKey = key
	p.resetLocked()
	p.halted = false
}

// Active reports whether an activation is running.
func (p *BatchPoller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Attempts returns the number of polls issued by the current activation.
func (p *BatchPoller) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// Close cancels the schedule permanently.
func (p *BatchPoller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	p.closed = true
}

func (p *BatchPoller) currentLocked(epoch uint64) bool {
	return !p.closed && p.active && p.epoch == epoch
}

func (p *BatchPoller) resetLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.active = false
	p.attempts = 0
	p.epoch++
}

func (p *BatchPoller) haltLocked() {
	p.resetLocked()
	p.halted = true
}

func (p *BatchPoller) poll(ctx context.Context, epoch uint64) {
	ids := asset.IDs(p.source.Assets(), asset.QualifiesForBatchPoll)

	p.mu.Lock()
	if !p.currentLocked(epoch) {
		p.mu.Unlock()
		return
	}
	if len(ids) == 0 {
		p.resetLocked()
		p.mu.Unlock()
		return
	}
	p.attempts++
	attempt := p.attempts
	p.mu.Unlock()

	items, err := p.fetcher.FetchBatchStatus(ctx, ids)

	p.mu.Lock()
	if !p.currentLocked(epoch) {
		p.mu.Unlock()
		p.logger.Debug("discarding batch status for a cancelled schedule", zap.Int("items", len(items)))
		return
	}
	if err != nil {
		p.haltLocked()
		p.mu.Unlock()
		p.logger.Debug("batch status poll failed, schedule stopped", zap.Int("attempt", attempt), zap.Error(err))
		return
	}
	p.mu.Unlock()

	for _, merged := range p.changes(items) {
		p.mu.Lock()
		current := p.currentLocked(epoch)
		p.mu.Unlock()
		if !current {
			return
		}
		p.sink.Deliver(merged)
	}

	remaining := asset.Any(p.source.Assets(), asset.QualifiesForBatchPoll)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.currentLocked(epoch) {
		return
	}
	if !remaining {
		p.resetLocked()
		return
	}
	if attempt >= len(p.schedule) {
		p.logger.Debug("batch poll budget spent", zap.Int("attempts", attempt))
		p.haltLocked()
		return
	}
	p.timer = p.clock.AfterFunc(p.schedule[attempt-1], func() { p.poll(ctx, epoch) })
}

// changes merges each response item into the latest local record and returns
// only the records that actually changed.
func (p *BatchPoller) changes(items []dam.BatchStatusItem) []*asset.Asset {
	assets := p.source.Assets()
	var out []*asset.Asset
	for _, item := range items {
		local := asset.Find(assets, item.AssetID)
		if local == nil {
			continue
		}
		next := incomingFromBatch(local, item)
		if !batchChanged(local, next) {
			continue
		}
		merged := p.merger.Merge(local, next)
		if merged == local {
			continue
		}
		out = append(out, merged)
	}
	return out
}

func incomingFromBatch(local *asset.Asset, item dam.BatchStatusItem) *asset.Asset {
	in := local.Clone()
	if item.ThumbnailStatus != "" {
		in.ThumbnailStatus = item.ThumbnailStatus
	}
	in.ThumbnailVersion = item.ThumbnailVersion.Or(local.ThumbnailVersion)
	in.PreviewThumbnailURL = item.PreviewThumbnailURL.Or(local.PreviewThumbnailURL)
	in.FinalThumbnailURL = item.FinalThumbnailURL.Or(local.FinalThumbnailURL)
	in.ThumbnailError = item.ThumbnailError.Or(local.ThumbnailError)
	return in
}

func batchChanged(local, next *asset.Asset) bool {
	versionChanged := !sameVersion(local.ThumbnailVersion, next.ThumbnailVersion)
	newFinal := !hasURL(local.FinalThumbnailURL) && hasURL(next.FinalThumbnailURL)
	newPreview := !hasURL(local.PreviewThumbnailURL) && hasURL(next.PreviewThumbnailURL)
	failed := (next.ThumbnailStatus.Failed() && !local.ThumbnailStatus.Failed()) ||
		(next.ThumbnailError != nil && local.ThumbnailError == nil)
	raw := local.ThumbnailStatus != next.ThumbnailStatus ||
		!sameString(local.PreviewThumbnailURL, next.PreviewThumbnailURL) ||
		!sameString(local.FinalThumbnailURL, next.FinalThumbnailURL) ||
		!sameString(local.ThumbnailError, next.ThumbnailError)
	return versionChanged || newFinal || newPreview || failed || raw
}
