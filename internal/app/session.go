package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/config"
	"github.com/five82/damview/internal/dam"
	"github.com/five82/damview/internal/reconcile"
	"github.com/five82/damview/internal/state"
)

// SessionOptions configure a Session.
type SessionOptions struct {
	Client  dam.AssetFetcher
	Store   *state.Store // nil allocates a fresh store
	Clock   reconcile.Clock
	Polling config.Polling
	Query   state.Query
	Logger  *zap.Logger
}

// Session is the host controller for one mounted asset view. It owns the
// collection store and the three reconciliation controllers, and it is the
// only component that writes to the store.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	client dam.AssetFetcher
	store  *state.Store
	logger *zap.Logger

	records *reconcile.RecordPoller
	batch   *reconcile.BatchPoller
	refresh *reconcile.RefreshLoop

	reloads singleflight.Group
}

var (
	_ reconcile.Sink     = (*Session)(nil)
	_ reconcile.Reloader = (*Session)(nil)
)

// NewSession builds a session and its controllers. Nothing is fetched until
// Load is called.
func NewSession(ctx context.Context, opts SessionOptions) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	store.SetQuery(opts.Query)

	s := &Session{
		ctx:    ctx,
		cancel: cancel,
		client: opts.Client,
		store:  store,
		logger: logger.Named("session"),
	}
	merger := asset.NewMerger(logger.Named("merge"))

	s.records = reconcile.NewRecordPoller(ctx, reconcile.RecordPollerOptions{
		Fetcher:  opts.Client,
		Source:   store,
		Sink:     s,
		Clock:    opts.Clock,
		Interval: opts.Polling.RecordInterval,
		Logger:   logger,
		Merger:   merger,
	})
	s.batch = reconcile.NewBatchPoller(ctx, reconcile.BatchPollerOptions{
		Enabled: opts.Polling.BatchEnabled,
		Fetcher: opts.Client,
		Source:  store,
		Sink:    s,
		Clock:   opts.Clock,
		Logger:  logger,
		Merger:  merger,
	})
	s.refresh = reconcile.NewRefreshLoop(ctx, reconcile.RefreshLoopOptions{
		Source:      store,
		Reloader:    s,
		Clock:       opts.Clock,
		Interval:    opts.Polling.RefreshInterval,
		MaxAttempts: opts.Polling.RefreshMaxAttempts,
		Logger:      logger,
	})

	key := opts.Query.Key()
	s.batch.SetContext(key)
	s.refresh.SetContext(key)
	return s
}

// Store exposes the collection for rendering.
func (s *Session) Store() *state.Store {
	return s.store
}

// Load fetches the category navigation and the first page concurrently.
// A category failure does not prevent the asset page from landing.
func (s *Session) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		categories, err := s.client.FetchCategories(ctx)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		s.store.SetCategories(categories)
		return nil
	})
	g.Go(func() error {
		return s.Reload(ctx)
	})
	return g.Wait()
}

// Reload replaces the collection for the active query. Concurrent calls for
// the same query share one request.
func (s *Session) Reload(ctx context.Context) error {
	query := s.store.Query()
	_, err, shared := s.reloads.Do(query.Key(), func() (any, error) {
		page, err := s.client.FetchAssets(ctx, dam.AssetQuery{
			CategoryID: query.CategoryID,
			Search:     query.Search,
		})
		if err != nil {
			s.store.Replace(query, dam.AssetListResponse{}, err)
			return nil, fmt.Errorf("fetch assets: %w", err)
		}
		if !s.store.Replace(query, page, nil) {
			s.logger.Debug("dropped page for stale query", zap.String("category", query.CategoryID))
			return nil, nil
		}
		s.sync()
		return nil, nil
	})
	if shared {
		s.logger.Debug("reload coalesced", zap.String("category", query.CategoryID))
	}
	return err
}

// Deliver folds a controller's merged record into the store and lets every
// controller re-evaluate the new collection.
func (s *Session) Deliver(a *asset.Asset) {
	if !s.store.Apply(a) {
		return
	}
	s.sync()
}

// SetCategory switches the category and reloads.
func (s *Session) SetCategory(ctx context.Context, categoryID string) error {
	q := s.store.Query()
	q.CategoryID = strings.TrimSpace(categoryID)
	return s.setQuery(ctx, q)
}

// SetSearch switches the search term and reloads.
func (s *Session) SetSearch(ctx context.Context, search string) error {
	q := s.store.Query()
	q.Search = strings.TrimSpace(search)
	return s.setQuery(ctx, q)
}

func (s *Session) setQuery(ctx context.Context, q state.Query) error {
	if !s.store.SetQuery(q) {
		return nil
	}
	key := q.Key()
	s.batch.SetContext(key)
	s.refresh.SetContext(key)
	s.records.Sync()
	return s.Reload(ctx)
}

// SetPaused forwards the modal state to the refresh loop.
func (s *Session) SetPaused(paused bool) {
	s.store.SetPaused(paused)
	s.refresh.SetPaused(paused)
}

// Activity reports what the controllers are doing.
func (s *Session) Activity() state.Activity {
	return state.Activity{
		RecordPolls:     s.records.ActiveCount(),
		BatchActive:     s.batch.Active(),
		BatchAttempts:   s.batch.Attempts(),
		RefreshRunning:  s.refresh.Running(),
		RefreshAttempts: s.refresh.Attempts(),
	}
}

// Close stops every controller. In-flight results are discarded.
func (s *Session) Close() {
	s.cancel()
	s.records.Close()
	s.batch.Close()
	s.refresh.Close()
}

func (s *Session) sync() {
	s.records.Sync()
	s.batch.Sync()
	s.refresh.Sync()
}
