package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

// Query is the context the collection was fetched for. Changing either field
// means the collection belongs to a different view.
type Query struct {
	CategoryID string
	Search     string
}

// Key identifies the query for controller context tracking.
func (q Query) Key() string {
	return q.CategoryID + "\x00" + q.Search
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Assets              []*asset.Asset
	Total               int
	Categories          []dam.Category
	Query               Query
	Paused              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive reload failures
}

// IsOffline returns true when the API has been unreachable for multiple reloads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. Asset records are
// never modified; every change swaps in a new slice.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Replace swaps in a freshly fetched collection for query. When err is
// non-nil the previous data is kept but the error is recorded for visibility.
// A page fetched for a query that is no longer current is dropped.
func (s *Store) Replace(query Query, page dam.AssetListResponse, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query != s.snapshot.Query {
		return false
	}
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return false
	}

	s.snapshot.Assets = cloneAssets(page.Assets)
	s.snapshot.Total = page.Total
	if s.snapshot.Total < len(s.snapshot.Assets) {
		s.snapshot.Total = len(s.snapshot.Assets)
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// SetCategories replaces the category navigation.
func (s *Store) SetCategories(categories []dam.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Categories = append([]dam.Category(nil), categories...)
}

// SetQuery switches the active query. The old collection is cleared because
// it belongs to a different view. It reports whether the query changed.
func (s *Store) SetQuery(query Query) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == s.snapshot.Query {
		return false
	}
	s.snapshot.Query = query
	s.snapshot.Assets = nil
	s.snapshot.Total = 0
	return true
}

// Query returns the active query.
func (s *Store) Query() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Query
}

// SetPaused records whether a modal owns the view.
func (s *Store) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Paused = paused
}

// Apply folds one record into the collection by id. It reports false when the
// id is unknown or the record is already the stored one.
func (s *Store) Apply(a *asset.Asset) bool {
	if a == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.snapshot.Assets {
		if existing.ID != a.ID {
			continue
		}
		if existing == a {
			return false
		}
		next := cloneAssets(s.snapshot.Assets)
		next[i] = a
		s.snapshot.Assets = next
		return true
	}
	return false
}

// Remove drops the record with id from the collection.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.snapshot.Assets {
		if existing.ID != id {
			continue
		}
		next := make([]*asset.Asset, 0, len(s.snapshot.Assets)-1)
		next = append(next, s.snapshot.Assets[:i]...)
		next = append(next, s.snapshot.Assets[i+1:]...)
		s.snapshot.Assets = next
		if s.snapshot.Total > 0 {
			s.snapshot.Total--
		}
		return true
	}
	return false
}

// Assets returns the current collection. The slice is a copy; the records
// are shared and must not be modified.
func (s *Store) Assets() []*asset.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAssets(s.snapshot.Assets)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Assets = cloneAssets(s.snapshot.Assets)
	snap.Categories = append([]dam.Category(nil), s.snapshot.Categories...)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneAssets(items []*asset.Asset) []*asset.Asset {
	if len(items) == 0 {
		return nil
	}
	dup := make([]*asset.Asset, len(items))
	copy(dup, items)
	return dup
}
