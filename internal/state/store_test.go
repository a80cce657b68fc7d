package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

func page(ids ...string) dam.AssetListResponse {
	assets := make([]*asset.Asset, 0, len(ids))
	for _, id := range ids {
		assets = append(assets, &asset.Asset{ID: id, MimeType: "image/png"})
	}
	return dam.AssetListResponse{Assets: assets, Total: len(assets)}
}

func TestStore_ReplaceAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	if !s.Replace(Query{}, page("a", "b"), nil) {
		t.Fatalf("Replace returned false, want true")
	}

	snap := s.Snapshot()
	if len(snap.Assets) != 2 || snap.Assets[0].ID != "a" {
		t.Fatalf("snapshot assets = %#v, want 2 items", snap.Assets)
	}
	if snap.Total != 2 {
		t.Fatalf("Total = %d, want 2", snap.Total)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned slice should be independent of the stored one.
	snap.Assets[0] = &asset.Asset{ID: "zzz"}
	snap2 := s.Snapshot()
	if snap2.Assets[0].ID != "a" {
		t.Fatalf("Snapshot should clone assets; got id %q want a", snap2.Assets[0].ID)
	}
}

func TestStore_ReplaceErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Replace(Query{}, page("a"), nil)

	origErr := errors.New("boom")
	s.Replace(Query{}, dam.AssetListResponse{}, origErr)

	snap := s.Snapshot()
	if len(snap.Assets) != 1 || snap.Assets[0].ID != "a" {
		t.Fatalf("assets changed on error: got %#v", snap.Assets)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ReplaceDropsStaleQuery(t *testing.T) {
	var s Store
	s.SetQuery(Query{CategoryID: "photos"})

	if s.Replace(Query{CategoryID: "videos"}, page("v1"), nil) {
		t.Fatalf("Replace accepted a page for a stale query")
	}
	if got := len(s.Assets()); got != 0 {
		t.Fatalf("assets = %d, want 0", got)
	}
}

func TestStore_SetQueryClearsCollection(t *testing.T) {
	var s Store
	s.Replace(Query{}, page("a", "b"), nil)

	if !s.SetQuery(Query{CategoryID: "c1"}) {
		t.Fatalf("SetQuery returned false for a new query")
	}
	if s.SetQuery(Query{CategoryID: "c1"}) {
		t.Fatalf("SetQuery returned true for the same query")
	}
	if got := len(s.Assets()); got != 0 {
		t.Fatalf("assets = %d, want 0 after query change", got)
	}
	if s.Query().Key() == (Query{}).Key() {
		t.Fatalf("query key did not change")
	}
}

func TestStore_ApplyReplacesByIDImmutably(t *testing.T) {
	var s Store
	s.Replace(Query{}, page("a", "b"), nil)
	before := s.Assets()

	updated := &asset.Asset{ID: "b", MimeType: "image/png", FinalThumbnailURL: asset.String("https://cdn/b.png")}
	if !s.Apply(updated) {
		t.Fatalf("Apply returned false, want true")
	}
	if s.Apply(updated) {
		t.Fatalf("Apply of the stored record returned true")
	}
	if s.Apply(&asset.Asset{ID: "unknown"}) {
		t.Fatalf("Apply of an unknown id returned true")
	}

	after := s.Assets()
	if after[1] != updated {
		t.Fatalf("record b not replaced")
	}
	if after[0] != before[0] {
		t.Fatalf("record a should keep its pointer")
	}
	if before[1].FinalThumbnailURL != nil {
		t.Fatalf("previous record was modified in place")
	}
}

func TestStore_Remove(t *testing.T) {
	var s Store
	s.Replace(Query{}, page("a", "b", "c"), nil)

	if !s.Remove("b") {
		t.Fatalf("Remove returned false")
	}
	snap := s.Snapshot()
	if len(snap.Assets) != 2 || snap.Assets[1].ID != "c" || snap.Total != 2 {
		t.Fatalf("after Remove assets = %#v total = %d", snap.Assets, snap.Total)
	}
	if s.Remove("b") {
		t.Fatalf("second Remove returned true")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store reports failures: %d", snap.ConsecutiveFailures)
	}

	s.Replace(Query{}, dam.AssetListResponse{}, errors.New("fail 1"))
	if snap = s.Snapshot(); snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}

	s.Replace(Query{}, dam.AssetListResponse{}, errors.New("fail 2"))
	if snap = s.Snapshot(); !snap.IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	s.Replace(Query{}, page("a"), nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
}
