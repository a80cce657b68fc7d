package asset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/damview/internal/asset"
)

func TestQualificationPredicates(t *testing.T) {
	tests := []struct {
		name    string
		asset   *asset.Asset
		record  bool
		batch   bool
		refresh bool
	}{
		{
			name:  "unset status without thumbnail",
			asset: &asset.Asset{ID: "1", MimeType: "image/png"},
			// Only case the record poller takes.
			record: true, batch: true, refresh: true,
		},
		{
			name:  "pending without thumbnail",
			asset: &asset.Asset{ID: "2", MimeType: "image/png", ThumbnailStatus: asset.StatusPending},
			batch: true, refresh: true,
		},
		{
			name: "processing with preview",
			asset: &asset.Asset{
				ID: "3", MimeType: "image/png", ThumbnailStatus: asset.StatusProcessing,
				PreviewThumbnailURL: asset.String("https://cdn/3/p.png"),
			},
			batch: true, refresh: true,
		},
		{
			name: "completed with final",
			asset: &asset.Asset{
				ID: "4", MimeType: "image/png", ThumbnailStatus: asset.StatusCompleted,
				FinalThumbnailURL: asset.String("https://cdn/4/f.png"),
			},
		},
		{
			name: "completed but processing flag set",
			asset: &asset.Asset{
				ID: "5", MimeType: "image/png", ThumbnailStatus: asset.StatusCompleted,
				FinalThumbnailURL: asset.String("https://cdn/5/f.png"), Processing: true,
			},
			refresh: true,
		},
		{
			name:  "failed",
			asset: &asset.Asset{ID: "6", MimeType: "image/png", ThumbnailStatus: asset.StatusFailed},
		},
		{
			name:  "error message on pending record",
			asset: &asset.Asset{ID: "7", MimeType: "image/png", ThumbnailStatus: asset.StatusPending, ThumbnailError: asset.String("x")},
		},
		{
			name:  "unsupported with processing flag",
			asset: &asset.Asset{ID: "8", MimeType: "application/zip", OriginalFilename: "a.zip", Processing: true},
		},
		{
			name:  "nil",
			asset: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.record, asset.QualifiesForRecordPoll(tt.asset), "record poll")
			require.Equal(t, tt.batch, asset.QualifiesForBatchPoll(tt.asset), "batch poll")
			require.Equal(t, tt.refresh, asset.QualifiesForRefresh(tt.asset), "refresh")
		})
	}
}

func TestUnsupportedNeverQualifies(t *testing.T) {
	statuses := []asset.ThumbnailStatus{"", asset.StatusPending, asset.StatusProcessing, asset.StatusCompleted, asset.StatusFailed}
	for _, status := range statuses {
		for _, processing := range []bool{false, true} {
			a := &asset.Asset{
				ID:               "zip",
				MimeType:         "application/x-zip-compressed",
				OriginalFilename: "archive.zip",
				ThumbnailStatus:  status,
				Processing:       processing,
			}
			require.Equal(t, asset.StateNotSupported, asset.Classify(a))
			require.False(t, asset.QualifiesForRecordPoll(a))
			require.False(t, asset.QualifiesForBatchPoll(a))
			require.False(t, asset.QualifiesForRefresh(a))
		}
	}
}

func TestSelectAndIDs(t *testing.T) {
	assets := []*asset.Asset{
		{ID: "a", MimeType: "image/png", ThumbnailStatus: asset.StatusPending},
		{ID: "b", MimeType: "application/zip"},
		{ID: "c", MimeType: "image/png", ThumbnailStatus: asset.StatusProcessing},
	}

	require.Len(t, asset.Select(assets, asset.QualifiesForBatchPoll), 2)
	require.Equal(t, []string{"a", "c"}, asset.IDs(assets, asset.QualifiesForBatchPoll))
	require.True(t, asset.Any(assets, asset.QualifiesForRefresh))
	require.False(t, asset.Any(assets, asset.QualifiesForRecordPoll))
	require.Same(t, assets[2], asset.Find(assets, "c"))
	require.Nil(t, asset.Find(assets, "missing"))
}
