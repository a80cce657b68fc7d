package dam

import (
	"bytes"
	"encoding/json"

	"github.com/five82/damview/internal/asset"
)

// AssetListResponse mirrors GET /app/api/assets.
type AssetListResponse struct {
	Assets []*asset.Asset `json:"assets"`
	Total  int            `json:"total"`
}

// Category is one entry of the asset browser's category navigation.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	AssetCount int    `json:"asset_count"`
}

// CategoryListResponse mirrors GET /app/api/categories.
type CategoryListResponse struct {
	Categories []Category `json:"categories"`
}

// ThumbnailStatusResponse mirrors GET /app/api/assets/{id}/thumbnail-status.
type ThumbnailStatusResponse struct {
	ThumbnailStatus       asset.ThumbnailStatus `json:"thumbnail_status"`
	ThumbnailURL          *string               `json:"thumbnail_url"`
	ThumbnailsGeneratedAt *string               `json:"thumbnails_generated_at,omitempty"`
}

// BatchStatusRequest is the body of POST /app/api/assets/thumbnail-status/batch.
type BatchStatusRequest struct {
	AssetIDs []string `json:"asset_ids"`
}

// BatchStatusResponse mirrors the batch endpoint's payload.
type BatchStatusResponse struct {
	Assets []BatchStatusItem `json:"assets"`
}

// BatchStatusItem carries the rendition fields for one asset. Fields the
// backend leaves out are reported as not Present so callers can keep their
// local value instead of clearing it.
type BatchStatusItem struct {
	AssetID             string                  `json:"asset_id"`
	ThumbnailStatus     asset.ThumbnailStatus   `json:"thumbnail_status,omitempty"`
	ThumbnailVersion    Nullable[asset.Version] `json:"thumbnail_version,omitzero"`
	PreviewThumbnailURL Nullable[string]        `json:"preview_thumbnail_url,omitzero"`
	FinalThumbnailURL   Nullable[string]        `json:"final_thumbnail_url,omitzero"`
	ThumbnailError      Nullable[string]        `json:"thumbnail_error,omitzero"`
}

// Nullable distinguishes an absent JSON key from an explicit null.
type Nullable[T any] struct {
	Present bool
	Value   *T
}

// Some returns a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Present: true, Value: &v}
}

// Null returns an explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Present: true}
}

// Or returns the decoded value when the key was present, else fallback.
func (n Nullable[T]) Or(fallback *T) *T {
	if n.Present {
		return n.Value
	}
	return fallback
}

// UnmarshalJSON records presence; null leaves Value nil.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON writes null for a nil Value.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
