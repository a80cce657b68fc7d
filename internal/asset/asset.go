package asset

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ThumbnailStatus is the backend's raw processing status for an asset's renditions.
type ThumbnailStatus string

const (
	StatusPending    ThumbnailStatus = "pending"
	StatusProcessing ThumbnailStatus = "processing"
	StatusCompleted  ThumbnailStatus = "completed"
	StatusError      ThumbnailStatus = "error"
	StatusFailed     ThumbnailStatus = "failed"
	StatusSkipped    ThumbnailStatus = "skipped"
)

// Normalize lowercases and trims the status for comparisons.
func (s ThumbnailStatus) Normalize() ThumbnailStatus {
	return ThumbnailStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// InFlight reports whether the backend is still working on the renditions.
func (s ThumbnailStatus) InFlight() bool {
	switch s.Normalize() {
	case StatusPending, StatusProcessing:
		return true
	}
	return false
}

// Failed reports error, failed and skipped statuses.
func (s ThumbnailStatus) Failed() bool {
	switch s.Normalize() {
	case StatusError, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether no further processing is expected.
func (s ThumbnailStatus) Terminal() bool {
	return s.Normalize() == StatusCompleted || s.Failed()
}

// Version is the token the backend bumps when a new final rendition is ready.
// It arrives as either a JSON string or a JSON number.
type Version string

// UnmarshalJSON accepts strings and numbers.
func (v *Version) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Version(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*v = Version(n.String())
	return nil
}

// Asset is one managed media record as held by the host view.
//
// Records are shared between the store, the pollers and the UI, so they are
// never modified after construction. Every change produces a new *Asset.
type Asset struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	MimeType         string         `json:"mime_type"`
	OriginalFilename string         `json:"original_filename"`
	CategoryID       string         `json:"category_id"`
	Lifecycle        string         `json:"lifecycle"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Processing       bool           `json:"processing"`

	ThumbnailStatus       ThumbnailStatus `json:"thumbnail_status"`
	ThumbnailURL          *string         `json:"thumbnail_url"`
	PreviewThumbnailURL   *string         `json:"preview_thumbnail_url"`
	FinalThumbnailURL     *string         `json:"final_thumbnail_url"`
	ThumbnailVersion      *Version        `json:"thumbnail_version"`
	ThumbnailError        *string         `json:"thumbnail_error"`
	ThumbnailsGeneratedAt *string         `json:"thumbnails_generated_at"`

	IsPDF              bool    `json:"is_pdf"`
	PDFPageCount       *int    `json:"pdf_page_count"`
	FirstPageURL       *string `json:"first_page_url"`
	PDFPageAPIEndpoint *string `json:"pdf_page_api_endpoint"`
}

// Clone returns a shallow copy suitable for building an incoming update.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	dup := *a
	return &dup
}

// HasAnyThumbnail reports whether any thumbnail URL field is populated.
func (a *Asset) HasAnyThumbnail() bool {
	if a == nil {
		return false
	}
	return present(a.ThumbnailURL) || present(a.PreviewThumbnailURL) || present(a.FinalThumbnailURL)
}

// DisplayURL picks the best renderable thumbnail: final, then preview, then legacy.
func (a *Asset) DisplayURL() string {
	if a == nil {
		return ""
	}
	for _, u := range []*string{a.FinalThumbnailURL, a.PreviewThumbnailURL, a.ThumbnailURL} {
		if present(u) {
			return *u
		}
	}
	return ""
}

// Find returns the record with the given id, or nil.
func Find(assets []*Asset, id string) *Asset {
	for _, a := range assets {
		if a != nil && a.ID == id {
			return a
		}
	}
	return nil
}

// String returns a pointer to s, for building records in code.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// V returns a pointer to a Version.
func V(s string) *Version {
	v := Version(s)
	return &v
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalVersion(a, b *Version) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
