package asset

import (
	"go.uber.org/zap"
)

// Merger reconciles a local record with an incoming update. The logger only
// receives the completed-thumbnail overwrite diagnostic; pass zap.NewNop() in
// production builds.
type Merger struct {
	logger *zap.Logger
}

// NewMerger returns a Merger that reports overwrite anomalies to logger.
func NewMerger(logger *zap.Logger) Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Merger{logger: logger}
}

// Merge is Merger.Merge without diagnostics.
func Merge(prev, incoming *Asset) *Asset {
	return Merger{}.Merge(prev, incoming)
}

// Merge combines prev and incoming into the record the host should hold.
//
// When nothing visually significant differs, prev itself is returned so
// callers can detect a no-op by pointer comparison. Otherwise a new record is
// built from prev with incoming overlaid, and the thumbnail fields are taken
// from incoming even when incoming clears them.
func (m Merger) Merge(prev, incoming *Asset) *Asset {
	if prev == nil {
		return incoming
	}
	if incoming == nil {
		return prev
	}
	if sameVisuals(prev, incoming) {
		return prev
	}

	if prev.ThumbnailStatus.Normalize() == StatusCompleted &&
		(replacesURL(prev.ThumbnailURL, incoming.ThumbnailURL) ||
			replacesURL(prev.FinalThumbnailURL, incoming.FinalThumbnailURL)) {
		m.warn(prev, incoming)
	}

	merged := *prev
	overlay(&merged, incoming)

	merged.PreviewThumbnailURL = incoming.PreviewThumbnailURL
	merged.FinalThumbnailURL = incoming.FinalThumbnailURL
	merged.ThumbnailError = incoming.ThumbnailError
	if incoming.ThumbnailStatus != "" {
		merged.ThumbnailStatus = incoming.ThumbnailStatus
	}
	if incoming.ThumbnailVersion != nil {
		merged.ThumbnailVersion = incoming.ThumbnailVersion
	}
	return &merged
}

func (m Merger) warn(prev, incoming *Asset) {
	if m.logger == nil {
		return
	}
	m.logger.Warn("completed thumbnail overwritten by a different url",
		zap.String("asset_id", prev.ID),
		zap.Stringp("prev_thumbnail_url", prev.ThumbnailURL),
		zap.Stringp("next_thumbnail_url", incoming.ThumbnailURL),
		zap.Stringp("prev_final_thumbnail_url", prev.FinalThumbnailURL),
		zap.Stringp("next_final_thumbnail_url", incoming.FinalThumbnailURL),
	)
}

// sameVisuals compares the fields that change what the grid renders.
func sameVisuals(a, b *Asset) bool {
	return equalString(a.PreviewThumbnailURL, b.PreviewThumbnailURL) &&
		equalString(a.FinalThumbnailURL, b.FinalThumbnailURL) &&
		equalVersion(a.ThumbnailVersion, b.ThumbnailVersion) &&
		equalInt(a.PDFPageCount, b.PDFPageCount) &&
		equalString(a.FirstPageURL, b.FirstPageURL) &&
		equalString(a.PDFPageAPIEndpoint, b.PDFPageAPIEndpoint)
}

func replacesURL(prev, next *string) bool {
	return next != nil && !equalString(prev, next)
}

// overlay copies every field incoming actually carries onto dst. Zero values
// and nil pointers count as absent.
func overlay(dst, incoming *Asset) {
	if incoming.Title != "" {
		dst.Title = incoming.Title
	}
	if incoming.MimeType != "" {
		dst.MimeType = incoming.MimeType
	}
	if incoming.OriginalFilename != "" {
		dst.OriginalFilename = incoming.OriginalFilename
	}
	if incoming.CategoryID != "" {
		dst.CategoryID = incoming.CategoryID
	}
	if incoming.Lifecycle != "" {
		dst.Lifecycle = incoming.Lifecycle
	}
	if incoming.Metadata != nil {
		dst.Metadata = incoming.Metadata
	}
	dst.Processing = incoming.Processing
	if incoming.ThumbnailURL != nil {
		dst.ThumbnailURL = incoming.ThumbnailURL
	}
	if incoming.ThumbnailsGeneratedAt != nil {
		dst.ThumbnailsGeneratedAt = incoming.ThumbnailsGeneratedAt
	}
	if incoming.IsPDF {
		dst.IsPDF = true
	}
	if incoming.PDFPageCount != nil {
		dst.PDFPageCount = incoming.PDFPageCount
	}
	if incoming.FirstPageURL != nil {
		dst.FirstPageURL = incoming.FirstPageURL
	}
	if incoming.PDFPageAPIEndpoint != nil {
		dst.PDFPageAPIEndpoint = incoming.PDFPageAPIEndpoint
	}
}
