package asset

import (
	"path"
	"strings"
)

// ThumbnailState is the semantic rendition state used by every poller.
type ThumbnailState int

const (
	StatePending ThumbnailState = iota
	StateAvailable
	StateFailed
	StateNotSupported
)

func (s ThumbnailState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAvailable:
		return "available"
	case StateFailed:
		return "failed"
	case StateNotSupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

var thumbnailMimeTypes = map[string]bool{
	"image/jpeg":                true,
	"image/jpg":                 true,
	"image/png":                 true,
	"image/gif":                 true,
	"image/webp":                true,
	"image/tiff":                true,
	"image/bmp":                 true,
	"image/heic":                true,
	"image/heif":                true,
	"image/avif":                true,
	"image/svg+xml":             true,
	"image/vnd.adobe.photoshop": true,
	"application/pdf":           true,
	"application/postscript":    true,
	"video/mp4":                 true,
	"video/quicktime":           true,
	"video/webm":                true,
}

var thumbnailExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	"tif": true, "tiff": true, "bmp": true, "heic": true, "heif": true,
	"avif": true, "svg": true, "psd": true, "pdf": true, "ai": true,
	"eps": true, "mp4": true, "mov": true, "webm": true,
}

// SupportsThumbnail looks up the static mime/extension table. The answer
// never depends on processing fields.
func SupportsThumbnail(mimeType, filename string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if thumbnailMimeTypes[mt] {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(strings.TrimSpace(filename))), ".")
	return thumbnailExtensions[ext]
}

// Supported reports whether the record's format can ever have a thumbnail.
func (a *Asset) Supported() bool {
	if a == nil {
		return false
	}
	return SupportsThumbnail(a.MimeType, a.OriginalFilename)
}

// Classify maps raw processing fields to a ThumbnailState.
func Classify(a *Asset) ThumbnailState {
	if a == nil || !a.Supported() {
		return StateNotSupported
	}
	if a.ThumbnailStatus.Failed() || a.ThumbnailError != nil {
		return StateFailed
	}
	if a.ThumbnailStatus.InFlight() {
		return StatePending
	}
	if a.HasAnyThumbnail() {
		return StateAvailable
	}
	return StatePending
}
