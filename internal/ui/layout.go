package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the mime column is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the rendition column.
	LayoutWideWidth = 130
)

// Timing constants.
const (
	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second

	// ActionTimeout bounds user-triggered reloads and navigation.
	ActionTimeout = 10 * time.Second
)
