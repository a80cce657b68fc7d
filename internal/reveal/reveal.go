// Package reveal exposes an already-fetched collection to the view one batch
// at a time.
package reveal

import "reflect"

// DefaultBatch is the number of items revealed initially and per LoadMore.
const DefaultBatch = 24

// Window tracks how many items of a collection are visible. The zero value is
// not usable; call NewWindow.
type Window struct {
	batch   int
	visible int
	keys    []any
	seeded  bool
}

// NewWindow returns a window showing batch items. Non-positive batch uses
// DefaultBatch.
func NewWindow(batch int) *Window {
	if batch <= 0 {
		batch = DefaultBatch
	}
	return &Window{batch: batch, visible: batch}
}

// Reset restores the initial batch size when any key differs by value from
// the keys passed on the previous call. It reports whether a reset happened.
func (w *Window) Reset(keys ...any) bool {
	if w.seeded && sameKeys(w.keys, keys) {
		return false
	}
	changed := w.seeded
	w.seeded = true
	w.keys = append([]any(nil), keys...)
	w.visible = w.batch
	return changed
}

// LoadMore reveals one more batch, capped at total.
func (w *Window) LoadMore(total int) {
	w.visible += w.batch
	if w.visible > total {
		w.visible = max(total, w.batch)
	}
}

// Count returns how many of total items are visible.
func (w *Window) Count(total int) int {
	return min(w.visible, total)
}

// HasMore reports whether items beyond the window remain.
func (w *Window) HasMore(total int) bool {
	return w.visible < total
}

// Visible returns the revealed prefix of items.
func Visible[T any](w *Window, items []T) []T {
	return items[:w.Count(len(items))]
}

func sameKeys(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
