package asset

// Predicate selects records eligible for one polling strategy.
type Predicate func(*Asset) bool

// QualifiesForRecordPoll selects records for the per-record interval poller.
// Records that are pending or processing with nothing rendered yet are left to
// the batch poller and refresh loop; polling them one by one only produces
// not-found responses.
func QualifiesForRecordPoll(a *Asset) bool {
	if a == nil || !a.Supported() {
		return false
	}
	if a.HasAnyThumbnail() || a.ThumbnailError != nil {
		return false
	}
	status := a.ThumbnailStatus.Normalize()
	if status == StatusCompleted || status.Failed() {
		return false
	}
	// Nothing is rendered at this point, so in-flight records have nothing to report.
	return !status.InFlight()
}

// QualifiesForBatchPoll selects records for the shared-schedule batch poller.
func QualifiesForBatchPoll(a *Asset) bool {
	if a == nil || !a.Supported() {
		return false
	}
	if present(a.FinalThumbnailURL) || a.ThumbnailError != nil {
		return false
	}
	status := a.ThumbnailStatus.Normalize()
	return status == "" || status.InFlight()
}

// QualifiesForRefresh selects records that keep the background refresh loop alive.
func QualifiesForRefresh(a *Asset) bool {
	if a == nil {
		return false
	}
	state := Classify(a)
	if state == StateNotSupported {
		return false
	}
	return state == StatePending || a.Processing
}

// Select returns the records matching pred, preserving order.
func Select(assets []*Asset, pred Predicate) []*Asset {
	var out []*Asset
	for _, a := range assets {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}

// IDs returns the ids of the records matching pred.
func IDs(assets []*Asset, pred Predicate) []string {
	var out []string
	for _, a := range assets {
		if pred(a) {
			out = append(out, a.ID)
		}
	}
	return out
}

// Any reports whether at least one record matches pred.
func Any(assets []*Asset, pred Predicate) bool {
	for _, a := range assets {
		if pred(a) {
			return true
		}
	}
	return false
}
