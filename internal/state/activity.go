package state

// Activity reports what the reconciliation controllers are doing. The UI
// shows it in the status bar.
type Activity struct {
	RecordPolls     int
	BatchActive     bool
	BatchAttempts   int
	RefreshRunning  bool
	RefreshAttempts int
}

// Idle reports whether no controller is working.
func (a Activity) Idle() bool {
	return a.RecordPolls == 0 && !a.BatchActive && !a.RefreshRunning
}
