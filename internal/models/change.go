package models

// Change statuses reported by the dolt_status system table.
const (
	StatusAdded    = "added"
	StatusModified = "modified"
	StatusRemoved  = "removed"
	StatusRenamed  = "renamed"
	StatusConflict = "conflict"
)

// ChangeEntry represents one row of the dolt_status system table:
// a table with uncommitted changes in the working set.
type ChangeEntry struct {
	Table  string `json:"table"`
	Staged bool   `json:"staged"`
	Status string `json:"status"`
}

// PullResult holds the row returned by CALL DOLT_PULL.
type PullResult struct {
	FastForward bool   `json:"fast_forward"`
	Conflicts   int    `json:"conflicts"`
	Message     string `json:"message,omitempty"`
}

// Summary returns a one-line human description of the pull outcome.
func (r *PullResult) Summary() string {
	switch {
	case r.Conflicts > 0:
		return "pulled with conflicts"
	case r.FastForward:
		return "fast-forward pull successful"
	default:
		return "already up to date"
	}
}
