package models

// Diff types reported by the dolt_diff_summary table function.
const (
	DiffAdded    = "added"
	DiffDropped  = "dropped"
	DiffModified = "modified"
	DiffRenamed  = "renamed"
)

// TableDiff represents one row of dolt_diff_summary: how a single
// table differs between two refs.
type TableDiff struct {
	FromTable    string `json:"from_table"`
	ToTable      string `json:"to_table"`
	DiffType     string `json:"diff_type"`
	DataChange   bool   `json:"data_change"`
	SchemaChange bool   `json:"schema_change"`
}

// Table returns the table's display name: the new name, or the old
// one when the table was dropped.
func (d TableDiff) Table() string {
	if d.ToTable != "" {
		return d.ToTable
	}
	return d.FromTable
}
