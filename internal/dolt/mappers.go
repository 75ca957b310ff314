package dolt

import (
	"strings"
	"time"

	"github.com/kilupskalvis/doltctl/internal/models"
)

// Mappers convert raw rows into typed records. They are pure
// functions: rows go in, records come out, and nothing above this
// file ever sees an untyped row.

// changeFromRow maps a dolt_status row to a ChangeEntry. A missing
// status column defaults to "modified"; older engines omit it for
// some change types.
func changeFromRow(row Row) models.ChangeEntry {
	status := rowString(row, "status")
	if status == "" {
		status = models.StatusModified
	}
	return models.ChangeEntry{
		Table:  rowString(row, "table_name"),
		Staged: rowBool(row, "staged"),
		Status: status,
	}
}

// commitFromRow maps a dolt_log row to a Commit. Row order from the
// engine is reverse-chronological and must be preserved by callers.
func commitFromRow(row Row) models.Commit {
	c := models.Commit{
		Hash:      rowString(row, "commit_hash"),
		Committer: rowString(row, "committer"),
		Email:     rowString(row, "email"),
		Date:      rowTime(row, "date"),
		Message:   rowString(row, "message"),
	}
	if parents := rowString(row, "parents"); parents != "" {
		for _, p := range strings.Split(parents, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Parents = append(c.Parents, p)
			}
		}
	}
	return c
}

// commitHashFromRows extracts the hash column from a DOLT_COMMIT
// result. Only the documented column names are read; guessing from
// other columns could hand back something that is not a hash. Zero
// rows means nothing was committed.
func commitHashFromRows(rows []Row) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	hash := rowString(rows[0], "hash")
	if hash == "" {
		hash = rowString(rows[0], "commit_hash")
	}
	return hash, hash != ""
}

// pullResultFromRows maps a DOLT_PULL result row.
func pullResultFromRows(rows []Row) models.PullResult {
	if len(rows) == 0 {
		return models.PullResult{}
	}
	return models.PullResult{
		FastForward: rowBool(rows[0], "fast_forward"),
		Conflicts:   rowInt(rows[0], "conflicts"),
		Message:     rowString(rows[0], "message"),
	}
}

func remoteFromRow(row Row) models.Remote {
	return models.Remote{
		Name: rowString(row, "name"),
		URL:  rowString(row, "url"),
	}
}

// tableDiffFromRow maps a dolt_diff_summary row. The from/to table
// names differ only on renames; one of them is empty for added or
// dropped tables.
func tableDiffFromRow(row Row) models.TableDiff {
	return models.TableDiff{
		FromTable:    rowString(row, "from_table_name"),
		ToTable:      rowString(row, "to_table_name"),
		DiffType:     rowString(row, "diff_type"),
		DataChange:   rowBool(row, "data_change"),
		SchemaChange: rowBool(row, "schema_change"),
	}
}

func branchFromRow(row Row) models.Branch {
	return models.Branch{
		Name:                rowString(row, "name"),
		Hash:                rowString(row, "hash"),
		LatestCommitter:     rowString(row, "latest_committer"),
		LatestCommitMessage: rowString(row, "latest_commit_message"),
	}
}

// --- scalar coercion helpers ---

func rowString(row Row, col string) string {
	switch v := row[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func rowBool(row Row, col string) bool {
	switch v := row[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}

func rowInt(row Row, col string) int {
	switch v := row[col].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case string:
		n := 0
		for _, r := range v {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		return n
	default:
		return 0
	}
}

func rowTime(row Row, col string) time.Time {
	switch v := row[col].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
