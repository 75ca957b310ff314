package dolt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeFromRow_Defaults(t *testing.T) {
	entry := changeFromRow(Row{"table_name": "users"})
	assert.Equal(t, "users", entry.Table)
	assert.False(t, entry.Staged)
	assert.Equal(t, "modified", entry.Status)
}

func TestChangeFromRow_StagedVariants(t *testing.T) {
	assert.True(t, changeFromRow(Row{"staged": int64(1)}).Staged)
	assert.True(t, changeFromRow(Row{"staged": true}).Staged)
	assert.True(t, changeFromRow(Row{"staged": "1"}).Staged)
	assert.False(t, changeFromRow(Row{"staged": int64(0)}).Staged)
}

func TestCommitFromRow(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	c := commitFromRow(Row{
		"commit_hash": "a1b2c3",
		"committer":   "Alice",
		"email":       "alice@example.com",
		"date":        date,
		"message":     "fix schema\n\ndetails",
		"parents":     "p1",
	})
	assert.Equal(t, "a1b2c3", c.Hash)
	assert.Equal(t, "Alice <alice@example.com>", c.Author())
	assert.Equal(t, "fix schema", c.Subject())
	assert.Equal(t, date, c.Date)
	assert.Equal(t, []string{"p1"}, c.Parents)
	assert.False(t, c.IsMergeCommit())
}

func TestCommitFromRow_StringDate(t *testing.T) {
	c := commitFromRow(Row{"commit_hash": "x", "date": "2026-03-14 09:26:53"})
	assert.Equal(t, 2026, c.Date.Year())
}

func TestCommitHashFromRows(t *testing.T) {
	hash, ok := commitHashFromRows([]Row{{"hash": "abc"}})
	require.True(t, ok)
	assert.Equal(t, "abc", hash)

	_, ok = commitHashFromRows(nil)
	assert.False(t, ok)

	// Engine versions that name the column commit_hash.
	hash, ok = commitHashFromRows([]Row{{"commit_hash": "def"}})
	require.True(t, ok)
	assert.Equal(t, "def", hash)

	// A multi-column result must never yield a non-hash column, even
	// when the hash columns are absent.
	_, ok = commitHashFromRows([]Row{{"message": "update", "author": "Alice <a@example.com>"}})
	assert.False(t, ok)
}

func TestPullResultFromRows(t *testing.T) {
	r := pullResultFromRows([]Row{{"fast_forward": int64(1), "conflicts": int64(0), "message": ""}})
	assert.True(t, r.FastForward)
	assert.Equal(t, "fast-forward pull successful", r.Summary())

	r = pullResultFromRows(nil)
	assert.Equal(t, "already up to date", r.Summary())
}
