package dolt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilupskalvis/doltctl/internal/models"
)

func newTestService(inv Invoker) *Service {
	return NewService(inv, Params{Author: "Test <test@localhost>"})
}

func TestAdd_SingleTable(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	err := svc.Add(context.Background(), "users")
	require.NoError(t, err)

	calls := mock.CallsTo(ProcAdd)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"users"}, calls[0].Args)
}

func TestAdd_NoTable_StagesAll(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	err := svc.Add(context.Background(), "")
	require.NoError(t, err)

	calls := mock.CallsTo(ProcAdd)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"-A"}, calls[0].Args)
}

func TestCommit_EmptyMessage_NoRoundTrip(t *testing.T) {
	for _, message := range []string{"", "   ", "\t\n"} {
		mock := NewMockInvoker()
		svc := newTestService(mock)

		_, err := svc.Commit(context.Background(), message, CommitOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Empty(t, mock.Invocations, "no procedure call should be issued for blank message %q", message)
	}
}

func TestCommit_ReturnsHash(t *testing.T) {
	mock := NewMockInvoker()
	mock.CallResults[ProcCommit] = []Row{{"hash": "0123456789abcdef0123456789abcdef01234567"}}
	svc := newTestService(mock)

	hash, err := svc.Commit(context.Background(), "msg", CommitOptions{})
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", hash)

	calls := mock.CallsTo(ProcCommit)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"-m", "msg", "--author", "Test <test@localhost>"}, calls[0].Args)
}

func TestCommit_AllowEmptyAndAuthorOverride(t *testing.T) {
	mock := NewMockInvoker()
	mock.CallResults[ProcCommit] = []Row{{"hash": "deadbeef"}}
	svc := newTestService(mock)

	_, err := svc.Commit(context.Background(), "msg", CommitOptions{
		Author:     "Someone <s@example.com>",
		AllowEmpty: true,
	})
	require.NoError(t, err)

	calls := mock.CallsTo(ProcCommit)
	require.Len(t, calls, 1)
	assert.Equal(t,
		[]any{"-m", "msg", "--author", "Someone <s@example.com>", "--allow-empty"},
		calls[0].Args)
}

func TestCommit_NothingToCommit(t *testing.T) {
	mock := NewMockInvoker()
	mock.CallErrs[ProcCommit] = errors.New("Error 1105: nothing to commit")
	svc := newTestService(mock)

	_, err := svc.Commit(context.Background(), "msg", CommitOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestCommit_NoRows_EmptyResult(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	_, err := svc.Commit(context.Background(), "msg", CommitOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestStatus_CleanWorkingSet(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	changes, err := svc.Status(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestStatus_MapsRows(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryResults["dolt_status"] = []Row{
		{"table_name": "users", "staged": int64(0), "status": "modified"},
	}
	svc := newTestService(mock)

	changes, err := svc.Status(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, models.ChangeEntry{Table: "users", Staged: false, Status: "modified"}, changes[0])
}

func TestStatus_MissingStatusColumnDefaultsToModified(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryResults["dolt_status"] = []Row{
		{"table_name": "orders", "staged": int64(1)},
	}
	svc := newTestService(mock)

	changes, err := svc.Status(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, models.StatusModified, changes[0].Status)
	assert.True(t, changes[0].Staged)
}

func TestStatus_ExcludesIgnoredByDefault(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	_, err := svc.Status(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, mock.Invocations, 1)
	assert.Contains(t, mock.Invocations[0].Query, "dolt_ignore")

	mock = NewMockInvoker()
	svc = newTestService(mock)
	_, err = svc.Status(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, mock.Invocations, 1)
	assert.NotContains(t, mock.Invocations[0].Query, "dolt_ignore")
}

func TestLog_DefaultLimit(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	_, err := svc.Log(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, mock.Invocations, 1)
	assert.Equal(t, []any{DefaultLogLimit}, mock.Invocations[0].Args)
}

func TestLog_PreservesEngineOrder(t *testing.T) {
	mock := NewMockInvoker()
	newer := time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)
	older := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.QueryResults["dolt_log"] = []Row{
		{"commit_hash": "bbb", "committer": "a", "email": "a@x", "date": newer, "message": "second"},
		{"commit_hash": "aaa", "committer": "a", "email": "a@x", "date": older, "message": "first", "parents": ""},
	}
	svc := newTestService(mock)

	commits, err := svc.Log(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "bbb", commits[0].Hash)
	assert.Equal(t, "aaa", commits[1].Hash)
	assert.True(t, !commits[0].Date.Before(commits[1].Date))
}

func TestLog_ParsesParents(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryResults["dolt_log"] = []Row{
		{"commit_hash": "ccc", "committer": "a", "email": "a@x",
			"date": time.Now(), "message": "merge", "parents": "aaa, bbb"},
	}
	svc := newTestService(mock)

	commits, err := svc.Log(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, []string{"aaa", "bbb"}, commits[0].Parents)
	assert.True(t, commits[0].IsMergeCommit())
}

func TestPush_ArgShaping(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	err := svc.Push(context.Background(), PushOptions{})
	require.NoError(t, err)

	calls := mock.CallsTo(ProcPush)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"origin"}, calls[0].Args)
}

func TestPush_ForceAndBranch(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	err := svc.Push(context.Background(), PushOptions{Remote: "upstream", Branch: "main", Force: true})
	require.NoError(t, err)

	calls := mock.CallsTo(ProcPush)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"-f", "upstream", "main"}, calls[0].Args)
}

func TestPush_RemoteUserFromParams(t *testing.T) {
	mock := NewMockInvoker()
	svc := NewService(mock, Params{RemoteUser: "deploy"})

	err := svc.Push(context.Background(), PushOptions{Branch: "main"})
	require.NoError(t, err)

	calls := mock.CallsTo(ProcPush)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"--user", "deploy", "origin", "main"}, calls[0].Args)
}

func TestPush_FailureIsRemoteOperation(t *testing.T) {
	mock := NewMockInvoker()
	mock.CallErrs[ProcPush] = errors.New("Error 1105: permission denied: remote rejected")
	svc := newTestService(mock)

	err := svc.Push(context.Background(), PushOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteOperation)
	assert.Contains(t, err.Error(), "remote rejected")
}

func TestPush_PasswordHint(t *testing.T) {
	mock := NewMockInvoker()
	mock.CallErrs[ProcPush] = errors.New("Error 1105: must set DOLT_REMOTE_PASSWORD")
	svc := newTestService(mock)

	err := svc.Push(context.Background(), PushOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dolt server's environment")
}

func TestPull_DefaultsToCurrentBranch(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryResults["active_branch"] = []Row{{"branch": "main"}}
	mock.CallResults[ProcPull] = []Row{{"fast_forward": int64(1), "conflicts": int64(0)}}
	svc := newTestService(mock)

	result, err := svc.Pull(context.Background(), PullOptions{})
	require.NoError(t, err)
	assert.True(t, result.FastForward)
	assert.Zero(t, result.Conflicts)

	calls := mock.CallsTo(ProcPull)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"origin", "main"}, calls[0].Args)
}

func TestPull_ReportsConflicts(t *testing.T) {
	mock := NewMockInvoker()
	mock.CallResults[ProcPull] = []Row{{"fast_forward": int64(0), "conflicts": int64(3)}}
	svc := newTestService(mock)

	result, err := svc.Pull(context.Background(), PullOptions{Branch: "main"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Conflicts)
	assert.Equal(t, "pulled with conflicts", result.Summary())
}

func TestFetch_IssuesFetchNotPull(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	err := svc.Fetch(context.Background(), "")
	require.NoError(t, err)

	assert.Len(t, mock.CallsTo(ProcFetch), 1)
	assert.Empty(t, mock.CallsTo(ProcPull))
}

func TestTranslate_ProcedureMissing(t *testing.T) {
	mock := NewMockInvoker()
	mock.CallErrs[ProcAdd] = &mysql.MySQLError{Number: 1305, Message: "PROCEDURE DOLT_ADD does not exist"}
	svc := newTestService(mock)

	err := svc.Add(context.Background(), "users")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcedureNotAvailable)
}

func TestTranslate_StatusTableMissing(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryErrs["dolt_status"] = &mysql.MySQLError{Number: 1146, Message: "table dolt_status doesn't exist"}
	svc := newTestService(mock)

	_, err := svc.Status(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcedureNotAvailable)
}

func TestTranslate_ConnectionFailure(t *testing.T) {
	mock := NewMockInvoker()
	mock.Err = errors.New("dial tcp 127.0.0.1:3306: connection refused")
	svc := newTestService(mock)

	_, err := svc.Log(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestAddRemote_Validation(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	err := svc.AddRemote(context.Background(), "", "https://example.com/repo")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, mock.Invocations)
}

func TestCurrentBranch_DefaultsToMain(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	branch, err := svc.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestDiffSummary_MapsRowsAndDefaultsRefs(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryResults["dolt_diff_summary"] = []Row{
		{"from_table_name": "", "to_table_name": "users", "diff_type": "added", "data_change": true, "schema_change": true},
		{"from_table_name": "orders", "to_table_name": "orders", "diff_type": "modified", "data_change": true, "schema_change": false},
	}
	svc := newTestService(mock)

	diffs, err := svc.DiffSummary(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.Equal(t, "users", diffs[0].Table())
	assert.Equal(t, models.DiffAdded, diffs[0].DiffType)
	assert.True(t, diffs[0].SchemaChange)
	assert.Equal(t, models.DiffModified, diffs[1].DiffType)
	assert.False(t, diffs[1].SchemaChange)

	require.Len(t, mock.Invocations, 1)
	assert.Equal(t, []any{"HEAD", "WORKING"}, mock.Invocations[0].Args)
}

func TestDiffSummary_PassesExplicitRefs(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	_, err := svc.DiffSummary(context.Background(), "main", "feature")
	require.NoError(t, err)
	require.Len(t, mock.Invocations, 1)
	assert.Equal(t, []any{"main", "feature"}, mock.Invocations[0].Args)
}

func TestTableDiff_RequiresTable(t *testing.T) {
	mock := NewMockInvoker()
	svc := newTestService(mock)

	_, err := svc.TableDiff(context.Background(), "", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, mock.Invocations)
}

func TestTableDiff_PassesRefsAndTable(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryResults["dolt_diff("] = []Row{
		{"diff_type": "added", "to_id": int64(7), "to_name": "pending"},
	}
	svc := newTestService(mock)

	rows, err := svc.TableDiff(context.Background(), "HEAD~1", "HEAD", "orders")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "added", rows[0]["diff_type"])

	require.Len(t, mock.Invocations, 1)
	assert.Equal(t, []any{"HEAD~1", "HEAD", "orders"}, mock.Invocations[0].Args)
}

func TestBranches_MapsRows(t *testing.T) {
	mock := NewMockInvoker()
	mock.QueryResults["dolt_branches"] = []Row{
		{"name": "main", "hash": "aaa111", "latest_committer": "Alice", "latest_commit_message": "initial"},
		{"name": "feature", "hash": "bbb222", "latest_committer": "Bob", "latest_commit_message": "wip"},
	}
	svc := newTestService(mock)

	branches, err := svc.Branches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "main", branches[0].Name)
	assert.Equal(t, "aaa111", branches[0].Hash)
	assert.Equal(t, "Bob", branches[1].LatestCommitter)
}
