package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilupskalvis/doltctl/internal/dolt"
)

func newSyncService(mock *dolt.MockInvoker) *dolt.Service {
	return dolt.NewService(mock, dolt.Params{Author: "Test <test@localhost>"})
}

func dirtyWorkingSet(mock *dolt.MockInvoker) {
	mock.QueryResults["dolt_status"] = []dolt.Row{
		{"table_name": "users", "staged": false, "status": "modified"},
	}
	mock.CallResults[dolt.ProcCommit] = []dolt.Row{{"hash": "abcdef1234567890"}}
}

func TestSync_NoPushSkipsPushProcedure(t *testing.T) {
	mock := dolt.NewMockInvoker()
	dirtyWorkingSet(mock)
	svc := newSyncService(mock)

	var out bytes.Buffer
	err := syncPipeline(context.Background(), svc, syncOptions{
		Message: "nightly import",
		Remote:  "origin",
		NoPush:  true,
	}, &out)
	require.NoError(t, err)

	assert.Len(t, mock.CallsTo(dolt.ProcAdd), 1)
	assert.Len(t, mock.CallsTo(dolt.ProcCommit), 1)
	assert.Empty(t, mock.CallsTo(dolt.ProcPush))
	assert.Contains(t, out.String(), "Committed: nightly import")
}

func TestSync_PushesAfterCommit(t *testing.T) {
	mock := dolt.NewMockInvoker()
	dirtyWorkingSet(mock)
	svc := newSyncService(mock)

	var out bytes.Buffer
	err := syncPipeline(context.Background(), svc, syncOptions{
		Message: "nightly import",
		Remote:  "origin",
	}, &out)
	require.NoError(t, err)

	pushes := mock.CallsTo(dolt.ProcPush)
	require.Len(t, pushes, 1)
	assert.Equal(t, []any{"origin"}, pushes[0].Args)
	assert.Contains(t, out.String(), "Pushed to origin")
}

func TestSync_PushFailureReportsCommitHash(t *testing.T) {
	mock := dolt.NewMockInvoker()
	dirtyWorkingSet(mock)
	mock.CallErrs[dolt.ProcPush] = errors.New("remote 'origin' rejected the push")
	svc := newSyncService(mock)

	var out bytes.Buffer
	err := syncPipeline(context.Background(), svc, syncOptions{
		Message: "nightly import",
		Remote:  "origin",
	}, &out)
	require.Error(t, err)

	// The commit landed; the failure must name it and the push reason.
	assert.Len(t, mock.CallsTo(dolt.ProcCommit), 1)
	assert.Contains(t, err.Error(), "committed abcdef12 but push failed")
	assert.Contains(t, err.Error(), "rejected the push")
	assert.ErrorIs(t, err, dolt.ErrRemoteOperation)
}

func TestSync_CleanWorkingSetStillPushes(t *testing.T) {
	mock := dolt.NewMockInvoker()
	svc := newSyncService(mock)

	var out bytes.Buffer
	err := syncPipeline(context.Background(), svc, syncOptions{Remote: "origin"}, &out)
	require.NoError(t, err)

	assert.Empty(t, mock.CallsTo(dolt.ProcCommit))
	assert.Len(t, mock.CallsTo(dolt.ProcPush), 1)
	assert.Contains(t, out.String(), "No changes to commit")
}

func TestSync_CleanPushFailureHasNoCommitHash(t *testing.T) {
	mock := dolt.NewMockInvoker()
	mock.CallErrs[dolt.ProcPush] = errors.New("connection reset by peer")
	svc := newSyncService(mock)

	var out bytes.Buffer
	err := syncPipeline(context.Background(), svc, syncOptions{Remote: "origin"}, &out)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "committed")
	assert.Contains(t, err.Error(), "push failed")
}
