package dolt

import (
	"context"
	"errors"
	"strings"

	"github.com/kilupskalvis/doltctl/internal/models"
)

// DefaultAuthor is used for commits when neither the config nor the
// caller supplies one. Without an explicit author Dolt attributes the
// commit to the authenticated SQL user (e.g. root@localhost).
const DefaultAuthor = "doltctl <doltctl@localhost>"

// DefaultLogLimit bounds Log when the caller passes no limit.
const DefaultLogLimit = 10

// Params configures a Service. Loaded once per process and immutable
// thereafter; in particular the remote credentials are read from the
// environment at startup so they never appear in call arguments or
// statement logs.
type Params struct {
	// Author is the default "Name <email>" commit author.
	Author string
	// RemoteUser authenticates push/pull/fetch against a hosted
	// remote via the --user flag. The matching password must be set
	// as DOLT_REMOTE_PASSWORD in the Dolt server's own environment;
	// it is never sent through this layer.
	RemoteUser string
}

// Service is the single call-in surface for version-control verbs.
// It validates arguments, shapes procedure calls, and translates every
// invoker-level failure into the closed error taxonomy. Raw driver
// errors never escape it.
type Service struct {
	inv    Invoker
	author string
	user   string
}

// NewService creates a Service over the given invoker.
func NewService(inv Invoker, p Params) *Service {
	author := p.Author
	if author == "" {
		author = DefaultAuthor
	}
	return &Service{inv: inv, author: author, user: p.RemoteUser}
}

// Add stages a single table, or every changed table when table is
// empty.
func (s *Service) Add(ctx context.Context, table string) error {
	var err error
	if table == "" {
		_, err = s.inv.Call(ctx, ProcAdd, "-A")
	} else {
		_, err = s.inv.Call(ctx, ProcAdd, table)
	}
	if err != nil {
		return s.translate("add", err)
	}
	return nil
}

// CommitOptions adjusts Commit behavior.
type CommitOptions struct {
	// Author overrides the configured commit author.
	Author string
	// AllowEmpty permits a commit with no staged changes.
	AllowEmpty bool
}

// Commit records staged changes and returns the new commit hash.
// A blank message fails with a validation error before any SQL is
// issued.
func (s *Service) Commit(ctx context.Context, message string, opts CommitOptions) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", newError(KindValidation, "commit", "commit message must not be empty", nil)
	}

	author := opts.Author
	if author == "" {
		author = s.author
	}

	args := []any{"-m", message, "--author", author}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}

	rows, err := s.inv.Call(ctx, ProcCommit, args...)
	if err != nil {
		if isNothingToCommit(err) {
			return "", newError(KindEmptyResult, "commit", "nothing to commit", err)
		}
		return "", s.translate("commit", err)
	}

	hash, ok := commitHashFromRows(rows)
	if !ok {
		return "", newError(KindEmptyResult, "commit", "engine returned no commit hash", nil)
	}
	return hash, nil
}

// Status returns the working-set changes in engine order. An empty
// slice means the working set is clean. Unless includeIgnored is set,
// tables matching dolt_ignore patterns are excluded; the pattern table
// itself belongs to the engine.
func (s *Service) Status(ctx context.Context, includeIgnored bool) ([]models.ChangeEntry, error) {
	query := `SELECT s.table_name, s.staged, s.status FROM dolt_status s
		WHERE NOT EXISTS (
			SELECT 1 FROM dolt_ignore i
			WHERE i.ignored = 1 AND s.table_name LIKE i.pattern
		)`
	if includeIgnored {
		query = "SELECT table_name, staged, status FROM dolt_status"
	}

	rows, err := s.inv.Query(ctx, query)
	if err != nil {
		return nil, s.translate("status", err)
	}

	changes := make([]models.ChangeEntry, 0, len(rows))
	for _, row := range rows {
		changes = append(changes, changeFromRow(row))
	}
	return changes, nil
}

// Log returns at most limit commits, most recent first. Zero rows is a
// valid result for an empty history. Row order comes straight from
// dolt_log and is never re-sorted here.
func (s *Service) Log(ctx context.Context, limit int) ([]models.Commit, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	rows, err := s.inv.Query(ctx,
		"SELECT commit_hash, committer, email, date, message, parents FROM dolt_log LIMIT ?", limit)
	if err != nil {
		return nil, s.translate("log", err)
	}

	commits := make([]models.Commit, 0, len(rows))
	for _, row := range rows {
		commits = append(commits, commitFromRow(row))
	}
	return commits, nil
}

// Default refs for diff reads: committed state against the working
// set, the same pair dolt itself diffs without arguments.
const (
	DefaultDiffFrom = "HEAD"
	DefaultDiffTo   = "WORKING"
)

func diffRefs(fromRef, toRef string) (string, string) {
	if fromRef == "" {
		fromRef = DefaultDiffFrom
	}
	if toRef == "" {
		toRef = DefaultDiffTo
	}
	return fromRef, toRef
}

// DiffSummary lists the tables that differ between two refs. The diff
// itself is computed by the engine; this is a read of its
// dolt_diff_summary table function.
func (s *Service) DiffSummary(ctx context.Context, fromRef, toRef string) ([]models.TableDiff, error) {
	fromRef, toRef = diffRefs(fromRef, toRef)
	rows, err := s.inv.Query(ctx, "SELECT * FROM dolt_diff_summary(?, ?)", fromRef, toRef)
	if err != nil {
		return nil, s.translate("diff", err)
	}

	diffs := make([]models.TableDiff, 0, len(rows))
	for _, row := range rows {
		diffs = append(diffs, tableDiffFromRow(row))
	}
	return diffs, nil
}

// TableDiff returns the row-level diff of one table between two refs.
// The column set depends on the table's schema, so the rows stay
// untyped: from_/to_ prefixed columns plus a diff_type per row.
func (s *Service) TableDiff(ctx context.Context, fromRef, toRef, table string) ([]Row, error) {
	if table == "" {
		return nil, newError(KindValidation, "diff", "table name is required for a row-level diff", nil)
	}
	fromRef, toRef = diffRefs(fromRef, toRef)
	rows, err := s.inv.Query(ctx, "SELECT * FROM dolt_diff(?, ?, ?)", fromRef, toRef, table)
	if err != nil {
		return nil, s.translate("diff", err)
	}
	return rows, nil
}

// PushOptions adjusts Push behavior.
type PushOptions struct {
	Remote string // defaults to "origin"
	Branch string // defaults to the engine's current branch
	Force  bool
}

// Push uploads the branch to a remote. Credentials come from the
// configured remote user; the password stays in the server's
// environment.
func (s *Service) Push(ctx context.Context, opts PushOptions) error {
	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}

	var args []any
	if s.user != "" {
		args = append(args, "--user", s.user)
	}
	if opts.Force {
		args = append(args, "-f")
	}
	args = append(args, remote)
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	}

	if _, err := s.inv.Call(ctx, ProcPush, args...); err != nil {
		return s.translateRemote("push", err)
	}
	return nil
}

// PullOptions adjusts Pull behavior.
type PullOptions struct {
	Remote string // defaults to "origin"
	Branch string // defaults to the engine's current branch
}

// Pull fetches and merges a remote branch. Conflict detection is the
// engine's job; the result row is surfaced as-is.
func (s *Service) Pull(ctx context.Context, opts PullOptions) (models.PullResult, error) {
	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}

	branch := opts.Branch
	if branch == "" {
		var err error
		branch, err = s.CurrentBranch(ctx)
		if err != nil {
			return models.PullResult{}, err
		}
	}

	rows, err := s.inv.Call(ctx, ProcPull, remote, branch)
	if err != nil {
		return models.PullResult{}, s.translateRemote("pull", err)
	}
	return pullResultFromRows(rows), nil
}

// Fetch downloads remote refs without merging, so the caller can
// inspect before integrating.
func (s *Service) Fetch(ctx context.Context, remote string) error {
	if remote == "" {
		remote = "origin"
	}
	if _, err := s.inv.Call(ctx, ProcFetch, remote); err != nil {
		return s.translateRemote("fetch", err)
	}
	return nil
}

// CurrentBranch returns the branch the session is on.
func (s *Service) CurrentBranch(ctx context.Context) (string, error) {
	rows, err := s.inv.Query(ctx, "SELECT active_branch() AS branch")
	if err != nil {
		return "", s.translate("current-branch", err)
	}
	if len(rows) == 0 {
		return "main", nil
	}
	return rowString(rows[0], "branch"), nil
}

// Branches lists the branches known to the engine.
func (s *Service) Branches(ctx context.Context) ([]models.Branch, error) {
	rows, err := s.inv.Query(ctx,
		"SELECT name, hash, latest_committer, latest_commit_message FROM dolt_branches")
	if err != nil {
		return nil, s.translate("branches", err)
	}

	branches := make([]models.Branch, 0, len(rows))
	for _, row := range rows {
		branches = append(branches, branchFromRow(row))
	}
	return branches, nil
}

// Remotes lists the configured remotes.
func (s *Service) Remotes(ctx context.Context) ([]models.Remote, error) {
	rows, err := s.inv.Query(ctx, "SELECT name, url FROM dolt_remotes")
	if err != nil {
		return nil, s.translate("remotes", err)
	}

	remotes := make([]models.Remote, 0, len(rows))
	for _, row := range rows {
		remotes = append(remotes, remoteFromRow(row))
	}
	return remotes, nil
}

// AddRemote registers a new remote with the engine.
func (s *Service) AddRemote(ctx context.Context, name, url string) error {
	if name == "" || url == "" {
		return newError(KindValidation, "remote-add", "remote name and url are required", nil)
	}
	if _, err := s.inv.Call(ctx, ProcRemote, "add", name, url); err != nil {
		return s.translate("remote-add", err)
	}
	return nil
}

// IgnoredPatterns returns the active dolt_ignore patterns. The engine
// itself applies them to status and commit scope; this is display
// only.
func (s *Service) IgnoredPatterns(ctx context.Context) ([]string, error) {
	rows, err := s.inv.Query(ctx, "SELECT pattern FROM dolt_ignore WHERE ignored = 1")
	if err != nil {
		return nil, s.translate("ignored", err)
	}

	patterns := make([]string, 0, len(rows))
	for _, row := range rows {
		patterns = append(patterns, rowString(row, "pattern"))
	}
	return patterns, nil
}

// Ping verifies the target speaks Dolt by calling active_branch().
// A plain MySQL server fails here with a procedure-not-available
// error, which is the misconfiguration signal init looks for.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.CurrentBranch(ctx)
	return err
}

// translate converts a raw invoker failure into the closed taxonomy.
// Residual engine rejections on local verbs are argument problems the
// caller can correct, so they map to validation.
func (s *Service) translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var derr *Error
	if errors.As(err, &derr) {
		return derr
	}
	switch {
	case isConnectionFailure(err):
		return newError(KindConnection, op, "cannot reach the database", err)
	case isProcedureMissing(err):
		return newError(KindProcedureNotAvailable, op,
			"target database does not expose Dolt version-control procedures", err)
	default:
		return newError(KindValidation, op, err.Error(), err)
	}
}

// translateRemote is translate for push/pull/fetch: residual engine
// failures become remote-operation errors carrying the engine message
// verbatim.
func (s *Service) translateRemote(op string, err error) error {
	if err == nil {
		return nil
	}
	var derr *Error
	if errors.As(err, &derr) {
		return derr
	}
	switch {
	case isConnectionFailure(err):
		return newError(KindConnection, op, "cannot reach the database", err)
	case isProcedureMissing(err):
		return newError(KindProcedureNotAvailable, op,
			"target database does not expose Dolt version-control procedures", err)
	default:
		msg := err.Error()
		if strings.Contains(msg, "DOLT_REMOTE_PASSWORD") {
			msg += " (DOLT_PUSH and DOLT_PULL require DOLT_REMOTE_PASSWORD to be set in the Dolt server's environment)"
		}
		return newError(KindRemoteOperation, op, msg, err)
	}
}

// isNothingToCommit detects Dolt's in-band "nothing to commit"
// failure, which arrives as a regular engine error.
func isNothingToCommit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nothing to commit") || strings.Contains(msg, "no changes added to commit")
}
