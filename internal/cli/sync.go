package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [MESSAGE]",
	Short: "Stage, commit, and push in one step",
	Long: `Stage all working-set changes, commit them, and push to the remote.

If no message is given, a timestamped one is used. The pipeline
short-circuits on failure and reports partial progress: a commit that
lands before a failed push is never silently dropped.

Examples:
  doltctl sync "nightly import"
  doltctl sync --no-push           Commit only
  doltctl sync --force "rebuild"   Force push after commit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSync,
}

var (
	syncForce  bool
	syncNoPush bool
	syncAuthor string
	syncTables []string
)

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Force push to the remote (overwrite remote history)")
	syncCmd.Flags().BoolVar(&syncNoPush, "no-push", false, "Commit changes but don't push")
	syncCmd.Flags().StringVar(&syncAuthor, "author", "", "Author in 'Name <email>' format")
	syncCmd.Flags().StringSliceVar(&syncTables, "tables", nil, "Specific tables to stage (default: all with changes)")
}

// syncOptions holds one run of the sync pipeline.
type syncOptions struct {
	Message string
	Author  string
	Tables  []string
	Remote  string
	Force   bool
	NoPush  bool
}

func runSync(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	opts := syncOptions{
		Author: syncAuthor,
		Tables: syncTables,
		Remote: c.Config.DefaultRemote,
		Force:  syncForce,
		NoPush: syncNoPush,
	}
	if len(args) == 1 {
		opts.Message = args[0]
	}

	if err := syncPipeline(ctx, c.Service, opts, os.Stdout); err != nil {
		exitError("%v", err)
	}
}

// syncPipeline runs status, staging, commit, and push in order,
// short-circuiting on failure. A push failure after a commit landed
// reports the commit hash alongside the push reason so the commit is
// never silently dropped.
func syncPipeline(ctx context.Context, svc *dolt.Service, opts syncOptions, w io.Writer) error {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(w, "Checking for uncommitted changes...")
	changes, err := svc.Status(ctx, false)
	if err != nil {
		return err
	}

	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes to commit")
		if opts.NoPush {
			return nil
		}
		return syncPush(ctx, svc, opts, "", w)
	}

	fmt.Fprintln(w, "Found changes to commit:")
	for _, ch := range changes {
		state := "modified"
		if ch.Staged {
			state = "staged"
		}
		fmt.Fprintf(w, "  %s: %s (%s)\n", state, ch.Table, ch.Status)
	}

	// Stage either the requested tables or everything that changed.
	tables := opts.Tables
	if len(tables) == 0 {
		for _, ch := range changes {
			tables = append(tables, ch.Table)
		}
	}
	for _, table := range tables {
		if err := svc.Add(ctx, table); err != nil {
			yellow.Fprintf(w, "  Note: could not stage %s: %v\n", table, err)
			continue
		}
		fmt.Fprintf(w, "  Staged: %s\n", table)
	}

	message := opts.Message
	if message == "" {
		message = fmt.Sprintf("Database update at %s", time.Now().Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(w, "\nCommitting changes...\n")
	fmt.Fprintf(w, "   Message: %s\n", message)

	hash, err := svc.Commit(ctx, message, dolt.CommitOptions{Author: opts.Author})
	if err != nil {
		if errors.Is(err, dolt.ErrEmptyResult) {
			fmt.Fprintln(w, "No changes to commit after staging")
			return nil
		}
		return fmt.Errorf("commit failed: %w", err)
	}

	green.Fprintf(w, "Committed: %s (commit: %s)\n", message, shortHash(hash))

	if opts.NoPush {
		return nil
	}
	return syncPush(ctx, svc, opts, hash, w)
}

// syncPush pushes to the remote and, when a commit already landed,
// reports both the commit hash and the push failure.
func syncPush(ctx context.Context, svc *dolt.Service, opts syncOptions, committedHash string, w io.Writer) error {
	fmt.Fprintln(w, "\nPushing to remote...")
	if opts.Force {
		fmt.Fprintln(w, "   Using --force")
	}

	err := svc.Push(ctx, dolt.PushOptions{
		Remote: opts.Remote,
		Force:  opts.Force,
	})
	if err != nil {
		if committedHash != "" {
			return fmt.Errorf("committed %s but push failed: %w", shortHash(committedHash), err)
		}
		return fmt.Errorf("push failed: %w", err)
	}

	color.New(color.FgGreen).Fprintf(w, "Pushed to %s\n", opts.Remote)
	return nil
}
