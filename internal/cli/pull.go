package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch and merge from a remote",
	Long: `Download commits from a Dolt remote and merge them into the current
branch. With --fetch-only, the refs are downloaded without merging so
they can be inspected first.

Examples:
  doltctl pull                      Pull the current branch from the default remote
  doltctl pull --remote upstream    Pull from 'upstream'
  doltctl pull --fetch-only         Fetch without merging`,
	Run: runPull,
}

var (
	pullRemote    string
	pullBranch    string
	pullFetchOnly bool
)

func init() {
	pullCmd.Flags().StringVar(&pullRemote, "remote", "", "Remote name (default: configured default remote)")
	pullCmd.Flags().StringVar(&pullBranch, "branch", "", "Branch to pull (default: current branch)")
	pullCmd.Flags().BoolVar(&pullFetchOnly, "fetch-only", false, "Only fetch, don't merge")
}

func runPull(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	svc := c.Service
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	remote := pullRemote
	if remote == "" {
		remote = c.Config.DefaultRemote
	}

	current, err := svc.CurrentBranch(ctx)
	if err != nil {
		exitError("%v", err)
	}
	fmt.Printf("Current branch: %s\n", current)

	if pullFetchOnly {
		fmt.Printf("Fetching from %s...\n", remote)
		if err := svc.Fetch(ctx, remote); err != nil {
			exitError("%v", err)
		}
		green.Printf("Fetched from %s\n", remote)
	} else {
		target := pullBranch
		if target == "" {
			target = current
		}
		fmt.Printf("Pulling %s from %s...\n", target, remote)

		result, err := svc.Pull(ctx, dolt.PullOptions{Remote: remote, Branch: target})
		if err != nil {
			exitError("%v", err)
		}

		if result.Conflicts > 0 {
			yellow.Printf("Pulled with %d conflict(s)\n", result.Conflicts)
		} else {
			green.Println(result.Summary())
		}
	}

	// Informational only; a log failure here doesn't fail the pull.
	if commits, err := svc.Log(ctx, 1); err == nil && len(commits) > 0 {
		fmt.Printf("\nLatest commit: %s - %s\n", commits[0].ShortHash(), commits[0].Subject())
	}
}
