package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record staged changes",
	Long: `Create a new Dolt commit from staged changes.

By default, only staged changes are committed. Use -a to stage all
changes before committing.`,
	Run: runCommit,
}

var (
	commitMessage    string
	commitAuthor     string
	commitAll        bool
	commitAllowEmpty bool
)

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message (required)")
	commitCmd.Flags().StringVar(&commitAuthor, "author", "", "Author in 'Name <email>' format")
	commitCmd.Flags().BoolVarP(&commitAll, "all", "a", false, "Stage all changes before committing")
	commitCmd.Flags().BoolVar(&commitAllowEmpty, "allow-empty", false, "Allow a commit with no changes")
	commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	svc := c.Service

	if commitAll {
		if err := svc.Add(ctx, ""); err != nil {
			exitError("failed to stage changes: %v", err)
		}
	}

	hash, err := svc.Commit(ctx, commitMessage, dolt.CommitOptions{
		Author:     commitAuthor,
		AllowEmpty: commitAllowEmpty,
	})
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("[%s] %s\n", shortHash(hash), commitMessage)
	fmt.Printf(" commit %s\n", hash)
}
