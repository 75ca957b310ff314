package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "List branches on the Dolt server",
	Long: `List the branches known to the Dolt server.

Branch creation and deletion happen on the server side; this command
only reports what exists. The current branch is marked with '*'.

Examples:
  doltctl branch       List all branches
  doltctl branch -v    List branches with their latest commit`,
	Run: runBranch,
}

var branchVerbose bool

func init() {
	branchCmd.Flags().BoolVarP(&branchVerbose, "verbose", "v", false, "Show latest commit per branch")
}

func runBranch(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	current, err := c.Service.CurrentBranch(ctx)
	if err != nil {
		exitError("%v", err)
	}

	branches, err := c.Service.Branches(ctx)
	if err != nil {
		exitError("%v", err)
	}

	for _, b := range branches {
		marker := " "
		name := b.Name
		if b.Name == current {
			marker = "*"
			name = color.New(color.FgGreen).Sprint(b.Name)
		}
		if branchVerbose {
			fmt.Printf("%s %s\t%s\t%s\n", marker, name, shortHash(b.Hash), b.LatestCommitMessage)
		} else {
			fmt.Printf("%s %s\n", marker, name)
		}
	}
}
