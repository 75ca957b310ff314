package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [<table>]",
	Short: "Stage changes for commit",
	Long: `Stage table changes for the next commit.

Examples:
  doltctl add           Stage all changed tables
  doltctl add users     Stage only the users table`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	table := ""
	if len(args) == 1 {
		table = args[0]
	}

	if err := c.Service.Add(ctx, table); err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	if table == "" {
		green.Println("Staged all changes")
	} else {
		green.Printf("Staged: %s\n", table)
	}
}
