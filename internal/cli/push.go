package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/spf13/cobra"
)

var pushForce bool

var pushCmd = &cobra.Command{
	Use:   "push [<remote>] [<branch>]",
	Short: "Push commits to a remote",
	Long: `Upload local commits to a Dolt remote.

The remote user is taken from the DOLT_REMOTE_USER environment
variable; the matching password must be set as DOLT_REMOTE_PASSWORD in
the Dolt server's environment.

Examples:
  doltctl push                      Push the current branch to the default remote
  doltctl push origin main          Push 'main' to 'origin'
  doltctl push --force origin main  Force push (overwrites remote)`,
	Args: cobra.MaximumNArgs(2),
	Run:  runPush,
}

func init() {
	pushCmd.Flags().BoolVarP(&pushForce, "force", "f", false, "Force push (overwrite remote branch)")
}

func runPush(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	remote := c.Config.DefaultRemote
	branch := ""
	if len(args) >= 1 {
		remote = args[0]
	}
	if len(args) >= 2 {
		branch = args[1]
	}

	fmt.Printf("Pushing to %s...\n", remote)

	err := c.Service.Push(ctx, dolt.PushOptions{
		Remote: remote,
		Branch: branch,
		Force:  pushForce,
	})
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Pushed to %s\n", remote)
	if pushForce {
		color.New(color.FgYellow).Println("(force push)")
	}
}
