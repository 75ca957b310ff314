package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage Dolt remotes",
	Long: `Manage the remotes configured on the Dolt server.

Without a subcommand, lists all configured remotes.

Examples:
  doltctl remote                        List all remotes
  doltctl remote -v                     List remotes with URLs
  doltctl remote add origin https://... Add a remote named 'origin'`,
	Run: runRemoteList,
}

var remoteVerbose bool

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add a new remote",
	Args:  cobra.ExactArgs(2),
	Run:   runRemoteAdd,
}

func init() {
	remoteCmd.Flags().BoolVarP(&remoteVerbose, "verbose", "v", false, "Show remote URLs")
	remoteCmd.AddCommand(remoteAddCmd)
}

func runRemoteList(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	remotes, err := c.Service.Remotes(ctx)
	if err != nil {
		exitError("%v", err)
	}

	for _, r := range remotes {
		if remoteVerbose {
			fmt.Printf("%s\t%s\n", r.Name, r.URL)
		} else {
			fmt.Println(r.Name)
		}
	}
}

func runRemoteAdd(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	name, url := args[0], args[1]
	if err := c.Service.AddRemote(ctx, name, url); err != nil {
		exitError("%v", err)
	}

	color.New(color.FgGreen).Printf("Added remote '%s' (%s)\n", name, url)
}
