package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [<remote>]",
	Short: "Download refs from a remote without merging",
	Args:  cobra.MaximumNArgs(1),
	Run:   runFetch,
}

func runFetch(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	remote := c.Config.DefaultRemote
	if len(args) == 1 {
		remote = args[0]
	}

	fmt.Printf("Fetching from %s...\n", remote)
	if err := c.Service.Fetch(ctx, remote); err != nil {
		exitError("%v", err)
	}

	color.New(color.FgGreen).Printf("Fetched from %s\n", remote)
}
