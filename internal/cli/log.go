package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history",
	Long:  `Display the commit history, most recent first.`,
	Run:   runLog,
}

var (
	logOneline bool
	logLimit   int
)

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "Show each commit on a single line")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of commits to show")
}

func runLog(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	commits, err := c.Service.Log(ctx, logLimit)
	if err != nil {
		exitError("%v", err)
	}

	if len(commits) == 0 {
		fmt.Println("No commits yet")
		return
	}

	yellow := color.New(color.FgYellow)
	magenta := color.New(color.FgMagenta)

	for _, commit := range commits {
		if logOneline {
			yellow.Printf("%s ", commit.ShortHash())
			if commit.IsMergeCommit() {
				magenta.Print("[merge] ")
			}
			fmt.Println(commit.Subject())
			continue
		}

		yellow.Printf("commit %s", commit.Hash)
		if commit.IsMergeCommit() {
			magenta.Print(" [merge]")
		}
		fmt.Println()
		fmt.Printf("Author: %s\n", commit.Author())
		fmt.Printf("Date:   %s\n", commit.Date.Format("Mon Jan 2 15:04:05 2006"))
		fmt.Printf("\n    %s\n\n", commit.Subject())
	}
}
