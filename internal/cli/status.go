package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/doltctl/internal/models"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working set status",
	Long:  `Show the uncommitted changes in the Dolt working set.`,
	Run:   runStatus,
}

var (
	statusAll bool
	statusLog int
)

func init() {
	statusCmd.Flags().BoolVar(&statusAll, "all", false, "Include tables matching dolt_ignore patterns")
	statusCmd.Flags().IntVar(&statusLog, "log", 0, "Also show the N most recent commits")
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	svc := c.Service

	branch, err := svc.CurrentBranch(ctx)
	if err != nil {
		exitError("%v", err)
	}
	fmt.Printf("On branch %s\n", branch)

	changes, err := svc.Status(ctx, statusAll)
	if err != nil {
		exitError("%v", err)
	}

	if len(changes) == 0 {
		fmt.Println("\nNothing to commit, working set clean")
	} else {
		printWorkingSet(changes)
	}

	if !statusAll {
		if patterns, err := svc.IgnoredPatterns(ctx); err == nil && len(patterns) > 0 {
			fmt.Printf("\nIgnored patterns: %s\n", strings.Join(patterns, ", "))
		}
	}

	if statusLog > 0 {
		commits, err := svc.Log(ctx, statusLog)
		if err != nil {
			exitError("%v", err)
		}

		yellow := color.New(color.FgYellow)
		fmt.Printf("\nRecent commits (last %d):\n", statusLog)
		for _, commit := range commits {
			yellow.Printf("  %s", commit.ShortHash())
			fmt.Printf(" %s - %s\n", commit.Date.Format("2006-01-02 15:04"), commit.Subject())
		}
	}
}

// printWorkingSet prints changed tables with color coding, staged
// entries first.
func printWorkingSet(changes []models.ChangeEntry) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	var staged, unstaged []models.ChangeEntry
	for _, ch := range changes {
		if ch.Staged {
			staged = append(staged, ch)
		} else {
			unstaged = append(unstaged, ch)
		}
	}

	printEntry := func(ch models.ChangeEntry) {
		switch ch.Status {
		case models.StatusAdded:
			green.Printf("        new:      %s\n", ch.Table)
		case models.StatusRemoved:
			red.Printf("        deleted:  %s\n", ch.Table)
		case models.StatusConflict:
			red.Printf("        conflict: %s\n", ch.Table)
		default:
			yellow.Printf("        %s: %s\n", ch.Status, ch.Table)
		}
	}

	if len(staged) > 0 {
		fmt.Println("\nChanges to be committed:")
		fmt.Println()
		for _, ch := range staged {
			printEntry(ch)
		}
	}

	if len(unstaged) > 0 {
		fmt.Println("\nChanges not staged for commit:")
		cyan.Println("  (use \"doltctl add <table>\" to stage)")
		fmt.Println()
		for _, ch := range unstaged {
			printEntry(ch)
		}
	}

	fmt.Printf("\n%d staged, %d unstaged\n", len(staged), len(unstaged))

	if len(staged) > 0 {
		fmt.Println("\nUse 'doltctl commit -m \"message\"' to commit changes.")
	} else {
		fmt.Println("\nUse 'doltctl add' to stage all changes.")
	}
}
