package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/kilupskalvis/doltctl/internal/models"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff [TABLE]",
	Short: "Show changes between two refs",
	Long: `Show how the database differs between two refs.

Without a table, lists the changed tables. With a table, shows its
changed rows. Refs default to HEAD and WORKING, so a bare 'doltctl
diff' shows what is uncommitted.

Examples:
  doltctl diff                      Changed tables, HEAD vs working set
  doltctl diff users                Changed rows in 'users'
  doltctl diff --from main --to feature
  doltctl diff --from HEAD~1 users`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDiff,
}

var (
	diffFrom string
	diffTo   string
)

func init() {
	diffCmd.Flags().StringVar(&diffFrom, "from", "", "Starting ref (default HEAD)")
	diffCmd.Flags().StringVar(&diffTo, "to", "", "Ending ref (default WORKING)")
}

func runDiff(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	if len(args) == 1 {
		printTableDiff(ctx, c, args[0])
		return
	}

	diffs, err := c.Service.DiffSummary(ctx, diffFrom, diffTo)
	if err != nil {
		exitError("%v", err)
	}

	if len(diffs) == 0 {
		fmt.Println("No changes")
		return
	}

	for _, d := range diffs {
		notes := diffNotes(d)
		switch d.DiffType {
		case models.DiffAdded:
			color.New(color.FgGreen).Printf("+ %s%s\n", d.Table(), notes)
		case models.DiffDropped:
			color.New(color.FgRed).Printf("- %s%s\n", d.Table(), notes)
		case models.DiffRenamed:
			color.New(color.FgMagenta).Printf("> %s -> %s%s\n", d.FromTable, d.ToTable, notes)
		default:
			color.New(color.FgYellow).Printf("~ %s%s\n", d.Table(), notes)
		}
	}
	fmt.Printf("%d tables changed\n", len(diffs))
}

func diffNotes(d models.TableDiff) string {
	var parts []string
	if d.SchemaChange {
		parts = append(parts, "schema")
	}
	if d.DataChange {
		parts = append(parts, "data")
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func printTableDiff(ctx context.Context, c *cmdContext, table string) {
	rows, err := c.Service.TableDiff(ctx, diffFrom, diffTo, table)
	if err != nil {
		exitError("%v", err)
	}

	if len(rows) == 0 {
		fmt.Println("No changes")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, row := range rows {
		from, to := splitDiffRow(row)
		switch rowDiffType(row) {
		case "added":
			green.Printf("+++ %s\n", table)
			green.Printf("    %s\n", renderDiffValues(to))
		case "removed":
			red.Printf("--- %s\n", table)
			red.Printf("    %s\n", renderDiffValues(from))
		default:
			yellow.Printf("~~~ %s\n", table)
			red.Printf("  - %s\n", renderDiffValues(from))
			green.Printf("  + %s\n", renderDiffValues(to))
		}
		fmt.Println()
	}
}

func rowDiffType(row dolt.Row) string {
	if s, ok := row["diff_type"].(string); ok {
		return s
	}
	return ""
}

// splitDiffRow separates a dolt_diff row into the old and new column
// values; commit metadata columns are dropped.
func splitDiffRow(row dolt.Row) (from, to map[string]any) {
	from = make(map[string]any)
	to = make(map[string]any)
	for col, v := range row {
		switch {
		case col == "diff_type",
			col == "from_commit", col == "from_commit_date",
			col == "to_commit", col == "to_commit_date":
		case strings.HasPrefix(col, "from_"):
			from[strings.TrimPrefix(col, "from_")] = v
		case strings.HasPrefix(col, "to_"):
			to[strings.TrimPrefix(col, "to_")] = v
		}
	}
	return from, to
}

func renderDiffValues(values map[string]any) string {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Sprintf("%v", values)
	}
	return string(data)
}
