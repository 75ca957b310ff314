// Package cli implements the command-line interface for doltctl.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/kilupskalvis/doltctl/internal/config"
	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config  *config.Config
	DB      *sql.DB
	Service *dolt.Service
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
}

// initContext loads the config and opens the database connection.
// Each command issues its statements over this single handle; the
// engine's own transaction discipline serializes concurrent writers.
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	db, err := dolt.Open(dolt.ConnParams{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
	})
	if err != nil {
		exitError("failed to open database: %v", err)
	}

	svc := dolt.NewService(dolt.NewSQLInvoker(db), dolt.Params{
		Author:     cfg.Author,
		RemoteUser: cfg.RemoteUser,
	})

	return &cmdContext{Config: cfg, DB: db, Service: svc}
}

var rootCmd = &cobra.Command{
	Use:   "doltctl",
	Short: "Dolt version control client",
	Long: `doltctl issues version-control operations (add, commit, push, pull,
status, log) against a Dolt database through its SQL interface. The
version-control semantics live entirely in the Dolt server; doltctl
only shapes procedure calls and presents the results.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(adminCmd)
}

// exitError prints an error and exits with the domain-failure code.
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortHash returns the first 8 characters of a commit hash
func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
