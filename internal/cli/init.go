package cli

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/doltctl/internal/config"
	"github.com/kilupskalvis/doltctl/internal/dolt"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a doltctl installation",
	Long: `Initialize a doltctl installation in the current directory.
This creates a .doltctl directory holding the connection configuration,
and verifies the target server is Dolt-backed.`,
	Run: runInit,
}

var (
	initHost     string
	initPort     int
	initUser     string
	initDatabase string
	initAuthor   string
)

func init() {
	initCmd.Flags().StringVar(&initHost, "host", "127.0.0.1", "Dolt SQL server host")
	initCmd.Flags().IntVar(&initPort, "port", 3306, "Dolt SQL server port")
	initCmd.Flags().StringVar(&initUser, "user", "root", "SQL user")
	initCmd.Flags().StringVar(&initDatabase, "database", "", "Database name (required)")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "Default commit author in 'Name <email>' format")
	initCmd.MarkFlagRequired("database")
}

func runInit(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	if _, err := config.FindRoot(); err == nil {
		exitError("doltctl installation already exists")
	}

	fmt.Printf("Initializing doltctl...\n")
	fmt.Printf("Dolt server: %s:%d/%s\n", initHost, initPort, initDatabase)

	db, err := dolt.Open(dolt.ConnParams{
		Host:     initHost,
		Port:     initPort,
		User:     initUser,
		Database: initDatabase,
	})
	if err != nil {
		exitError("failed to open database: %v", err)
	}
	defer db.Close()

	svc := dolt.NewService(dolt.NewSQLInvoker(db), dolt.Params{})

	fmt.Printf("Checking Dolt support...\n")
	if err := svc.Ping(ctx); err != nil {
		exitError("target is not a Dolt-backed database: %v", err)
	}

	branch, _ := svc.CurrentBranch(ctx)

	cfg, err := config.Initialize(config.Config{
		Host:     initHost,
		Port:     initPort,
		User:     initUser,
		Database: initDatabase,
		Author:   initAuthor,
	})
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	fmt.Printf("\nInitialized doltctl in %s\n", cfg.Path())
	fmt.Printf("Tracking database '%s' on branch %s\n", initDatabase, branch)
}
