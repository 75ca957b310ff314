// Command doltctl is the Dolt version-control CLI.
package main

import (
	"os"

	"github.com/kilupskalvis/doltctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
