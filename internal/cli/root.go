// Package cli holds the studioctl operator commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studioctl",
		Short: "Operator tooling for the Driftwood Web Studio API",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newCreateAdminCmd())
	root.AddCommand(newExportBookingsCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
