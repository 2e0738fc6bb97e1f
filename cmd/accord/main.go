package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/accord/internal/cli"
	"github.com/example/accord/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "accord",
		Short:   "accord - MoU lifecycle management",
		Version: version.String(),
		Long: `accord is a CLI tool for managing memoranda of understanding:
lifecycle transitions, deliverable tracking, performance scoring,
renewal workflows and alert scheduling.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.MoUCmd())
	rootCmd.AddCommand(cli.RenewalCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
