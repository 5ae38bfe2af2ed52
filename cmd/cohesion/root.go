package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/cohesion/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cohesion",
	Short: "Cohesion - house-style checker for JavaScript and TypeScript",
	Long: `Cohesion analyzes JavaScript and TypeScript sources against a fixed house
style and reports every violation with its rule, position and priority.

Rules can be waived per file with a structured comment:

  // COMPLEXITY: max-file-lines — generated lookup table
  // COMPLEXITY-TODO: max-function-length — split after launch (expires 2025-09-01)

Deferrals report a warning until their expiry date and a violation after it.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitOK
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Silent {
			fmt.Fprintln(os.Stderr, "Error:", exitErr)
		}
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return cli.ExitFailed
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default "+".cohesion.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
