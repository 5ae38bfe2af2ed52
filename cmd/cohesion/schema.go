package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/cohesion/pkg/lint"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of analyze reports",
	Long: `Print the JSON schema (draft 2020-12) describing the report that
"cohesion analyze" writes for a single file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(lint.ReportSchema())
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
