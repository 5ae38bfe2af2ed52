package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"mercator-hq/cohesion/pkg/cli"
	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/rules"
)

var rulesFlags struct {
	format string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules and their priorities",
	Long: `List every rule in registry order with its priority and whether the current
configuration enables it.

Priorities order the fix work: 1 structure, 2 naming, 3 extraction,
4 formatting, 5 experimental. Any rule can be waived in a file with
"// COMPLEXITY: <rule> — <reason>".`,
	Args: cobra.NoArgs,
	RunE: listRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVarP(&rulesFlags.format, "format", "f", "text", "output format: json, text")
}

// ruleEntry describes one rule for listing.
type ruleEntry struct {
	ID           string `json:"id"`
	Priority     int    `json:"priority"`
	Class        string `json:"class"`
	Description  string `json:"description"`
	Enabled      bool   `json:"enabled"`
	Experimental bool   `json:"experimental,omitempty"`
	TextOnly     bool   `json:"textOnly,omitempty"`
}

func listRules(cmd *cobra.Command, args []string) error {
	if rulesFlags.format != string(cli.FormatJSON) && rulesFlags.format != string(cli.FormatText) {
		return fmt.Errorf("unknown format %q (want json or text)", rulesFlags.format)
	}
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := ruleEntries(a.cfg.Rules)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rulesFlags.format == string(cli.FormatJSON) {
		return write(out, cli.FormatJSON, entries)
	}
	writeRulesText(out, entries)
	return nil
}

func ruleEntries(cfg config.RulesConfig) ([]ruleEntry, error) {
	active, err := rules.Registry(cfg)
	if err != nil {
		return nil, cli.NewCommandError("rules", err)
	}
	enabled := make([]string, len(active))
	for i, r := range active {
		enabled[i] = r.ID
	}

	catalog := rules.Catalog(cfg)
	entries := make([]ruleEntry, len(catalog))
	for i, r := range catalog {
		entries[i] = ruleEntry{
			ID:           r.ID,
			Priority:     int(r.Priority),
			Class:        r.Priority.String(),
			Description:  r.Description,
			Enabled:      slices.Contains(enabled, r.ID),
			Experimental: r.Experimental,
			TextOnly:     r.TextOnly,
		}
	}
	return entries, nil
}

func writeRulesText(w io.Writer, entries []ruleEntry) {
	for _, e := range entries {
		state := "on "
		if !e.Enabled {
			state = "off"
		}
		fmt.Fprintf(w, "%d %-12s %s %-32s %s\n", e.Priority, e.Class, state, e.ID, e.Description)
	}
}
