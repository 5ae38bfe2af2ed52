package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/cohesion/pkg/cli"
	"mercator-hq/cohesion/pkg/exemption"
)

var exemptionsFlags struct {
	format string
}

var exemptionsCmd = &cobra.Command{
	Use:   "exemptions <file>...",
	Short: "List exemption and deferral comments",
	Long: `List every COMPLEXITY: and COMPLEXITY-TODO: comment with its live status.

Status is one of:
  exempt     permanent exemption in effect
  deferred   deferral in effect, with days remaining
  expired    deferral past its expiry date; the rule runs again
  malformed  the comment does not follow the grammar and is ignored
  shadowed   an earlier comment for the same rule takes precedence

Exits 1 when any comment is expired or malformed.

Examples:
  cohesion exemptions src/legacy/Table.tsx
  cohesion exemptions src/*.ts --format text`,
	Args: cobra.MinimumNArgs(1),
	RunE: listExemptions,
}

func init() {
	rootCmd.AddCommand(exemptionsCmd)

	exemptionsCmd.Flags().StringVarP(&exemptionsFlags.format, "format", "f", "json", "output format: json, text")
}

// exemptionEntry is one structured comment and its status.
type exemptionEntry struct {
	FilePath      string `json:"filePath"`
	Line          int    `json:"line"`
	Marker        string `json:"marker"`
	RuleID        string `json:"ruleId,omitempty"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	Expires       string `json:"expires,omitempty"`
	DaysRemaining *int   `json:"daysRemaining,omitempty"`
	Problem       string `json:"problem,omitempty"`
	Suggestion    string `json:"suggestion,omitempty"`
}

const statusShadowed = "shadowed"

func listExemptions(cmd *cobra.Command, args []string) error {
	if exemptionsFlags.format != string(cli.FormatJSON) && exemptionsFlags.format != string(cli.FormatText) {
		return fmt.Errorf("unknown format %q (want json or text)", exemptionsFlags.format)
	}

	today := exemption.SystemClock{}.Today()
	entries := []exemptionEntry{}
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return cli.NewCommandError("exemptions", err)
		}
		entries = append(entries, collectExemptions(path, src, today)...)
	}

	out := cmd.OutOrStdout()
	if exemptionsFlags.format == string(cli.FormatText) {
		writeExemptionsText(out, entries)
	} else if err := write(out, cli.FormatJSON, entries); err != nil {
		return err
	}

	var stale int
	for _, e := range entries {
		if e.Status == exemption.StateExpired.String() || e.Status == exemption.StateMalformed.String() {
			stale++
		}
	}
	if stale > 0 {
		return cli.NewExitError(cli.ExitFailed, fmt.Errorf("%d expired or malformed comment(s)", stale))
	}
	return nil
}

func collectExemptions(path string, src []byte, today time.Time) []exemptionEntry {
	table := exemption.Scan(src)
	var entries []exemptionEntry
	for _, c := range table.Comments() {
		status := exemption.Evaluate(c, today)
		entry := exemptionEntry{
			FilePath:   path,
			Line:       c.Line,
			Marker:     c.Marker(),
			RuleID:     c.RuleID,
			Status:     status.State.String(),
			Reason:     c.Reason,
			Problem:    c.Detail,
			Suggestion: c.Suggestion,
		}
		if !c.Malformed() && c.Deferred {
			entry.Expires = c.Expiry.Format(exemption.DateLayout)
			days := status.DaysRemaining
			entry.DaysRemaining = &days
		}
		if !c.Malformed() && !table.Applies(c) {
			entry.Status = statusShadowed
		}
		entries = append(entries, entry)
	}
	return entries
}

func writeExemptionsText(w io.Writer, entries []exemptionEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no exemption comments")
		return
	}
	for _, e := range entries {
		rule := e.RuleID
		if rule == "" {
			rule = "?"
		}
		detail := e.Reason
		switch {
		case e.Problem != "":
			detail = e.Problem
			if e.Suggestion != "" {
				detail += " (" + e.Suggestion + ")"
			}
		case e.DaysRemaining != nil && *e.DaysRemaining >= 0:
			detail = fmt.Sprintf("%s [until %s, %d day(s) left]", e.Reason, e.Expires, *e.DaysRemaining)
		case e.DaysRemaining != nil:
			detail = fmt.Sprintf("%s [expired %s]", e.Reason, e.Expires)
		}
		fmt.Fprintf(w, "%s:%d\t%-9s\t%s\t%s\n", e.FilePath, e.Line, e.Status, rule, detail)
	}
}
