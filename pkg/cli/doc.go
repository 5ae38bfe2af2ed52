/*
Package cli provides command-line interface utilities for the cohesion
command.

Output Formatting:

Reports are written as JSON by default, which is the wire contract consumed
by editors and CI. Text output is meant for people and is coloured when
stdout is a terminal. CSV output has one row per violation.

	formatter := cli.NewFormatter(cli.FormatText, cli.ColorEnabled(os.Stdout))
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

A batch is formatted as a []any holding lint.Report and lint.ErrorReport
values in input order.

Progress Reporting:

Batches of files show a progress bar on stderr when it is a terminal:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(files))
	// call progress.Advance() as each file completes
	progress.Finish()

Exit Codes:

Commands return *ExitError to select the process exit code. 0 means every
file is compliant; 1 means violations or a processing error.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
