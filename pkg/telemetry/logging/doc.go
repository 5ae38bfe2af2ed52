// Package logging provides structured logging for cohesion on top of slog.
//
// Logs are written to stderr by default: stdout carries the JSON report and
// nothing else.
//
// # Basic Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "text"})
//	if err != nil {
//	    return err
//	}
//	logger.Info("analysis started", "files", len(paths))
//
// # Context Fields
//
// The run id, file path and rule id can be attached to a context. Any record
// logged with that context, through Logger or the *slog.Logger returned by
// Slog, carries them:
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithFile(ctx, "src/app.ts")
//	logger.Slog().WarnContext(ctx, "parse failed")
package logging
