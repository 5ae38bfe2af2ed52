// Package history records analyze runs in a SQLite database.
//
// Each run stores a summary row and one row per file holding the file's
// report as JSON, so "history show" can replay exactly what was reported.
// Two drivers are supported: "sqlite" (modernc.org/sqlite, pure Go, the
// default) and "sqlite3" (github.com/mattn/go-sqlite3, cgo).
//
// Runs older than history.retention_days are pruned after each recorded
// run, and on a cron schedule while watch mode is active.
//
//	store, err := history.Open(cfg.History, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	run, err := store.Record(ctx, history.Run{StartedAt: start, ToolVersion: version}, files)
package history
