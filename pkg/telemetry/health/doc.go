// Package health serves liveness and readiness probes for watch mode.
//
// A long-running "cohesion watch" can be supervised like any other service:
// /healthz answers while the process is up, and /readyz runs the registered
// component checks (the file watcher, the rescan scheduler, the history
// database) and answers 503 when any of them fails.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("history", store.Ping)
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, health.VersionInfo{Version: version})
//
// Checks run concurrently, each bounded by the checker's timeout. A check
// that times out is reported unhealthy with the message "health check
// timeout".
package health
