package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercator-hq/cohesion/pkg/telemetry/health"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "cohesion_files_analyzed_total 3")
	})
	checker := health.New(time.Second)
	checker.RegisterCheck("watcher", func(ctx context.Context) error { return errors.New("stopped") })

	srv := New(Config{Metrics: metrics, Checker: checker}, discardLogger())

	tests := []struct {
		path string
		want int
	}{
		{"/metrics", http.StatusOK},
		{health.LivenessPath, http.StatusOK},
		{health.ReadinessPath, http.StatusServiceUnavailable},
		{health.VersionPath, http.StatusOK},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestRoutes_CustomMetricsPath(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	srv := New(Config{Metrics: metrics, MetricsPath: "/prom"}, discardLogger())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prom", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /prom = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics = %d, want 404", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", rec.Code)
	}
}

func TestStartAndShutdown(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0"}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	var resp *http.Response
	var err error
	for range 50 {
		if addr := srv.Addr(); addr != "127.0.0.1:0" {
			resp, err = http.Get("http://" + addr + health.LivenessPath)
			if err == nil {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil || resp == nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("liveness = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStart_ListenError(t *testing.T) {
	srv := New(Config{Addr: "256.0.0.1:bad"}, discardLogger())
	if err := srv.Start(context.Background()); err == nil {
		t.Error("Start() accepted an invalid address")
	}
}
