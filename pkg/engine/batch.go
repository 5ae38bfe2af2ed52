package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/cohesion/pkg/lint"
	"mercator-hq/cohesion/pkg/telemetry/tracing"
)

// Result is the outcome of analyzing one file in a batch.
// Exactly one of Report and Err is meaningful.
type Result struct {
	Path     string
	Report   lint.Report
	Err      error
	Duration time.Duration
}

// AnalyzeFiles analyzes paths with up to cfg.Workers files in flight.
// Results are returned in input order regardless of completion order.
// Files not started before ctx is cancelled carry ctx's error.
func (e *Engine) AnalyzeFiles(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	ctx, span := e.tracer.Start(ctx, tracing.SpanRun, trace.WithAttributes(attribute.Int(tracing.AttrFileCount, len(paths))))
	defer span.End()

	workers := min(max(e.cfg.Workers, 1), len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := e.newParser()
			defer p.Close()

			for i := range jobs {
				start := time.Now()
				report, err := e.analyzeFile(ctx, p, paths[i])
				results[i] = Result{Path: paths[i], Report: report, Err: err, Duration: time.Since(start)}
				if e.fileDone != nil {
					e.fileDone(results[i])
				}
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				results[j] = Result{Path: paths[j], Err: ctx.Err()}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		e.logger.WarnContext(ctx, "some files could not be analyzed", "failed", failed, "total", len(paths))
	}
	return results
}

// Expand resolves paths into the source files to analyze. Directories are
// walked, keeping files with one of extensions and skipping directories
// named in ignore. Files named explicitly are always kept, even when they
// cannot be stat'ed: the read failure is then reported for that file by
// AnalyzeFiles. The result is deduplicated and keeps argument order; files
// found by one walk are sorted.
func Expand(paths, extensions, ignore []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range paths {
		if root == "-" {
			add(root)
			continue
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			add(root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && slices.Contains(ignore, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, extensions) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, &ReadError{Path: root, Err: err}
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
