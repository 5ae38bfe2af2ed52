package history

import (
	"time"

	"github.com/google/uuid"

	"mercator-hq/cohesion/pkg/engine"
	"mercator-hq/cohesion/pkg/lint"
)

// Run is one recorded analyze invocation.
type Run struct {
	ID             string        `json:"id"`
	StartedAt      time.Time     `json:"startedAt"`
	Duration       time.Duration `json:"duration"`
	ToolVersion    string        `json:"toolVersion"`
	GitRevision    string        `json:"gitRevision,omitempty"`
	Files          int           `json:"files"`
	CompliantFiles int           `json:"compliantFiles"`
	Violations     int           `json:"violations"`
	Warnings       int           `json:"warnings"`
	Errors         int           `json:"errors"`
}

// FileResult is the stored outcome of one file in a run.
// Report is nil when the file could not be analyzed.
type FileResult struct {
	Path       string       `json:"filePath"`
	Compliant  bool         `json:"isCompliant"`
	Violations int          `json:"violations"`
	Warnings   int          `json:"warnings"`
	Error      string       `json:"error,omitempty"`
	Report     *lint.Report `json:"report,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Compliant returns true if every file in the run was analyzed and compliant.
func (r Run) Compliant() bool {
	return r.Errors == 0 && r.CompliantFiles == r.Files
}

// ReportResult converts an analyzed report into a FileResult.
func ReportResult(report lint.Report) FileResult {
	errs, warns := report.Counts()
	return FileResult{
		Path:       report.FilePath,
		Compliant:  report.IsCompliant,
		Violations: errs,
		Warnings:   warns,
		Report:     &report,
	}
}

// ErrorResult converts a failed file into a FileResult.
func ErrorResult(path string, err error) FileResult {
	return FileResult{Path: path, Error: err.Error()}
}

// FromResults converts a batch of engine results into file results.
func FromResults(results []engine.Result) []FileResult {
	files := make([]FileResult, len(results))
	for i, r := range results {
		if r.Err != nil {
			files[i] = ErrorResult(r.Path, r.Err)
			continue
		}
		files[i] = ReportResult(r.Report)
	}
	return files
}

// Summarize fills the run's counters from its file results.
func Summarize(run Run, files []FileResult) Run {
	run.Files = len(files)
	run.CompliantFiles, run.Violations, run.Warnings, run.Errors = 0, 0, 0, 0
	for _, f := range files {
		switch {
		case f.Error != "":
			run.Errors++
		case f.Compliant:
			run.CompliantFiles++
		}
		run.Violations += f.Violations
		run.Warnings += f.Warnings
	}
	return run
}
