package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/exemption"
	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
	"mercator-hq/cohesion/pkg/rules"
	"mercator-hq/cohesion/pkg/telemetry/logging"
	"mercator-hq/cohesion/pkg/telemetry/tracing"
)

// FaultMessagePrefix starts the message of the diagnostic violation that
// replaces a faulted checker's output.
const FaultMessagePrefix = "checker fault: "

// Engine runs a fixed rule set over source files and aggregates the results
// into reports. An Engine is safe for concurrent use; parsers are not shared.
type Engine struct {
	cfg      config.EngineConfig
	rules    []rules.Rule
	logger   *slog.Logger
	observer Observer
	tracer   *tracing.Tracer
	clock    exemption.Clock

	// rescan gates every rule through rules.Rule.Gated, which re-reads the
	// exemption comments per rule, instead of the per-file table.
	rescan bool

	fileDone func(Result)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver sets the event observer, typically a *metrics.Collector.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithTracer sets the tracer. Defaults to a no-op tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithClock sets the clock deferral expiry is evaluated against.
func WithClock(c exemption.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithPerRuleRescan makes every rule scan the source for its exemption
// comment on its own. Output is identical to the default table lookup.
func WithPerRuleRescan() Option {
	return func(e *Engine) {
		e.rescan = true
	}
}

// WithFileDone registers fn to be called as each batch file completes.
// fn is called from worker goroutines and must be safe for concurrent use.
func WithFileDone(fn func(Result)) Option {
	return func(e *Engine) {
		e.fileDone = fn
	}
}

// New creates an engine running rs in the given order.
func New(cfg config.EngineConfig, rs []rules.Rule, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		rules:    rs,
		logger:   slog.Default(),
		observer: nopObserver{},
		tracer:   tracing.Noop(),
		clock:    exemption.SystemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the rules the engine runs.
func (e *Engine) Rules() []rules.Rule {
	return e.rules
}

// AnalyzeFile reads path and analyzes it.
func (e *Engine) AnalyzeFile(ctx context.Context, path string) (lint.Report, error) {
	p := e.newParser()
	defer p.Close()
	return e.analyzeFile(ctx, p, path)
}

// AnalyzeSource analyzes src as if it were read from path.
func (e *Engine) AnalyzeSource(ctx context.Context, path string, src []byte) (lint.Report, error) {
	p := e.newParser()
	defer p.Close()
	return e.analyze(ctx, p, path, src)
}

func (e *Engine) newParser() *jsast.Parser {
	p := jsast.NewParser()
	if e.cfg.MaxSourceSize > 0 {
		p.WithMaxSourceSize(e.cfg.MaxSourceSize)
	}
	return p
}

func (e *Engine) analyzeFile(ctx context.Context, p *jsast.Parser, path string) (lint.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return e.fail(path, time.Now(), &ReadError{Path: path, Err: err})
	}
	if info.IsDir() {
		return e.fail(path, time.Now(), &ReadError{Path: path, Err: errors.New("is a directory")})
	}
	if e.cfg.MaxSourceSize > 0 && info.Size() > int64(e.cfg.MaxSourceSize) {
		return e.fail(path, time.Now(), &ReadError{
			Path: path,
			Err:  fmt.Errorf("%w: %d > %d bytes", jsast.ErrSourceTooLarge, info.Size(), e.cfg.MaxSourceSize),
		})
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return e.fail(path, time.Now(), &ReadError{Path: path, Err: err})
	}
	return e.analyze(ctx, p, path, src)
}

// analyze parses src once, runs every rule in order and merges the results.
func (e *Engine) analyze(ctx context.Context, p *jsast.Parser, path string, src []byte) (lint.Report, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return lint.Report{}, err
	}

	ctx = logging.WithFile(ctx, path)
	ctx, span := e.tracer.Start(ctx, tracing.SpanFile, trace.WithAttributes(tracing.FileAttributes(path, len(src))...))
	defer span.End()

	tree, err := e.parse(ctx, p, path, src)
	if err != nil {
		tracing.SetError(span, err)
		return e.fail(path, start, err)
	}
	if tree != nil {
		defer tree.Close()
	}

	in := input{tree: tree, src: src, path: path, table: exemption.Scan(src), today: e.clock.Today()}

	var all []lint.Violation
	for _, r := range e.rules {
		select {
		case <-ctx.Done():
			tracing.SetError(span, ctx.Err())
			return lint.Report{}, ctx.Err()
		default:
		}

		vs, err := e.runRule(ctx, r, in)
		if err != nil {
			tracing.SetError(span, err)
			return e.fail(path, start, err)
		}
		all = append(all, vs...)
	}

	report := lint.NewReport(path, all)
	errs, warns := report.Counts()
	tracing.SetReportAttributes(span, errs, warns, report.IsCompliant)

	result := ResultCompliant
	if !report.IsCompliant {
		result = ResultViolations
	}
	e.observer.FileAnalyzed(path, result, time.Since(start), errs, warns)

	e.logger.DebugContext(ctx, "file analyzed",
		"violations", errs,
		"warnings", warns,
		"compliant", report.IsCompliant,
		"duration", time.Since(start),
	)
	return report, nil
}

// parse returns a nil tree and no error when the source has syntax errors;
// the text-only rules still run on it.
func (e *Engine) parse(ctx context.Context, p *jsast.Parser, path string, src []byte) (*jsast.Tree, error) {
	dialect := jsast.DialectFor(path)
	ctx, span := e.tracer.Start(ctx, tracing.SpanParse)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrParseDialect, dialect.String()))

	tree, err := p.ParseAs(ctx, dialect, src)
	if err == nil {
		return tree, nil
	}

	var syntaxErr *jsast.SyntaxError
	if errors.As(err, &syntaxErr) {
		span.SetAttributes(attribute.Bool(tracing.AttrParseFailed, true))
		e.observer.ParseFailed(path)
		e.logger.WarnContext(ctx, "source did not parse, running text-only rules",
			"dialect", dialect.String(),
			"line", syntaxErr.Line,
			"column", syntaxErr.Column,
			"error", syntaxErr.Message,
		)
		return nil, nil
	}

	tracing.SetError(span, err)
	if errors.Is(err, jsast.ErrSourceTooLarge) {
		return nil, &ReadError{Path: path, Err: err}
	}
	return nil, fmt.Errorf("parse %s: %w", path, err)
}

type input struct {
	tree  *jsast.Tree
	src   []byte
	path  string
	table *exemption.Table
	today time.Time
}

// runRule runs one gated checker. A panic inside the checker becomes a
// priority 0 violation, or a *CheckerFaultError when isolation is off.
func (e *Engine) runRule(ctx context.Context, r rules.Rule, in input) ([]lint.Violation, error) {
	ctx = logging.WithRule(ctx, r.ID)
	ctx, span := e.tracer.Start(ctx, tracing.SpanRule, trace.WithAttributes(tracing.RuleAttributes(r.ID, int(r.Priority))...))
	defer span.End()

	start := time.Now()
	status := in.table.Status(r.ID, in.today)
	if status.State != exemption.StateNone {
		tracing.SetExemptionState(span, status.State.String())
		e.observer.ExemptionApplied(r.ID, status.State.String())
	}
	if status.State == exemption.StateMalformed {
		e.logger.DebugContext(ctx, "malformed exemption comment ignored",
			"line", status.Comment.Line,
			"problem", string(status.Comment.Malformation),
		)
	}

	run := func() []lint.Violation {
		return exemption.Apply(status, r.ID, r.Priority, func() []lint.Violation {
			return r.Check(in.tree, in.src, in.path)
		})
	}
	if e.rescan {
		gated := r.Gated(e.clock)
		run = func() []lint.Violation {
			return gated(in.tree, in.src, in.path)
		}
	}

	vs, fault := guard(r.ID, in.path, run)
	if fault != nil {
		e.observer.CheckerFault(r.ID)
		span.SetAttributes(attribute.Bool(tracing.AttrCheckerFault, true))
		tracing.SetError(span, fault)
		e.logger.ErrorContext(ctx, "checker panicked",
			"panic", fault.Value,
			"stack", string(fault.Stack),
		)
		if !e.cfg.FaultIsolation() {
			return nil, fault
		}
		vs = []lint.Violation{{
			RuleID:   r.ID,
			Line:     1,
			Column:   1,
			Priority: lint.PriorityDiagnostic,
			Message:  fmt.Sprintf("%s%v", FaultMessagePrefix, fault.Value),
		}}
	}

	span.SetAttributes(attribute.Int(tracing.AttrViolations, len(vs)))
	e.observer.RuleCompleted(r.ID, time.Since(start), len(vs))
	return vs, nil
}

func guard(ruleID, path string, run func() []lint.Violation) (vs []lint.Violation, fault *CheckerFaultError) {
	defer func() {
		if p := recover(); p != nil {
			vs = nil
			fault = &CheckerFaultError{RuleID: ruleID, Path: path, Value: p, Stack: debug.Stack()}
		}
	}()
	return run(), nil
}

func (e *Engine) fail(path string, start time.Time, err error) (lint.Report, error) {
	e.observer.FileAnalyzed(path, ResultError, time.Since(start), 0, 0)
	return lint.Report{}, err
}
