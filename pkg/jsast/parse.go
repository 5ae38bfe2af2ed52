package jsast

import (
	"context"
	"errors"
	"fmt"

	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// DefaultMaxSourceSize is the largest source accepted by a Parser (5MB).
const DefaultMaxSourceSize = 5 * 1024 * 1024

// ErrSourceTooLarge is returned when the source exceeds the parser's limit.
var ErrSourceTooLarge = errors.New("source exceeds maximum size")

// SyntaxError reports that the source could not be parsed cleanly.
// Line and Column point at the first ERROR or MISSING node (1-based).
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

func newSyntaxError(raw *sitter.Node) *SyntaxError {
	span := spanOf(raw)
	msg := "unexpected input"
	if raw.IsMissing() {
		msg = fmt.Sprintf("missing %q", raw.Type())
	}
	return &SyntaxError{Line: span.StartLine, Column: span.StartColumn, Message: msg}
}

// Dialect selects the grammar a source is parsed with.
type Dialect int

const (
	// DialectTSX covers JavaScript, JSX and TSX sources.
	DialectTSX Dialect = iota
	// DialectTypeScript covers plain TypeScript, where <T>expr is a type
	// assertion rather than a JSX element.
	DialectTypeScript
)

// String returns the dialect name.
func (d Dialect) String() string {
	if d == DialectTypeScript {
		return "typescript"
	}
	return "tsx"
}

// DialectFor picks the dialect from a file extension: .ts, .mts and .cts
// (including .d.ts) are TypeScript, everything else is TSX.
func DialectFor(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	default:
		return DialectTSX
	}
}

func (d Dialect) language() *sitter.Language {
	if d == DialectTypeScript {
		return typescript.GetLanguage()
	}
	return tsx.GetLanguage()
}

// Parser parses source files into Trees.
// A Parser reuses one tree-sitter parser per dialect and is not safe for
// concurrent use; create one per goroutine.
type Parser struct {
	parsers       map[Dialect]*sitter.Parser
	maxSourceSize int
}

// NewParser creates a new parser. Grammars are loaded on first use.
func NewParser() *Parser {
	return &Parser{
		parsers:       make(map[Dialect]*sitter.Parser),
		maxSourceSize: DefaultMaxSourceSize,
	}
}

func (p *Parser) sitterFor(d Dialect) *sitter.Parser {
	ts, ok := p.parsers[d]
	if !ok {
		ts = sitter.NewParser()
		ts.SetLanguage(d.language())
		p.parsers[d] = ts
	}
	return ts
}

// WithMaxSourceSize sets the maximum accepted source size in bytes.
func (p *Parser) WithMaxSourceSize(size int) *Parser {
	p.maxSourceSize = size
	return p
}

// Parse parses src as TSX and wraps the result.
// It returns a *SyntaxError if the source contains syntax errors; in that
// case no Tree is returned.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	return p.ParseAs(ctx, DialectTSX, src)
}

// ParseFile parses src with the dialect matching path's extension.
func (p *Parser) ParseFile(ctx context.Context, path string, src []byte) (*Tree, error) {
	return p.ParseAs(ctx, DialectFor(path), src)
}

// ParseAs parses src with the given dialect.
func (p *Parser) ParseAs(ctx context.Context, d Dialect, src []byte) (*Tree, error) {
	if p.maxSourceSize > 0 && len(src) > p.maxSourceSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSourceTooLarge, len(src), p.maxSourceSize)
	}

	ts, err := p.sitterFor(d).ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	tree, syntaxErr := build(src, ts)
	if syntaxErr != nil {
		tree.Close()
		return nil, syntaxErr
	}
	return tree, nil
}

// Close releases the parser.
func (p *Parser) Close() {
	for d, ts := range p.parsers {
		ts.Close()
		delete(p.parsers, d)
	}
}

// Parse parses src as TSX with a throwaway Parser.
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	p := NewParser()
	defer p.Close()
	return p.Parse(ctx, src)
}

// ParseFile parses src with a throwaway Parser, picking the dialect from path.
func ParseFile(ctx context.Context, path string, src []byte) (*Tree, error) {
	p := NewParser()
	defer p.Close()
	return p.ParseFile(ctx, path, src)
}
