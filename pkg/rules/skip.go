package rules

import (
	"bytes"
	"path/filepath"
	"strings"

	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

// generatedMarkers flag machine-written sources.
var generatedMarkers = [][]byte{
	[]byte("@generated"),
	[]byte("DO NOT EDIT"),
	[]byte("auto-generated"),
}

// IsGenerated returns true if src carries a generated-code marker.
func IsGenerated(src []byte) bool {
	for _, m := range generatedMarkers {
		if bytes.Contains(src, m) {
			return true
		}
	}
	return false
}

// IsTestFile returns true for *.test.* and *.spec.* files and anything
// under a __tests__ or __mocks__ directory.
func IsTestFile(path string) bool {
	if path == "" {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, seg := range strings.Split(slashed, "/") {
		if seg == "__tests__" || seg == "__mocks__" {
			return true
		}
	}
	base := filepath.Base(path)
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.")
}

// scope decides which files a checker skips. Each rule picks its own
// skips in Catalog.
type scope struct {
	includeGenerated bool
	includeTests     bool
}

func scopeOf(cfg config.RulesConfig) scope {
	return scope{includeGenerated: cfg.IncludeGenerated, includeTests: cfg.IncludeTests}
}

func (s scope) skipGenerated(check CheckFunc) CheckFunc {
	return s.wrap(check, true, false)
}

func (s scope) skipTests(check CheckFunc) CheckFunc {
	return s.wrap(check, false, true)
}

func (s scope) skipAll(check CheckFunc) CheckFunc {
	return s.wrap(check, true, true)
}

func (s scope) wrap(check CheckFunc, generated, tests bool) CheckFunc {
	return func(tree *jsast.Tree, src []byte, path string) []lint.Violation {
		if generated && !s.includeGenerated && IsGenerated(src) {
			return nil
		}
		if tests && !s.includeTests && IsTestFile(path) {
			return nil
		}
		return check(tree, src, path)
	}
}
