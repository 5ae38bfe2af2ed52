package rules

import (
	"fmt"
	"slices"

	"mercator-hq/cohesion/pkg/config"
	"mercator-hq/cohesion/pkg/exemption"
	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

// Rule identifiers.
const (
	IDFileNaming                 = "file-naming"
	IDCohesionGroupName          = "cohesion-group-name"
	IDLooseFunction              = "loose-function"
	IDCohesionGroupOrder         = "cohesion-group-order"
	IDMixedExports               = "mixed-exports"
	IDComponentNaming            = "component-naming"
	IDConstantNaming             = "constant-naming"
	IDFunctionDocumentation      = "function-documentation"
	IDCohesionGroupDocumentation = "cohesion-group-documentation"
	IDRepeatedMemberChain        = "repeated-member-chain"
	IDMaxFunctionLength          = "max-function-length"
	IDMaxNestingDepth            = "max-nesting-depth"
	IDMaxParameters              = "max-parameters"
	IDNestedTernary              = "nested-ternary"
	IDModuleScopeSideEffect      = "module-scope-side-effect"
	IDLineLength                 = "line-length"
	IDTrailingWhitespace         = "trailing-whitespace"
	IDMaxFileLines               = "max-file-lines"
	IDMultilineTernary           = "multiline-ternary"
	IDSpreadProps                = "spread-props"
	IDExemptionSyntax            = "exemption-syntax"
)

// CheckFunc inspects one file. tree is nil when the source did not parse.
type CheckFunc func(tree *jsast.Tree, src []byte, path string) []lint.Violation

// Rule is one registered checker.
type Rule struct {
	ID          string
	Priority    lint.Priority
	Description string

	// TextOnly rules read the source text only and run without a tree.
	TextOnly bool

	// Experimental rules run only when listed in rules.experimental.
	Experimental bool

	Check CheckFunc
}

// Gated returns the rule's checker wrapped by the exemption gate, which
// re-scans the source on every call.
func (r Rule) Gated(clock exemption.Clock) CheckFunc {
	return exemption.Gate(r.ID, r.Priority, r.Check, clock)
}

// Catalog returns every rule, experimental ones included, configured with
// cfg's thresholds. The order is the registry order.
func Catalog(cfg config.RulesConfig) []Rule {
	config.ApplyRulesDefaults(&cfg)
	scope := scopeOf(cfg)

	return []Rule{
		{
			ID: IDFileNaming, Priority: lint.PriorityStructure, TextOnly: true,
			Description: "file names are kebab-case; .jsx/.tsx components may be PascalCase",
			Check:       scope.skipTests(checkFileNaming),
		},
		{
			ID: IDCohesionGroupName, Priority: lint.PriorityStructure,
			Description: "top-level objects of functions are bound to a cohesion group name",
			Check:       scope.skipAll(checkCohesionGroupName),
		},
		{
			ID: IDLooseFunction, Priority: lint.PriorityStructure,
			Description: "top-level functions that are not components live in a cohesion group",
			Check:       scope.skipAll(checkLooseFunction),
		},
		{
			ID: IDCohesionGroupOrder, Priority: lint.PriorityStructure,
			Description: "cohesion groups are declared in the order P, V, T, F, A, E",
			Check:       scope.skipAll(checkCohesionGroupOrder),
		},
		{
			ID: IDMixedExports, Priority: lint.PriorityStructure,
			Description: "a file has either a default export or named exports, not both",
			Check:       scope.skipAll(checkMixedExports),
		},
		{
			ID: IDComponentNaming, Priority: lint.PriorityNaming,
			Description: "functions returning JSX are PascalCase",
			Check:       scope.skipAll(checkComponentNaming),
		},
		{
			ID: IDConstantNaming, Priority: lint.PriorityNaming,
			Description: "top-level primitive constants are SCREAMING_SNAKE_CASE or camelCase",
			Check:       scope.skipAll(checkConstantNaming),
		},
		{
			ID: IDFunctionDocumentation, Priority: lint.PriorityNaming,
			Description: "exported functions carry a /** */ doc comment",
			Check:       scope.skipAll(checkFunctionDocumentation),
		},
		{
			ID: IDCohesionGroupDocumentation, Priority: lint.PriorityNaming,
			Description: "cohesion groups carry a /** */ doc comment",
			Check:       scope.skipAll(checkCohesionGroupDocumentation),
		},
		{
			ID: IDRepeatedMemberChain, Priority: lint.PriorityExtraction,
			Description: fmt.Sprintf("a base read with %d or more distinct properties in one function is destructured", cfg.RepeatedMemberThreshold),
			Check:       scope.skipAll(repeatedMemberChain(cfg.RepeatedMemberThreshold)),
		},
		{
			ID: IDMaxFunctionLength, Priority: lint.PriorityExtraction,
			Description: fmt.Sprintf("functions are at most %d lines", cfg.MaxFunctionLines),
			Check:       scope.skipAll(maxFunctionLength(cfg.MaxFunctionLines)),
		},
		{
			ID: IDMaxNestingDepth, Priority: lint.PriorityExtraction,
			Description: fmt.Sprintf("control flow nests at most %d deep in one function", cfg.MaxNestingDepth),
			Check:       scope.skipAll(maxNestingDepth(cfg.MaxNestingDepth)),
		},
		{
			ID: IDMaxParameters, Priority: lint.PriorityExtraction,
			Description: fmt.Sprintf("functions take at most %d parameters", cfg.MaxParameters),
			Check:       scope.skipAll(maxParameters(cfg.MaxParameters)),
		},
		{
			ID: IDNestedTernary, Priority: lint.PriorityExtraction,
			Description: "conditional expressions are not nested",
			Check:       scope.skipAll(checkNestedTernary),
		},
		{
			ID: IDModuleScopeSideEffect, Priority: lint.PriorityExtraction,
			Description: "modules do not call functions at import time",
			Check:       scope.skipAll(checkModuleScopeSideEffect),
		},
		{
			ID: IDLineLength, Priority: lint.PriorityFormatting, TextOnly: true,
			Description: fmt.Sprintf("lines are at most %d characters", cfg.LineLength),
			Check:       scope.skipGenerated(lineLength(cfg.LineLength)),
		},
		{
			ID: IDTrailingWhitespace, Priority: lint.PriorityFormatting, TextOnly: true,
			Description: "lines do not end with spaces or tabs",
			Check:       scope.skipGenerated(checkTrailingWhitespace),
		},
		{
			ID: IDMaxFileLines, Priority: lint.PriorityFormatting, TextOnly: true,
			Description: fmt.Sprintf("files are at most %d lines", cfg.MaxFileLines),
			Check:       scope.skipAll(maxFileLines(cfg.MaxFileLines)),
		},
		{
			ID: IDMultilineTernary, Priority: lint.PriorityFormatting,
			Description: "conditionals spanning lines are wrapped in parentheses",
			Check:       scope.skipAll(checkMultilineTernary),
		},
		{
			ID: IDSpreadProps, Priority: lint.PriorityExperimental, Experimental: true,
			Description: "JSX elements list their props instead of spreading them",
			Check:       scope.skipAll(checkSpreadProps),
		},
		{
			ID: IDExemptionSyntax, Priority: lint.PriorityExperimental, TextOnly: true, Experimental: true,
			Description: "COMPLEXITY comments are well formed and name a known rule",
			Check:       checkExemptionSyntax,
		},
	}
}

// IDs returns every rule id in registry order.
func IDs() []string {
	return allIDs[:]
}

var allIDs = [...]string{
	IDFileNaming,
	IDCohesionGroupName,
	IDLooseFunction,
	IDCohesionGroupOrder,
	IDMixedExports,
	IDComponentNaming,
	IDConstantNaming,
	IDFunctionDocumentation,
	IDCohesionGroupDocumentation,
	IDRepeatedMemberChain,
	IDMaxFunctionLength,
	IDMaxNestingDepth,
	IDMaxParameters,
	IDNestedTernary,
	IDModuleScopeSideEffect,
	IDLineLength,
	IDTrailingWhitespace,
	IDMaxFileLines,
	IDMultilineTernary,
	IDSpreadProps,
	IDExemptionSyntax,
}

// Registry returns the active rules: the catalog minus disabled rules and
// experimental rules not opted into. Unknown ids in either list are
// reported as a config.ValidationError with a spelling suggestion.
func Registry(cfg config.RulesConfig) ([]Rule, error) {
	catalog := Catalog(cfg)
	if err := validateIDs(cfg, catalog); err != nil {
		return nil, err
	}

	active := make([]Rule, 0, len(catalog))
	for _, r := range catalog {
		if slices.Contains(cfg.Disabled, r.ID) {
			continue
		}
		if r.Experimental && !slices.Contains(cfg.Experimental, r.ID) {
			continue
		}
		active = append(active, r)
	}
	return active, nil
}

func validateIDs(cfg config.RulesConfig, catalog []Rule) error {
	var errs []config.FieldError

	for _, id := range cfg.Disabled {
		if !slices.Contains(IDs(), id) {
			errs = append(errs, config.FieldError{
				Field:   "rules.disabled",
				Message: fmt.Sprintf("unknown rule %q. %s", id, lint.SuggestName(id, IDs())),
			})
		}
	}

	var experimental []string
	for _, r := range catalog {
		if r.Experimental {
			experimental = append(experimental, r.ID)
		}
	}
	for _, id := range cfg.Experimental {
		if !slices.Contains(experimental, id) {
			errs = append(errs, config.FieldError{
				Field:   "rules.experimental",
				Message: fmt.Sprintf("%q is not an experimental rule. %s", id, lint.SuggestName(id, experimental)),
			})
		}
	}

	if len(errs) > 0 {
		return config.ValidationError{Errors: errs}
	}
	return nil
}
