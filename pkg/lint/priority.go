package lint

import "fmt"

// Priority orders violations by fix order. Lower values should be fixed first.
type Priority int

const (
	PriorityDiagnostic   Priority = 0 // Checker faults
	PriorityStructure    Priority = 1 // File organization, cohesion groups, exports
	PriorityNaming       Priority = 2 // Naming conventions and documentation
	PriorityExtraction   Priority = 3 // Extract functions, flatten, simplify
	PriorityFormatting   Priority = 4 // Line length, whitespace, layout
	PriorityExperimental Priority = 5 // Opt-in checks
)

// String returns the name of the priority class.
func (p Priority) String() string {
	switch p {
	case PriorityDiagnostic:
		return "diagnostic"
	case PriorityStructure:
		return "structure"
	case PriorityNaming:
		return "naming"
	case PriorityExtraction:
		return "extraction"
	case PriorityFormatting:
		return "formatting"
	case PriorityExperimental:
		return "experimental"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}
