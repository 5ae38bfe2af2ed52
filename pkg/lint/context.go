package lint

import (
	"fmt"
	"strings"
)

// ExtractContext returns the source lines around line (1-based) with line
// numbers, marking the target line with "->" and the column with "^".
// It returns "" when line is out of range.
func ExtractContext(src []byte, line, column, contextLines int) string {
	lines := strings.Split(string(src), "\n")
	target := line - 1
	if target < 0 || target >= len(lines) {
		return ""
	}

	start := max(target-contextLines, 0)
	end := min(target+contextLines, len(lines)-1)
	width := len(fmt.Sprintf("%d", end+1))

	var sb strings.Builder
	for i := start; i <= end; i++ {
		prefix := "  "
		if i == target {
			prefix = "->"
		}
		fmt.Fprintf(&sb, "%s %*d | %s\n", prefix, width, i+1, strings.TrimRight(lines[i], "\r"))

		if i == target && column > 0 {
			fmt.Fprintf(&sb, "   %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", column-1))
		}
	}
	return sb.String()
}
