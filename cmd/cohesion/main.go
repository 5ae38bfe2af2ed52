// Cohesion checks JavaScript and TypeScript sources against a house style:
// formatting, naming, structure and extraction rules, each of which can be
// waived per file with a COMPLEXITY: exemption or time-boxed with a
// COMPLEXITY-TODO: deferral.
//
// Usage:
//
//	# Analyze one file (prints a single JSON report)
//	cohesion analyze src/App.tsx
//
//	# Analyze a tree with coloured text output
//	cohesion analyze src --format text
//
//	# Analyze only files changed since main and record the run
//	cohesion analyze --changed --since main --record
//
//	# Show the exemption comments of a file and their status
//	cohesion exemptions src/legacy/Table.tsx
//
//	# Re-analyze on every save, serving metrics on :9464
//	cohesion watch src --metrics-addr 127.0.0.1:9464
//
// Exit status is 0 when every file is compliant and 1 otherwise.
package main

func main() {
	Execute()
}
