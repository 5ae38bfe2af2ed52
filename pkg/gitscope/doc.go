// Package gitscope selects the files of a git working tree that changed,
// so "analyze --changed" only checks what a commit would touch.
package gitscope
