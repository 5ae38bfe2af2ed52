// Package rules is the closed set of house-style checkers.
//
// Every checker is a pure function of (tree, source, path). Tree-dependent
// checkers return nothing when the tree is nil; text-only checkers work on
// the source alone and still run when parsing failed. Checkers never see
// exemption comments: the engine gates their output.
//
// Registry builds the active set from configuration, in a fixed order that
// also defines the emission order of violations with equal priority and line.
//
//	rs, err := rules.Registry(cfg.Rules)
//	for _, r := range rs {
//		vs := r.Check(tree, src, path)
//	}
package rules
