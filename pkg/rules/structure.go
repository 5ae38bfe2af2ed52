package rules

import (
	"strings"

	"mercator-hq/cohesion/pkg/jsast"
	"mercator-hq/cohesion/pkg/lint"
)

var groupList = strings.Join(jsast.CohesionGroups(), ", ")

func checkCohesionGroupName(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDCohesionGroupName, lint.PriorityStructure)
	for _, b := range moduleBindings(tree) {
		if jsast.IsCohesionGroupName(b.name) || !isObjectOfFunctions(b.value) {
			continue
		}
		vs.Addf(b.node.StartLine(), b.node.Column(),
			"object of functions %q is not a cohesion group; bind it to one of %s", b.name, groupList)
	}
	return vs.Violations()
}

func checkLooseFunction(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDLooseFunction, lint.PriorityStructure)
	for _, b := range moduleBindings(tree) {
		if !b.isFunction() || b.name == jsast.AnonymousName {
			continue
		}
		if b.isComponent() || hookNamePattern.MatchString(b.name) {
			continue
		}
		vs.Addf(b.node.StartLine(), b.node.Column(),
			"function %q is outside any cohesion group; move it into one of %s", b.name, groupList)
	}
	return vs.Violations()
}

func checkCohesionGroupOrder(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	vs := lint.NewList(IDCohesionGroupOrder, lint.PriorityStructure)
	highest, highestName := -1, ""
	for _, g := range cohesionGroups(tree) {
		rank, _ := jsast.CohesionGroupRank(g.name)
		if rank < highest {
			vs.Addf(g.node.StartLine(), g.node.Column(),
				"group %s is declared after %s; declare groups in the order %s", g.name, highestName, groupList)
			continue
		}
		highest, highestName = rank, g.name
	}
	return vs.Violations()
}

func checkMixedExports(tree *jsast.Tree, _ []byte, _ string) []lint.Violation {
	if tree == nil {
		return nil
	}
	var defaultExport jsast.Node
	named := 0
	for _, stmt := range jsast.TopLevelStatements(tree) {
		if !stmt.Is(jsast.KindExportDeclaration) {
			continue
		}
		if stmt.IsDefaultExport() {
			if !defaultExport.Valid() {
				defaultExport = stmt
			}
			continue
		}
		named++
	}
	if !defaultExport.Valid() || named == 0 {
		return nil
	}
	vs := lint.NewList(IDMixedExports, lint.PriorityStructure)
	vs.Addf(defaultExport.StartLine(), defaultExport.Column(),
		"default export mixed with %d named export(s); export either one default or only named values", named)
	return vs.Violations()
}
