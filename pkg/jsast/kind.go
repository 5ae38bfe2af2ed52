package jsast

import "fmt"

// Kind identifies the category of a wrapped syntax node.
// The set is closed: grammar types not listed in grammarKinds map to KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram

	// Functions
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunction
	KindMethodDefinition
	KindClassDeclaration

	// Statements
	KindIfStatement
	KindForStatement
	KindWhileStatement
	KindSwitchStatement
	KindTryStatement
	KindReturnStatement
	KindExpressionStatement
	KindStatementBlock

	// Declarations
	KindVariableDeclaration
	KindVariableDeclarator
	KindImportDeclaration
	KindExportDeclaration

	// Expressions
	KindMemberExpression
	KindCallExpression
	KindObjectExpression
	KindPair
	KindSpreadElement
	KindConditionalExpression
	KindParenthesizedExpression
	KindIdentifier

	// JSX
	KindJSXElement
	KindJSXFragment
	KindJSXSpreadAttribute

	KindComment
)

// grammarKinds maps tree-sitter TypeScript and TSX grammar types onto Kind;
// both grammars share these names.
// This table is the complete list of node shapes the rules depend on.
var grammarKinds = map[string]Kind{
	"program": KindProgram,

	"function_declaration":           KindFunctionDeclaration,
	"generator_function_declaration": KindFunctionDeclaration,
	"function":                       KindFunctionExpression,
	"function_expression":            KindFunctionExpression,
	"generator_function":             KindFunctionExpression,
	"arrow_function":                 KindArrowFunction,
	"method_definition":              KindMethodDefinition,
	"class_declaration":              KindClassDeclaration,

	"if_statement":         KindIfStatement,
	"for_statement":        KindForStatement,
	"for_in_statement":     KindForStatement,
	"while_statement":      KindWhileStatement,
	"do_statement":         KindWhileStatement,
	"switch_statement":     KindSwitchStatement,
	"try_statement":        KindTryStatement,
	"return_statement":     KindReturnStatement,
	"expression_statement": KindExpressionStatement,
	"statement_block":      KindStatementBlock,

	"variable_declaration": KindVariableDeclaration,
	"lexical_declaration":  KindVariableDeclaration,
	"variable_declarator":  KindVariableDeclarator,
	"import_statement":     KindImportDeclaration,
	"export_statement":     KindExportDeclaration,

	"member_expression":        KindMemberExpression,
	"subscript_expression":     KindMemberExpression,
	"call_expression":          KindCallExpression,
	"object":                   KindObjectExpression,
	"pair":                     KindPair,
	"spread_element":           KindSpreadElement,
	"ternary_expression":       KindConditionalExpression,
	"parenthesized_expression": KindParenthesizedExpression,
	"identifier":               KindIdentifier,

	"jsx_element":              KindJSXElement,
	"jsx_self_closing_element": KindJSXElement,
	"jsx_fragment":             KindJSXFragment,

	"comment": KindComment,
}

// kindOf resolves the Kind of a grammar type given its parent's grammar type.
// A few kinds depend on context: JSX fragments are jsx_element nodes whose
// opening tag has no name, and spread attributes are jsx_expression children
// of an opening or self-closing tag.
func kindOf(grammarType, parentType string, fragment bool) Kind {
	if grammarType == "jsx_expression" &&
		(parentType == "jsx_opening_element" || parentType == "jsx_self_closing_element") {
		return KindJSXSpreadAttribute
	}
	if grammarType == "jsx_element" && fragment {
		return KindJSXFragment
	}
	if k, ok := grammarKinds[grammarType]; ok {
		return k
	}
	return KindOther
}

// String returns the descriptive name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOther:
		return "Other"
	case KindProgram:
		return "Program"
	case KindFunctionDeclaration:
		return "FunctionDeclaration"
	case KindFunctionExpression:
		return "FunctionExpression"
	case KindArrowFunction:
		return "ArrowFunctionExpression"
	case KindMethodDefinition:
		return "MethodDefinition"
	case KindClassDeclaration:
		return "ClassDeclaration"
	case KindIfStatement:
		return "IfStatement"
	case KindForStatement:
		return "ForStatement"
	case KindWhileStatement:
		return "WhileStatement"
	case KindSwitchStatement:
		return "SwitchStatement"
	case KindTryStatement:
		return "TryStatement"
	case KindReturnStatement:
		return "ReturnStatement"
	case KindExpressionStatement:
		return "ExpressionStatement"
	case KindStatementBlock:
		return "BlockStatement"
	case KindVariableDeclaration:
		return "VariableDeclaration"
	case KindVariableDeclarator:
		return "VariableDeclarator"
	case KindImportDeclaration:
		return "ImportDeclaration"
	case KindExportDeclaration:
		return "ExportDeclaration"
	case KindMemberExpression:
		return "MemberExpression"
	case KindCallExpression:
		return "CallExpression"
	case KindObjectExpression:
		return "ObjectExpression"
	case KindPair:
		return "Property"
	case KindSpreadElement:
		return "SpreadElement"
	case KindConditionalExpression:
		return "ConditionalExpression"
	case KindParenthesizedExpression:
		return "ParenthesizedExpression"
	case KindIdentifier:
		return "Identifier"
	case KindJSXElement:
		return "JSXElement"
	case KindJSXFragment:
		return "JSXFragment"
	case KindJSXSpreadAttribute:
		return "JSXSpreadAttribute"
	case KindComment:
		return "Comment"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
