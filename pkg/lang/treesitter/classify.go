// Package treesitter node type names for the Python grammar. These are the
// only tree-sitter node types that lower to something other than syntax.Other.

package treesitter

const (
	nodeError       = "ERROR"
	nodeClass       = "class_definition"
	nodeFunction    = "function_definition"
	nodeDecorated   = "decorated_definition"
	nodeAssignment  = "assignment"
	nodeAttribute   = "attribute"
	nodeIdentifier  = "identifier"
	tokenAsync      = "async"
	tokenAnnotation = ":"
)

// rejectedNodeTypes are statements the grammar still accepts from Python 2
// source; a Python 3 parser rejects them.
var rejectedNodeTypes = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// zeroWidthNodeTypes may legitimately span no source text. Any other
// zero-width leaf was inserted by error recovery.
var zeroWidthNodeTypes = map[string]bool{
	"module":         true,
	"block":          true,
	"string_content": true,
}

// definitionNodeTypes lists the node types a decorated_definition may wrap.
var definitionNodeTypes = map[string]bool{
	nodeClass:    true,
	nodeFunction: true,
}
