// Package syntax defines the closed set of declaration nodes the class
// extractor understands, independent of the parser that produced them.
package syntax

// Kind tags the variant held by a Node.
type Kind uint8

const (
	Other Kind = iota
	ClassDecl
	FunctionDecl
	AssignStmt
)

func (k Kind) String() string {
	switch k {
	case ClassDecl:
		return "class"
	case FunctionDecl:
		return "function"
	case AssignStmt:
		return "assign"
	default:
		return "other"
	}
}

// Target is the left-hand side of an assignment. Attribute targets
// ("obj.name = ...") carry the object text and the accessed name.
type Target struct {
	Attribute bool
	Object    string
	Name      string
}

// Node is one lowered syntax node.
//
// ClassDecl and FunctionDecl use Name; FunctionDecl also sets Async.
// AssignStmt lists its targets left to right, so "a = b = v" has two.
type Node struct {
	Kind     Kind
	Name     string
	Async    bool
	Targets  []Target
	Children []*Node
	Line     int
}

// Module is a parsed source unit.
type Module struct {
	Path string
	Body []*Node
}

// Walk visits node and then its descendants in pre-order. Returning false
// from visit skips the children of that node.
func Walk(node *Node, visit func(*Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, visit)
	}
}
