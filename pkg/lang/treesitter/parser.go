// Package treesitter implements the lang.Parser interface for Python using gotreesitter, lowering tree-sitter trees into syntax modules.
package treesitter

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/odvcencio/gotreesitter"
	"github.com/odvcencio/gotreesitter/grammars"

	"github.com/odvcencio/py2drawio/pkg/lang"
	"github.com/odvcencio/py2drawio/pkg/syntax"
)

const pythonExtension = ".py"

type Parser struct {
	entry  grammars.LangEntry
	lang   *gotreesitter.Language
	parser *gotreesitter.Parser
}

func NewParser(entry grammars.LangEntry) (*Parser, error) {
	if strings.TrimSpace(entry.Name) == "" {
		return nil, fmt.Errorf("language entry name is required")
	}
	if entry.Language == nil {
		return nil, fmt.Errorf("language loader is required for %q", entry.Name)
	}

	lang := entry.Language()
	if lang == nil {
		return nil, fmt.Errorf("language loader returned nil for %q", entry.Name)
	}

	return &Parser{
		entry:  entry,
		lang:   lang,
		parser: gotreesitter.NewParser(lang),
	}, nil
}

// NewPythonParser returns a parser for the registered Python grammar.
func NewPythonParser() (*Parser, error) {
	entry, ok := PythonEntry()
	if !ok {
		return nil, fmt.Errorf("no grammar registered for %s files", pythonExtension)
	}
	return NewParser(entry)
}

// PythonEntry looks up the Python grammar among the registered languages.
func PythonEntry() (grammars.LangEntry, bool) {
	for _, entry := range grammars.AllLanguages() {
		if entry.Name == "python" {
			return entry, true
		}
		for _, ext := range entry.Extensions {
			if strings.EqualFold(ext, pythonExtension) {
				return entry, true
			}
		}
	}
	return grammars.LangEntry{}, false
}

func (p *Parser) Language() string {
	return p.entry.Name
}

func (p *Parser) Parse(path string, src []byte) (*syntax.Module, error) {
	if !utf8.Valid(src) {
		return nil, &lang.DecodeError{Path: path}
	}

	module := &syntax.Module{Path: path}
	if len(bytes.TrimSpace(src)) == 0 {
		return module, nil
	}

	tree := p.parseTree(src)
	if tree == nil || tree.RootNode() == nil {
		return nil, &lang.SyntaxError{Path: path, Line: 1, Column: 1}
	}
	defer tree.Release()

	l := lowerer{lang: p.lang, src: src, path: path}
	root, err := l.lower(tree.RootNode())
	if err != nil {
		return nil, err
	}
	if root != nil {
		module.Body = root.Children
	}
	return module, nil
}

func (p *Parser) parseTree(src []byte) *gotreesitter.Tree {
	if p.entry.TokenSourceFactory != nil {
		ts := p.entry.TokenSourceFactory(src, p.lang)
		if ts != nil {
			return p.parser.ParseWithTokenSource(src, ts)
		}
	}
	return p.parser.Parse(src)
}

type lowerer struct {
	lang *gotreesitter.Language
	src  []byte
	path string
}

func (l *lowerer) lower(node *gotreesitter.Node) (*syntax.Node, error) {
	if node == nil {
		return nil, nil
	}

	nodeType := node.Type(l.lang)
	if rejectedNodeTypes[nodeType] || isMissing(node, nodeType) {
		return nil, l.syntaxError(node)
	}

	switch nodeType {
	case nodeError:
		return nil, l.syntaxError(node)
	case nodeClass:
		return l.lowerDefinition(node, syntax.ClassDecl)
	case nodeFunction:
		return l.lowerDefinition(node, syntax.FunctionDecl)
	case nodeDecorated:
		return l.lowerDecorated(node)
	case nodeAssignment:
		if !isAnnotated(node, l.lang) {
			return l.lowerAssignment(node)
		}
	}

	if node.ChildCount() == 0 {
		return nil, nil
	}
	return l.lowerOther(node)
}

func (l *lowerer) lowerOther(node *gotreesitter.Node) (*syntax.Node, error) {
	children, err := l.lowerChildren(node)
	if err != nil {
		return nil, err
	}
	return &syntax.Node{
		Kind:     syntax.Other,
		Children: children,
		Line:     lineOf(node),
	}, nil
}

func (l *lowerer) lowerChildren(node *gotreesitter.Node) ([]*syntax.Node, error) {
	var children []*syntax.Node
	for i := 0; i < node.ChildCount(); i++ {
		child, err := l.lower(node.Child(i))
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}
	return children, nil
}

func (l *lowerer) lowerDefinition(node *gotreesitter.Node, kind syntax.Kind) (*syntax.Node, error) {
	lowered := &syntax.Node{
		Kind: kind,
		Line: lineOf(node),
	}
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Type(l.lang) {
		case tokenAsync:
			lowered.Async = kind == syntax.FunctionDecl
		case nodeIdentifier:
			if lowered.Name == "" {
				lowered.Name = child.Text(l.src)
			}
		}
	}

	children, err := l.lowerChildren(node)
	if err != nil {
		return nil, err
	}
	lowered.Children = children
	return lowered, nil
}

// lowerDecorated returns the wrapped definition with its decorators moved
// under it, so a decorated class is still a class at module level.
func (l *lowerer) lowerDecorated(node *gotreesitter.Node) (*syntax.Node, error) {
	var definition *syntax.Node
	var decorators []*syntax.Node
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		lowered, err := l.lower(child)
		if err != nil {
			return nil, err
		}
		if lowered == nil {
			continue
		}
		if definition == nil && definitionNodeTypes[child.Type(l.lang)] {
			definition = lowered
			continue
		}
		decorators = append(decorators, lowered)
	}

	if definition == nil {
		return &syntax.Node{Kind: syntax.Other, Children: decorators, Line: lineOf(node)}, nil
	}
	definition.Children = append(definition.Children, decorators...)
	return definition, nil
}

// lowerAssignment folds a chained assignment ("a = b = value") into one
// statement whose targets are listed left to right.
func (l *lowerer) lowerAssignment(node *gotreesitter.Node) (*syntax.Node, error) {
	stmt := &syntax.Node{
		Kind: syntax.AssignStmt,
		Line: lineOf(node),
	}

	current := node
	for current.ChildCount() > 0 {
		left := current.Child(0)
		loweredLeft, err := l.lower(left)
		if err != nil {
			return nil, err
		}
		if loweredLeft != nil {
			stmt.Children = append(stmt.Children, loweredLeft)
		}
		stmt.Targets = append(stmt.Targets, l.target(left))

		if current.ChildCount() == 1 {
			break
		}
		right := current.Child(current.ChildCount() - 1)
		if right.Type(l.lang) == nodeAssignment && !isAnnotated(right, l.lang) {
			current = right
			continue
		}

		loweredRight, err := l.lower(right)
		if err != nil {
			return nil, err
		}
		if loweredRight != nil {
			stmt.Children = append(stmt.Children, loweredRight)
		}
		break
	}
	return stmt, nil
}

func (l *lowerer) target(node *gotreesitter.Node) syntax.Target {
	if node.Type(l.lang) != nodeAttribute || node.ChildCount() == 0 {
		return syntax.Target{Name: strings.TrimSpace(node.Text(l.src))}
	}

	name := ""
	for i := node.ChildCount() - 1; i >= 0; i-- {
		child := node.Child(i)
		if child.Type(l.lang) == nodeIdentifier {
			name = child.Text(l.src)
			break
		}
	}
	return syntax.Target{
		Attribute: true,
		Object:    strings.TrimSpace(node.Child(0).Text(l.src)),
		Name:      name,
	}
}

func (l *lowerer) syntaxError(node *gotreesitter.Node) error {
	point := node.StartPoint()
	near := strings.TrimSpace(node.Text(l.src))
	if idx := strings.IndexByte(near, '\n'); idx >= 0 {
		near = strings.TrimSpace(near[:idx])
	}
	if len(near) > 32 {
		near = near[:32]
	}
	return &lang.SyntaxError{
		Path:   l.path,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Near:   near,
	}
}

// isMissing reports a token that error recovery inserted without consuming
// any source, such as an unclosed parenthesis. Hidden rules start with "_".
func isMissing(node *gotreesitter.Node, nodeType string) bool {
	if node.ChildCount() != 0 || nodeType == "" || strings.HasPrefix(nodeType, "_") || zeroWidthNodeTypes[nodeType] {
		return false
	}
	start, end := node.StartPoint(), node.EndPoint()
	return start.Row == end.Row && start.Column == end.Column
}

// isAnnotated reports whether an assignment carries a type annotation;
// annotated assignments are not plain assignments.
func isAnnotated(node *gotreesitter.Node, lang *gotreesitter.Language) bool {
	for i := 0; i < node.ChildCount(); i++ {
		if node.Child(i).Type(lang) == tokenAnnotation {
			return true
		}
	}
	return false
}

func lineOf(node *gotreesitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
