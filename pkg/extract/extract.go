// Package extract pulls class names, method names, and attribute names out of lowered syntax modules.
package extract

import (
	"github.com/odvcencio/py2drawio/pkg/model"
	"github.com/odvcencio/py2drawio/pkg/syntax"
)

// File returns one record per top-level class declaration of module, in
// source order. Method and attribute lists are raw: a name appears once per
// occurrence.
func File(module *syntax.Module) []model.ClassRecord {
	if module == nil {
		return nil
	}

	var records []model.ClassRecord
	for _, node := range module.Body {
		if node == nil || node.Kind != syntax.ClassDecl {
			continue
		}
		records = append(records, Class(node))
	}
	return records
}

// Class scans the whole subtree of a class declaration.
//
// Every function definition at any depth counts as a method, closures
// included. Every plain assignment whose first target is an attribute
// access counts as an attribute, wherever it appears. Async functions are
// not collected.
func Class(node *syntax.Node) model.ClassRecord {
	record := model.ClassRecord{Name: node.Name}
	syntax.Walk(node, func(current *syntax.Node) bool {
		switch current.Kind {
		case syntax.FunctionDecl:
			if !current.Async {
				record.Methods = append(record.Methods, current.Name)
			}
		case syntax.AssignStmt:
			if len(current.Targets) > 0 && current.Targets[0].Attribute {
				record.Attributes = append(record.Attributes, current.Targets[0].Name)
			}
		}
		return true
	})
	return record
}
