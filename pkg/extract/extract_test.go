package extract

import (
	"reflect"
	"testing"

	"github.com/odvcencio/py2drawio/pkg/syntax"
)

func attr(object, name string) syntax.Target {
	return syntax.Target{Attribute: true, Object: object, Name: name}
}

func TestFileInitAssignsAttribute(t *testing.T) {
	module := &syntax.Module{Body: []*syntax.Node{
		{Kind: syntax.ClassDecl, Name: "Foo", Children: []*syntax.Node{
			{Kind: syntax.FunctionDecl, Name: "__init__", Children: []*syntax.Node{
				{Kind: syntax.AssignStmt, Targets: []syntax.Target{attr("self", "x")}},
			}},
		}},
	}}

	records := File(module)
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	got := records[0]
	if got.Name != "Foo" {
		t.Fatalf("Name = %q, want Foo", got.Name)
	}
	if !reflect.DeepEqual(got.Methods, []string{"__init__"}) {
		t.Fatalf("Methods = %v", got.Methods)
	}
	if !reflect.DeepEqual(got.Attributes, []string{"x"}) {
		t.Fatalf("Attributes = %v", got.Attributes)
	}
}

func TestFileOnlyTopLevelClasses(t *testing.T) {
	module := &syntax.Module{Body: []*syntax.Node{
		{Kind: syntax.FunctionDecl, Name: "factory", Children: []*syntax.Node{
			{Kind: syntax.ClassDecl, Name: "Local"},
		}},
		{Kind: syntax.Other, Children: []*syntax.Node{
			{Kind: syntax.ClassDecl, Name: "Guarded"},
		}},
		{Kind: syntax.ClassDecl, Name: "Outer", Children: []*syntax.Node{
			{Kind: syntax.ClassDecl, Name: "Inner", Children: []*syntax.Node{
				{Kind: syntax.FunctionDecl, Name: "inner_method"},
			}},
			{Kind: syntax.FunctionDecl, Name: "outer_method"},
		}},
		{Kind: syntax.ClassDecl, Name: "Second"},
	}}

	records := File(module)
	if len(records) != 2 || records[0].Name != "Outer" || records[1].Name != "Second" {
		t.Fatalf("expected Outer and Second, got %+v", records)
	}
	if !reflect.DeepEqual(records[0].Methods, []string{"inner_method", "outer_method"}) {
		t.Fatalf("nested class members belong to the owning class, got %v", records[0].Methods)
	}
	if records[1].Methods != nil || records[1].Attributes != nil {
		t.Fatalf("expected empty Second, got %+v", records[1])
	}
}

func TestClassCapturesClosuresAndDeepAttributes(t *testing.T) {
	node := &syntax.Node{Kind: syntax.ClassDecl, Name: "Worker", Children: []*syntax.Node{
		{Kind: syntax.AssignStmt, Targets: []syntax.Target{{Name: "limit"}}},
		{Kind: syntax.FunctionDecl, Name: "run", Children: []*syntax.Node{
			{Kind: syntax.FunctionDecl, Name: "step"},
			{Kind: syntax.Other, Children: []*syntax.Node{
				{Kind: syntax.AssignStmt, Targets: []syntax.Target{attr("self", "state")}},
			}},
			{Kind: syntax.AssignStmt, Targets: []syntax.Target{attr("self", "state")}},
		}},
		{Kind: syntax.FunctionDecl, Name: "fetch", Async: true},
	}}

	record := Class(node)
	if !reflect.DeepEqual(record.Methods, []string{"run", "step"}) {
		t.Fatalf("Methods = %v", record.Methods)
	}
	if !reflect.DeepEqual(record.Attributes, []string{"state", "state"}) {
		t.Fatalf("raw Attributes should keep duplicates, got %v", record.Attributes)
	}
}

func TestClassUsesFirstTargetOnly(t *testing.T) {
	node := &syntax.Node{Kind: syntax.ClassDecl, Name: "Chain", Children: []*syntax.Node{
		{Kind: syntax.AssignStmt, Targets: []syntax.Target{attr("self", "a"), attr("self", "b")}},
		{Kind: syntax.AssignStmt, Targets: []syntax.Target{{Name: "local"}, attr("self", "c")}},
		{Kind: syntax.AssignStmt},
	}}

	record := Class(node)
	if !reflect.DeepEqual(record.Attributes, []string{"a"}) {
		t.Fatalf("Attributes = %v, want [a]", record.Attributes)
	}
}

func TestFileNil(t *testing.T) {
	if got := File(nil); got != nil {
		t.Fatalf("File(nil) = %v, want nil", got)
	}
	if got := File(&syntax.Module{}); got != nil {
		t.Fatalf("File(empty) = %v, want nil", got)
	}
}
