package model

import (
	"reflect"
	"testing"
)

func TestMemberKeyID(t *testing.T) {
	tests := []struct {
		name string
		key  MemberKey
		want string
	}{
		{"attribute owner first", MemberKey{Owner: "Foo", Kind: MemberAttribute, Name: "x"}, "Foox"},
		{"method name first", MemberKey{Owner: "Foo", Kind: MemberMethod, Name: "run"}, "runFoo"},
		{"separator", MemberKey{Owner: "Foo", Kind: MemberSeparator}, "Foo_line"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.ID(); got != tc.want {
				t.Errorf("ID() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassModelAppend(t *testing.T) {
	var m ClassModel
	if pos := m.AppendClass("Foo"); pos != 0 {
		t.Fatalf("AppendClass(Foo) = %d, want 0", pos)
	}
	if pos := m.AppendClass("Bar"); pos != 1 {
		t.Fatalf("AppendClass(Bar) = %d, want 1", pos)
	}
	if pos := m.AppendClass("Foo"); pos != 0 {
		t.Fatalf("AppendClass(Foo) again = %d, want 0", pos)
	}

	if !m.AppendMember(MemberKey{Owner: "Foo", Kind: MemberMethod, Name: "run"}) {
		t.Fatal("expected first AppendMember to report true")
	}
	if m.AppendMember(MemberKey{Owner: "Foo", Kind: MemberMethod, Name: "run"}) {
		t.Fatal("expected duplicate AppendMember to report false")
	}
	if !m.AppendMember(MemberKey{Owner: "Foo", Kind: MemberAttribute, Name: "run"}) {
		t.Fatal("attribute and method with the same name are distinct keys")
	}
	if m.AppendMember(MemberKey{Owner: "Foo", Kind: MemberSeparator, Name: "x"}) {
		t.Fatal("separator keys are not stored")
	}

	record, ok := m.Get("Foo")
	if !ok {
		t.Fatal("expected Foo record")
	}
	if !reflect.DeepEqual(record.Methods, []string{"run"}) || !reflect.DeepEqual(record.Attributes, []string{"run"}) {
		t.Fatalf("unexpected Foo record %+v", record)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"Foo", "Bar"}) {
		t.Fatalf("Names() = %v", got)
	}
}

func TestClassModelIndexesLiteral(t *testing.T) {
	m := ClassModel{Classes: []ClassRecord{
		{Name: "A", Methods: []string{"m"}},
		{Name: "B", Attributes: []string{"a"}},
	}}
	if pos, ok := m.Position("B"); !ok || pos != 1 {
		t.Fatalf("Position(B) = %d,%v", pos, ok)
	}
	if !m.HasMember(MemberKey{Owner: "A", Kind: MemberMethod, Name: "m"}) {
		t.Fatal("expected literal members to be indexed")
	}
	if m.HasMember(MemberKey{Owner: "B", Kind: MemberMethod, Name: "a"}) {
		t.Fatal("attribute a must not be seen as a method")
	}
}

func TestClassModelSorted(t *testing.T) {
	m := ClassModel{Classes: []ClassRecord{
		{Name: "Zeta", Methods: []string{"b", "a"}},
		{Name: "Alpha"},
	}}
	sorted := m.Sorted()
	if got := sorted.Names(); !reflect.DeepEqual(got, []string{"Alpha", "Zeta"}) {
		t.Fatalf("Sorted().Names() = %v", got)
	}
	zeta, _ := sorted.Get("Zeta")
	if !reflect.DeepEqual(zeta.Methods, []string{"b", "a"}) {
		t.Fatalf("member order changed: %v", zeta.Methods)
	}
	sorted.Classes[1].Methods[0] = "changed"
	if m.Classes[0].Methods[0] != "b" {
		t.Fatal("Sorted must not share member storage with the source")
	}
}

func TestClassModelClone(t *testing.T) {
	var m ClassModel
	m.AppendMember(MemberKey{Owner: "Foo", Kind: MemberMethod, Name: "run"})

	clone := m.Clone()
	clone.AppendMember(MemberKey{Owner: "Foo", Kind: MemberAttribute, Name: "x"})
	clone.AppendClass("Bar")

	if m.Len() != 1 || len(m.Classes[0].Attributes) != 0 {
		t.Fatalf("extending the clone changed the source: %+v", m.Classes)
	}
	if m.HasMember(MemberKey{Owner: "Foo", Kind: MemberAttribute, Name: "x"}) {
		t.Fatal("source must not see members added to the clone")
	}
	if clone.Len() != 2 || !clone.HasMember(MemberKey{Owner: "Foo", Kind: MemberMethod, Name: "run"}) {
		t.Fatalf("clone lost source members: %+v", clone.Classes)
	}
}

func TestIndexCounts(t *testing.T) {
	idx := &Index{
		Files: []FileSummary{
			{Path: "a.py", Classes: []ClassRecord{{Name: "Foo"}, {Name: "Bar"}}},
			{Path: "b.py", Classes: []ClassRecord{{Name: "Foo"}}},
			{Path: "c.py"},
		},
		Classes: ClassModel{Classes: []ClassRecord{{Name: "Foo"}, {Name: "Bar"}}},
	}
	if got := idx.FileCount(); got != 3 {
		t.Errorf("FileCount() = %d, want 3", got)
	}
	if got := idx.DeclarationCount(); got != 3 {
		t.Errorf("DeclarationCount() = %d, want 3", got)
	}
	if got := idx.ClassCount(); got != 2 {
		t.Errorf("ClassCount() = %d, want 2", got)
	}
}

func TestIndexNilSafety(t *testing.T) {
	var idx *Index
	if got := idx.FileCount(); got != 0 {
		t.Errorf("FileCount() on nil = %d, want 0", got)
	}
	if got := idx.ClassCount(); got != 0 {
		t.Errorf("ClassCount() on nil = %d, want 0", got)
	}
	if got := idx.DeclarationCount(); got != 0 {
		t.Errorf("DeclarationCount() on nil = %d, want 0", got)
	}
}
