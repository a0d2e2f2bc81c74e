package aggregate

import (
	"reflect"
	"testing"

	"github.com/odvcencio/py2drawio/pkg/model"
)

func TestFoldUnionsAcrossFiles(t *testing.T) {
	var acc model.ClassModel
	acc = Fold(acc, []model.ClassRecord{{Name: "Foo", Methods: []string{"a", "b"}}})
	acc = Fold(acc, []model.ClassRecord{{Name: "Foo", Methods: []string{"c", "d"}}})

	record, ok := acc.Get("Foo")
	if !ok {
		t.Fatal("expected Foo record")
	}
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(record.Methods, want) {
		t.Fatalf("Methods = %v, want %v", record.Methods, want)
	}

	acc = Fold(acc, []model.ClassRecord{{Name: "Foo", Methods: []string{"d", "a", "c", "b"}}})
	record, _ = acc.Get("Foo")
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(record.Methods, want) {
		t.Fatalf("re-appending changed Methods to %v", record.Methods)
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	records := []model.ClassRecord{
		{Name: "Foo", Methods: []string{"__init__", "run", "run"}, Attributes: []string{"x", "y", "x"}},
		{Name: "Bar", Attributes: []string{"z"}},
	}

	once := Fold(model.ClassModel{}, records)
	twice := Fold(Fold(model.ClassModel{}, records), records)

	if !reflect.DeepEqual(once.Classes, twice.Classes) {
		t.Fatalf("folding twice changed the model\nonce=%+v\ntwice=%+v", once.Classes, twice.Classes)
	}
	if once.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", once.Len())
	}
	foo, _ := once.Get("Foo")
	if !reflect.DeepEqual(foo.Methods, []string{"__init__", "run"}) || !reflect.DeepEqual(foo.Attributes, []string{"x", "y"}) {
		t.Fatalf("unexpected Foo %+v", foo)
	}
}

func TestFoldKeepsFirstSightingOrder(t *testing.T) {
	acc := Fold(model.ClassModel{}, []model.ClassRecord{{Name: "B"}, {Name: "A"}})
	acc = Fold(acc, []model.ClassRecord{{Name: "C"}, {Name: "B", Attributes: []string{"late"}}})

	if got := acc.Names(); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Fatalf("Names() = %v", got)
	}
	b, _ := acc.Get("B")
	if !reflect.DeepEqual(b.Attributes, []string{"late"}) {
		t.Fatalf("B.Attributes = %v", b.Attributes)
	}
	a, _ := acc.Get("A")
	if a.Methods != nil || a.Attributes != nil {
		t.Fatalf("A should stay empty, got %+v", a)
	}
}

func TestFoldSameNameAttributeAndMethod(t *testing.T) {
	acc := Fold(model.ClassModel{}, []model.ClassRecord{
		{Name: "Foo", Methods: []string{"value"}, Attributes: []string{"value"}},
	})
	foo, _ := acc.Get("Foo")
	if len(foo.Methods) != 1 || len(foo.Attributes) != 1 {
		t.Fatalf("attribute and method sharing a name must both be kept, got %+v", foo)
	}
}

func TestFiles(t *testing.T) {
	got := Files([]model.FileSummary{
		{Path: "a.py", Classes: []model.ClassRecord{{Name: "Foo", Methods: []string{"a"}}}},
		{Path: "b.py"},
		{Path: "c.py", Classes: []model.ClassRecord{{Name: "Foo", Methods: []string{"b"}}, {Name: "Bar"}}},
	})
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	foo, _ := got.Get("Foo")
	if !reflect.DeepEqual(foo.Methods, []string{"a", "b"}) {
		t.Fatalf("Foo.Methods = %v", foo.Methods)
	}
	if empty := Files(nil); empty.Len() != 0 {
		t.Fatalf("Files(nil).Len() = %d", empty.Len())
	}
}

func TestFoldLeavesAccumulatorUnchanged(t *testing.T) {
	first := Fold(model.ClassModel{}, []model.ClassRecord{{Name: "A", Methods: []string{"a"}}})
	snapshot := first.Clone()

	withX := Fold(first, []model.ClassRecord{{Name: "A", Methods: []string{"b"}, Attributes: []string{"x"}}})
	if !reflect.DeepEqual(first.Classes, snapshot.Classes) {
		t.Fatalf("accumulator changed by Fold\nbefore=%+v\nafter=%+v", snapshot.Classes, first.Classes)
	}
	if first.HasMember(model.MemberKey{Owner: "A", Kind: model.MemberAttribute, Name: "x"}) {
		t.Fatal("accumulator reports a member added to a later model")
	}

	withoutX := Fold(first, []model.ClassRecord{{Name: "A", Methods: []string{"b"}}})
	a, _ := withoutX.Get("A")
	if !reflect.DeepEqual(a.Methods, []string{"a", "b"}) || len(a.Attributes) != 0 {
		t.Fatalf("sibling fold leaked state: %+v", a)
	}
	a, _ = withX.Get("A")
	if !reflect.DeepEqual(a.Attributes, []string{"x"}) {
		t.Fatalf("expected attribute x on the extended model, got %+v", a)
	}
}
