// Package model defines the core data types for class extraction: ClassRecord, ClassModel, MemberKey, FileSummary, and Index.
package model

import "sort"

// MemberKind distinguishes the rows drawn inside a class box.
type MemberKind string

const (
	MemberAttribute MemberKind = "attribute"
	MemberMethod    MemberKind = "method"
	MemberSeparator MemberKind = "separator"
)

// MemberKey identifies a member row by owner, kind, and name. It is only
// flattened into a string identifier when a document is written.
type MemberKey struct {
	Owner string     `json:"owner"`
	Kind  MemberKind `json:"kind"`
	Name  string     `json:"name"`
}

// ID returns the flattened draw.io cell identifier for the member.
// Methods put the member name first; attributes put the owner first.
func (k MemberKey) ID() string {
	switch k.Kind {
	case MemberMethod:
		return k.Name + k.Owner
	case MemberSeparator:
		return k.Owner + "_line"
	default:
		return k.Owner + k.Name
	}
}

// ClassRecord is the extracted structure of one class name.
type ClassRecord struct {
	Name       string   `json:"name"`
	Methods    []string `json:"methods,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
}

// MemberCount returns the number of attribute and method rows.
func (r ClassRecord) MemberCount() int {
	return len(r.Attributes) + len(r.Methods)
}

// ClassModel is the ordered set of class records of a run, in order of
// first sighting. It holds one record per class name and no duplicate
// members within a record.
//
// The Append methods extend a model in place; Clone returns a copy that can
// be extended without affecting the original.
type ClassModel struct {
	Classes []ClassRecord `json:"classes"`

	positions map[string]int
	members   map[MemberKey]struct{}
}

func (m *ClassModel) ensureIndex() {
	if m.positions != nil && len(m.positions) == len(m.Classes) {
		return
	}
	m.positions = make(map[string]int, len(m.Classes))
	m.members = make(map[MemberKey]struct{})
	for i, record := range m.Classes {
		m.positions[record.Name] = i
		for _, name := range record.Attributes {
			m.members[MemberKey{Owner: record.Name, Kind: MemberAttribute, Name: name}] = struct{}{}
		}
		for _, name := range record.Methods {
			m.members[MemberKey{Owner: record.Name, Kind: MemberMethod, Name: name}] = struct{}{}
		}
	}
}

// Len returns the number of classes.
func (m *ClassModel) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Classes)
}

// Position returns the insertion position of a class name.
func (m *ClassModel) Position(name string) (int, bool) {
	m.ensureIndex()
	pos, ok := m.positions[name]
	return pos, ok
}

// Get returns the record stored under name.
func (m *ClassModel) Get(name string) (ClassRecord, bool) {
	pos, ok := m.Position(name)
	if !ok {
		return ClassRecord{}, false
	}
	return m.Classes[pos], true
}

// AppendClass adds an empty record for name and returns its position. An
// existing name is left untouched.
func (m *ClassModel) AppendClass(name string) int {
	if pos, ok := m.Position(name); ok {
		return pos
	}
	m.Classes = append(m.Classes, ClassRecord{Name: name})
	pos := len(m.Classes) - 1
	m.positions[name] = pos
	return pos
}

// HasMember reports whether key was already recorded.
func (m *ClassModel) HasMember(key MemberKey) bool {
	m.ensureIndex()
	_, ok := m.members[key]
	return ok
}

// AppendMember records key on its owner, creating the owner when needed.
// It reports false when the member was already present.
func (m *ClassModel) AppendMember(key MemberKey) bool {
	if m.HasMember(key) {
		return false
	}
	pos := m.AppendClass(key.Owner)
	record := &m.Classes[pos]
	switch key.Kind {
	case MemberMethod:
		record.Methods = append(record.Methods, key.Name)
	case MemberAttribute:
		record.Attributes = append(record.Attributes, key.Name)
	default:
		return false
	}
	m.members[key] = struct{}{}
	return true
}

// Clone returns a deep copy of the model. Lookup tables are rebuilt lazily
// on the copy.
func (m *ClassModel) Clone() ClassModel {
	if m == nil || len(m.Classes) == 0 {
		return ClassModel{}
	}
	classes := make([]ClassRecord, len(m.Classes))
	for i, record := range m.Classes {
		classes[i] = record.clone()
	}
	return ClassModel{Classes: classes}
}

func (r ClassRecord) clone() ClassRecord {
	return ClassRecord{
		Name:       r.Name,
		Methods:    append([]string(nil), r.Methods...),
		Attributes: append([]string(nil), r.Attributes...),
	}
}

// Names returns class names in model order.
func (m *ClassModel) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Classes))
	for _, record := range m.Classes {
		names = append(names, record.Name)
	}
	return names
}

// Sorted returns a copy of the model ordered by class name. Member order
// inside each record is unchanged.
func (m *ClassModel) Sorted() ClassModel {
	if m == nil {
		return ClassModel{}
	}
	classes := m.Clone().Classes
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].Name < classes[j].Name
	})
	return ClassModel{Classes: classes}
}

// FileSummary contains the raw class extraction of a single source file.
type FileSummary struct {
	Path            string        `json:"path"`
	Language        string        `json:"language"`
	SizeBytes       int64         `json:"size_bytes,omitempty"`
	ModTimeUnixNano int64         `json:"mod_time_unix_nano,omitempty"`
	Classes         []ClassRecord `json:"classes,omitempty"`
}

// Index is the result of one run over a source tree.
type Index struct {
	Version string        `json:"version"`
	Root    string        `json:"root"`
	Files   []FileSummary `json:"files"`
	Classes ClassModel    `json:"model"`
}

// FileCount returns the number of parsed files in the index.
func (idx *Index) FileCount() int {
	if idx == nil {
		return 0
	}
	return len(idx.Files)
}

// ClassCount returns the number of distinct classes after aggregation.
func (idx *Index) ClassCount() int {
	if idx == nil {
		return 0
	}
	return idx.Classes.Len()
}

// DeclarationCount returns the number of class declarations across all files,
// counting repeated names once per file.
func (idx *Index) DeclarationCount() int {
	if idx == nil {
		return 0
	}

	total := 0
	for _, file := range idx.Files {
		total += len(file.Classes)
	}
	return total
}
