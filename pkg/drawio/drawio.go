// Package drawio writes laid-out class diagrams in the draw.io (mxGraph) file format.
package drawio

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/odvcencio/py2drawio/pkg/layout"
	"github.com/odvcencio/py2drawio/pkg/model"
)

// DefaultFileName is the output file written relative to the working directory.
const DefaultFileName = "classes.drawio"

const (
	rootCellID  = "0"
	layerCellID = "1"

	styleContainer = "swimlane;"
	styleText      = "text;"
	styleLine      = "line;"
)

var envelope = []string{"mxfile", "diagram", "mxGraphModel", "root"}

// Label returns the text shown for a member row.
func Label(key model.MemberKey) string {
	switch key.Kind {
	case model.MemberMethod:
		return "+ " + key.Name + "()"
	case model.MemberSeparator:
		return ""
	default:
		return "+ " + key.Name
	}
}

// WriteFile creates path and streams the document into it. The file is not
// replaced atomically; a failed write can leave it truncated.
func WriteFile(path string, diagram layout.Diagram) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return Write(file, diagram)
}

// Write streams diagram to w, flushing after every class.
func Write(w io.Writer, diagram layout.Diagram) error {
	enc := &encoder{xml: xml.NewEncoder(w)}
	enc.xml.Indent("", "  ")

	if err := enc.xml.EncodeToken(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8" standalone="no"`),
	}); err != nil {
		return err
	}
	for _, name := range envelope {
		if err := enc.start(name); err != nil {
			return err
		}
	}

	if err := enc.cell(cell{id: rootCellID}); err != nil {
		return err
	}
	if err := enc.cell(cell{id: layerCellID, parent: rootCellID}); err != nil {
		return err
	}

	for _, box := range diagram.Boxes {
		if err := enc.box(box); err != nil {
			return err
		}
		if err := enc.xml.Flush(); err != nil {
			return err
		}
	}

	for i := len(envelope) - 1; i >= 0; i-- {
		if err := enc.end(envelope[i]); err != nil {
			return err
		}
	}
	return enc.xml.Close()
}

// DuplicateIDs returns flattened cell identifiers used more than once, in
// order of their second appearance. Distinct members can flatten to the same
// identifier, for example attribute "ab" of class "X" and attribute "b" of
// class "Xa".
func DuplicateIDs(diagram layout.Diagram) []string {
	seen := map[string]int{rootCellID: 1, layerCellID: 1}
	var duplicates []string
	note := func(id string) {
		seen[id]++
		if seen[id] == 2 {
			duplicates = append(duplicates, id)
		}
	}
	for _, box := range diagram.Boxes {
		note(box.Name)
		for _, row := range box.Rows {
			note(row.Key.ID())
		}
	}
	return duplicates
}

type cell struct {
	id       string
	value    string
	hasValue bool
	style    string
	parent   string
	geometry []xml.Attr
}

type encoder struct {
	xml *xml.Encoder
}

func (e *encoder) box(box layout.Box) error {
	if err := e.cell(cell{
		id:       box.Name,
		value:    box.Name,
		hasValue: true,
		style:    styleContainer,
		parent:   layerCellID,
		geometry: []xml.Attr{
			intAttr("x", box.X),
			intAttr("y", box.Y),
			intAttr("width", box.Width),
			intAttr("height", box.Height),
		},
	}); err != nil {
		return err
	}

	for _, row := range box.Rows {
		style := styleText
		if row.Key.Kind == model.MemberSeparator {
			style = styleLine
		}
		if err := e.cell(cell{
			id:       row.Key.ID(),
			value:    Label(row.Key),
			hasValue: true,
			style:    style,
			parent:   box.Name,
			geometry: []xml.Attr{
				intAttr("y", row.Y),
				intAttr("width", row.Width),
				intAttr("height", row.Height),
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) cell(c cell) error {
	attrs := []xml.Attr{attr("id", c.id)}
	if c.hasValue {
		attrs = append(attrs, attr("value", c.value))
	}
	if c.style != "" {
		attrs = append(attrs, attr("style", c.style), attr("vertex", "1"))
	}
	if c.parent != "" {
		attrs = append(attrs, attr("parent", c.parent))
	}

	if err := e.start("mxCell", attrs...); err != nil {
		return err
	}
	if c.geometry != nil {
		geometry := append(c.geometry, attr("as", "geometry"))
		if err := e.start("mxGeometry", geometry...); err != nil {
			return err
		}
		if err := e.end("mxGeometry"); err != nil {
			return err
		}
	}
	return e.end("mxCell")
}

func (e *encoder) start(name string, attrs ...xml.Attr) error {
	return e.xml.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (e *encoder) end(name string) error {
	return e.xml.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func intAttr(name string, value int) xml.Attr {
	return attr(name, strconv.Itoa(value))
}
