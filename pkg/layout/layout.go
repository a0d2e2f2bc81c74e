// Package layout places class boxes and their member rows on a single row
// of a diagram.
package layout

import (
	"fmt"
	"strings"

	"github.com/odvcencio/py2drawio/pkg/model"
)

const (
	BoxWidth  = 160
	RowHeight = 26
	Buffer    = 10
	Origin    = 1

	// headerRows reserves one row for the class title and one for the
	// separator line.
	headerRows = 2
)

// Spacing selects how the horizontal offset between boxes grows.
type Spacing int

const (
	// SpacingQuadratic advances by (BoxWidth+Buffer)*k after the k-th box,
	// so gaps widen as more classes are placed. This is the default and
	// reproduces existing diagrams.
	SpacingQuadratic Spacing = iota
	// SpacingLinear advances by BoxWidth+Buffer after every box.
	SpacingLinear
)

func (s Spacing) String() string {
	switch s {
	case SpacingLinear:
		return "linear"
	default:
		return "quadratic"
	}
}

// ParseSpacing maps a flag value to a Spacing.
func ParseSpacing(value string) (Spacing, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "quadratic":
		return SpacingQuadratic, nil
	case "linear":
		return SpacingLinear, nil
	default:
		return SpacingQuadratic, fmt.Errorf("unsupported spacing %q (want quadratic or linear)", value)
	}
}

type Options struct {
	Spacing Spacing
}

// Row is one attribute, separator, or method line inside a box. Y is the
// vertical offset; rows have no x of their own.
type Row struct {
	Key    model.MemberKey
	Y      int
	Width  int
	Height int
}

// Box is the rectangle of one class together with its rows.
type Box struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	Rows   []Row
}

type Diagram struct {
	Boxes []Box
}

// BoxHeight returns the height of a class box with the given member count.
func BoxHeight(members int) int {
	return RowHeight * (members + headerRows)
}

// Compute lays out every class of m in model order, in one pass.
func Compute(m model.ClassModel, opts Options) Diagram {
	diagram := Diagram{Boxes: make([]Box, 0, len(m.Classes))}

	x := Origin
	for i, record := range m.Classes {
		diagram.Boxes = append(diagram.Boxes, box(record, x, Origin))

		placed := i + 1
		switch opts.Spacing {
		case SpacingLinear:
			x += BoxWidth + Buffer
		default:
			x += BoxWidth*placed + Buffer*placed
		}
	}
	return diagram
}

func box(record model.ClassRecord, x, y int) Box {
	b := Box{
		Name:   record.Name,
		X:      x,
		Y:      y,
		Width:  BoxWidth,
		Height: BoxHeight(record.MemberCount()),
		Rows:   make([]Row, 0, record.MemberCount()+1),
	}

	rowY := y
	addRow := func(kind model.MemberKind, name string) {
		rowY += RowHeight
		b.Rows = append(b.Rows, Row{
			Key:    model.MemberKey{Owner: record.Name, Kind: kind, Name: name},
			Y:      rowY,
			Width:  BoxWidth,
			Height: RowHeight,
		})
	}

	for _, name := range record.Attributes {
		addRow(model.MemberAttribute, name)
	}
	addRow(model.MemberSeparator, "")
	for _, name := range record.Methods {
		addRow(model.MemberMethod, name)
	}
	return b
}
