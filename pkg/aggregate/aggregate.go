// Package aggregate merges per-file class records into a single class model.
package aggregate

import "github.com/odvcencio/py2drawio/pkg/model"

// Fold returns acc extended with records. acc itself is left unchanged.
//
// A class name seen for the first time gets a new record at the end of the
// model. Methods and attributes are appended only when the class does not
// already have them, so first-seen order is kept and folding the same
// records again changes nothing.
func Fold(acc model.ClassModel, records []model.ClassRecord) model.ClassModel {
	next := acc.Clone()
	foldInto(&next, records)
	return next
}

// Files folds the class records of every summary, in order.
func Files(files []model.FileSummary) model.ClassModel {
	var acc model.ClassModel
	for _, file := range files {
		foldInto(&acc, file.Classes)
	}
	return acc
}

func foldInto(acc *model.ClassModel, records []model.ClassRecord) {
	for _, record := range records {
		acc.AppendClass(record.Name)
		for _, name := range record.Methods {
			acc.AppendMember(model.MemberKey{Owner: record.Name, Kind: model.MemberMethod, Name: name})
		}
		for _, name := range record.Attributes {
			acc.AppendMember(model.MemberKey{Owner: record.Name, Kind: model.MemberAttribute, Name: name})
		}
	}
}
