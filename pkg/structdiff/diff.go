// Package structdiff compares two class models to detect added and removed
// classes and member rows.
package structdiff

import (
	"sort"

	"github.com/odvcencio/py2drawio/pkg/model"
)

type Stats struct {
	AddedClasses   int `json:"added_classes"`
	RemovedClasses int `json:"removed_classes"`
	AddedMembers   int `json:"added_members"`
	RemovedMembers int `json:"removed_members"`
	ChangedClasses int `json:"changed_classes"`
}

type Report struct {
	AddedClasses   []string          `json:"added_classes,omitempty"`
	RemovedClasses []string          `json:"removed_classes,omitempty"`
	AddedMembers   []model.MemberKey `json:"added_members,omitempty"`
	RemovedMembers []model.MemberKey `json:"removed_members,omitempty"`
	Stats          Stats             `json:"stats"`
}

// Empty reports whether the two models had the same classes and members.
func (r Report) Empty() bool {
	return len(r.AddedClasses) == 0 && len(r.RemovedClasses) == 0 &&
		len(r.AddedMembers) == 0 && len(r.RemovedMembers) == 0
}

// Compare reports what changed from before to after. Class order is ignored.
// Members of a class that was added or removed are listed too.
func Compare(before, after model.ClassModel) Report {
	report := Report{}

	beforeClasses := classSet(before)
	afterClasses := classSet(after)
	for name := range afterClasses {
		if !beforeClasses[name] {
			report.AddedClasses = append(report.AddedClasses, name)
		}
	}
	for name := range beforeClasses {
		if !afterClasses[name] {
			report.RemovedClasses = append(report.RemovedClasses, name)
		}
	}

	beforeMembers := flattenMembers(before)
	afterMembers := flattenMembers(after)
	for key := range afterMembers {
		if _, exists := beforeMembers[key]; !exists {
			report.AddedMembers = append(report.AddedMembers, key)
		}
	}
	for key := range beforeMembers {
		if _, exists := afterMembers[key]; !exists {
			report.RemovedMembers = append(report.RemovedMembers, key)
		}
	}

	sort.Strings(report.AddedClasses)
	sort.Strings(report.RemovedClasses)
	sortMemberKeys(report.AddedMembers)
	sortMemberKeys(report.RemovedMembers)

	report.Stats = Stats{
		AddedClasses:   len(report.AddedClasses),
		RemovedClasses: len(report.RemovedClasses),
		AddedMembers:   len(report.AddedMembers),
		RemovedMembers: len(report.RemovedMembers),
		ChangedClasses: countChangedClasses(report),
	}
	return report
}

func classSet(m model.ClassModel) map[string]bool {
	set := make(map[string]bool, len(m.Classes))
	for _, record := range m.Classes {
		set[record.Name] = true
	}
	return set
}

func flattenMembers(m model.ClassModel) map[model.MemberKey]struct{} {
	flat := make(map[model.MemberKey]struct{}, memberCapacity(m))
	for _, record := range m.Classes {
		for _, name := range record.Attributes {
			flat[model.MemberKey{Owner: record.Name, Kind: model.MemberAttribute, Name: name}] = struct{}{}
		}
		for _, name := range record.Methods {
			flat[model.MemberKey{Owner: record.Name, Kind: model.MemberMethod, Name: name}] = struct{}{}
		}
	}
	return flat
}

func memberCapacity(m model.ClassModel) int {
	total := 0
	for _, record := range m.Classes {
		total += record.MemberCount()
	}
	return total
}

func sortMemberKeys(items []model.MemberKey) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Owner == items[j].Owner {
			if items[i].Kind == items[j].Kind {
				return items[i].Name < items[j].Name
			}
			return items[i].Kind < items[j].Kind
		}
		return items[i].Owner < items[j].Owner
	})
}

func countChangedClasses(report Report) int {
	seen := map[string]bool{}
	for _, name := range report.AddedClasses {
		seen[name] = true
	}
	for _, name := range report.RemovedClasses {
		seen[name] = true
	}
	for _, key := range report.AddedMembers {
		seen[key.Owner] = true
	}
	for _, key := range report.RemovedMembers {
		seen[key.Owner] = true
	}
	return len(seen)
}
