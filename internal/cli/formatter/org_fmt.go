package formatter

import (
	"github.com/alexanderramin/workplan/internal/domain"
)

// FormatOrgTree renders units as a tree. Units must start with the root of
// the subtree; the rest may come in any order.
func FormatOrgTree(units []*domain.OrgUnit) string {
	if len(units) == 0 {
		return ""
	}
	children := make(map[string][]*domain.OrgUnit)
	for _, u := range units[1:] {
		if u.ParentID != nil {
			children[*u.ParentID] = append(children[*u.ParentID], u)
		}
	}

	var items []TreeItem
	var walk func(u *domain.OrgUnit, level int, last bool)
	walk = func(u *domain.OrgUnit, level int, last bool) {
		items = append(items, TreeItem{
			Title:  Bold(u.Abbreviation) + " " + Dim(u.Designation),
			Level:  level,
			IsLast: last,
			Detail: orgDetail(u),
		})
		kids := children[u.ID]
		for i, k := range kids {
			walk(k, level+1, i == len(kids)-1)
		}
	}
	walk(units[0], 0, true)
	return RenderTree(items)
}

func orgDetail(u *domain.OrgUnit) string {
	if u.BudgetCode != "" {
		return string(u.Kind) + " " + u.BudgetCode
	}
	return string(u.Kind)
}
