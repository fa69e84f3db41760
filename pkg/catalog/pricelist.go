package catalog

import "slices"

// DefaultPriceListName is the reserved name of every snapshot's default
// price list.
const DefaultPriceListName = "DEFAULT"

// PriceList is a named bucket of plans, referenced by plan name.
type PriceList struct {
	Name  string
	Plans []string
}

// EntityName implements Named for name-keyed collections.
func (l *PriceList) EntityName() string { return l.Name }

// Contains reports whether the named plan is exposed by this list.
func (l *PriceList) Contains(planName string) bool {
	return slices.Contains(l.Plans, planName)
}

// PriceListSet holds a snapshot's default price list and its named children.
type PriceListSet struct {
	Default  *PriceList
	Children []*PriceList
}

// Find returns the price list with the given name. The empty name and
// DefaultPriceListName both resolve to the default list.
func (s *PriceListSet) Find(name string) (*PriceList, bool) {
	if name == "" || name == DefaultPriceListName {
		return s.Default, s.Default != nil
	}
	for _, child := range s.Children {
		if child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// All returns every price list, default first.
func (s *PriceListSet) All() []*PriceList {
	lists := make([]*PriceList, 0, len(s.Children)+1)
	if s.Default != nil {
		lists = append(lists, s.Default)
	}
	return append(lists, s.Children...)
}
