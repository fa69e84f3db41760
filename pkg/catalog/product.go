package catalog

import "github.com/shopspring/decimal"

// Limit caps metered usage of one unit for a product.
// Min or Max of -1 means unbounded on that side.
type Limit struct {
	Unit string
	Min  decimal.Decimal
	Max  decimal.Decimal
}

// Product is a sellable item of the catalog. Its name is unique within a
// snapshot. Included and Available reference add-on products by name:
// included add-ons ship with the product at no charge, available add-ons may
// be purchased alongside it.
type Product struct {
	Name      string
	Category  ProductCategory
	Included  []string
	Available []string
	Limits    []Limit
}

// EntityName implements Named for name-keyed collections.
func (p *Product) EntityName() string { return p.Name }

// IsIncluded reports whether the named add-on product ships with p.
func (p *Product) IsIncluded(addOn string) bool {
	for _, name := range p.Included {
		if name == addOn {
			return true
		}
	}
	return false
}

// IsAvailable reports whether the named add-on product may attach to p.
func (p *Product) IsAvailable(addOn string) bool {
	for _, name := range p.Available {
		if name == addOn {
			return true
		}
	}
	return false
}
