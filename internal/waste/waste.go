package waste

import "fmt"

// #region category

// Category enumerates the closed set of disposal categories.
type Category string

const (
	CategoryMetal       Category = "metal"
	CategoryOrganic     Category = "organic"
	CategoryPaper       Category = "paper"
	CategoryPlasticPET  Category = "plastic_pet"
	CategoryPlasticSoft Category = "plastic_soft"
	CategoryGlass       Category = "glass"
	CategoryEwaste      Category = "ewaste"
	CategoryHazardous   Category = "hazardous"
	CategoryUnknown     Category = "unknown"
)

// Categories lists every valid category in a stable order.
var Categories = []Category{
	CategoryMetal,
	CategoryOrganic,
	CategoryPaper,
	CategoryPlasticPET,
	CategoryPlasticSoft,
	CategoryGlass,
	CategoryEwaste,
	CategoryHazardous,
	CategoryUnknown,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryMetal, CategoryOrganic, CategoryPaper, CategoryPlasticPET,
		CategoryPlasticSoft, CategoryGlass, CategoryEwaste, CategoryHazardous,
		CategoryUnknown:
		return true
	}
	return false
}

// ParseCategory converts a stored or operator-supplied token into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown waste category %q", s)
	}
	return c, nil
}

// #endregion category

// #region disposal

// DisposalLocation returns the default disposal text for a category.
// Exhaustive over the closed set; a category with no disposal text is a
// programming error, not an input error.
func DisposalLocation(c Category) string {
	switch c {
	case CategoryMetal:
		return "Metal recycling bin"
	case CategoryOrganic:
		return "Organic waste bin / Compost bin"
	case CategoryPaper:
		return "Paper recycling bin"
	case CategoryPlasticPET:
		return "Plastic PET recycling bin"
	case CategoryPlasticSoft:
		return "Special soft plastics bin or trash"
	case CategoryGlass:
		return "Glass recycling bin"
	case CategoryEwaste:
		return "E-waste collection point"
	case CategoryHazardous:
		return "Hazardous waste disposal facility"
	case CategoryUnknown:
		return "Manual sorting recommended"
	default:
		panic(fmt.Sprintf("no disposal location for category %q", c))
	}
}

// #endregion disposal
