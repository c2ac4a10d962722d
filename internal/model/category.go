// Package model defines the expense records and derived values shared across pennywise.
package model

import (
	"fmt"
	"strings"
)

// Category is one label of the fixed expense enumeration, stored in display form.
type Category string

// The fixed category enumeration. Declaration order matters: it is the tie-break
// order used when a free-text reply names more than one category.
const (
	CategoryHousing          Category = "Housing"
	CategoryTransportation   Category = "Transportation"
	CategoryFood             Category = "Food"
	CategoryUtilities        Category = "Utilities"
	CategoryInsurance        Category = "Insurance"
	CategoryHealthcare       Category = "Healthcare"
	CategorySaving           Category = "Saving"
	CategoryInvestment       Category = "Investment"
	CategoryDebtPayment      Category = "Debt payment"
	CategoryPersonalSpending Category = "Personal spending"
	CategoryEntertainment    Category = "Entertainment"
	CategoryMiscellaneous    Category = "Miscellaneous"
)

// DefaultCategory is assigned when no label can be determined.
const DefaultCategory = CategoryMiscellaneous

var categories = []Category{
	CategoryHousing,
	CategoryTransportation,
	CategoryFood,
	CategoryUtilities,
	CategoryInsurance,
	CategoryHealthcare,
	CategorySaving,
	CategoryInvestment,
	CategoryDebtPayment,
	CategoryPersonalSpending,
	CategoryEntertainment,
	CategoryMiscellaneous,
}

// Categories returns the enumeration in declared order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Label returns the lower-case label used in prompts and reply matching.
func (c Category) Label() string {
	return strings.ToLower(string(c))
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Index returns the declared position of c, or -1 when c is not in the enumeration.
func (c Category) Index() int {
	for i, known := range categories {
		if c == known {
			return i
		}
	}
	return -1
}

// ParseCategory maps a stored or typed label onto the enumeration, ignoring case
// and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	for _, c := range categories {
		if c.Label() == label {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Labels returns the lower-case labels of cats joined for use in a prompt.
func Labels(cats []Category) string {
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = c.Label()
	}
	return strings.Join(labels, ", ")
}
