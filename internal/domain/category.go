package domain

import "strings"

// Category classifies a breakdown component by its code. Every downstream
// computation (price resolution, resource aggregation, display) depends on
// these exact rules, so they live in one place.
type Category string

const (
	CategoryLabor      Category = "labor"
	CategoryMaterial   Category = "material"
	CategoryPercent    Category = "percent"
	CategoryDirectCost Category = "direct_cost"
)

// ComponentCategory derives the category from a component code:
// prefix "mo" is labor, "mt" or "mq" is material, a '%' anywhere in the
// code marks a percent line, anything else is a direct cost. Matching is
// case-insensitive; the '%' rule is a substring match, not a prefix.
func ComponentCategory(code string) Category {
	if code == "" {
		return CategoryDirectCost
	}
	c := strings.ToLower(code)
	switch {
	case strings.HasPrefix(c, "mo"):
		return CategoryLabor
	case strings.HasPrefix(c, "mt"), strings.HasPrefix(c, "mq"):
		return CategoryMaterial
	case strings.Contains(c, "%"):
		return CategoryPercent
	default:
		return CategoryDirectCost
	}
}

// IsMachineryCode refines material codes: "mq" components are machinery,
// "mt" components plain material.
func IsMachineryCode(code string) bool {
	return strings.HasPrefix(strings.ToLower(code), "mq")
}
