package cart

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemProblems lists what keeps a line item from being quoted. Each entry is
// prefixed with field, or left bare when field is empty.
func ItemProblems(field string, it LineItem) []string {
	var out []string
	if _, err := uuid.Parse(it.ID); err != nil {
		out = append(out, path(field, "id")+": must be a uuid")
	}
	if it.Type != ItemTypePacket {
		out = append(out, fmt.Sprintf("%s: must be %q", path(field, "type"), ItemTypePacket))
	}
	if it.PriceCents < 0 {
		out = append(out, path(field, "priceCents")+": must be >= 0")
	}
	if it.Quantity < 1 {
		out = append(out, path(field, "quantity")+": must be >= 1")
	}
	if it.MarkupPercentage < 0 {
		out = append(out, path(field, "markupPercentage")+": must be >= 0")
	}
	return append(out, RecipeProblems(path(field, "recipes"), it.Recipes)...)
}

func RecipeProblems(field string, recipes []RecipeLine) []string {
	var out []string
	for i, rl := range recipes {
		rf := fmt.Sprintf("%s[%d]", field, i)
		if _, err := uuid.Parse(rl.ID); err != nil {
			out = append(out, rf+".id: must be a uuid")
		}
		if rl.Quantity < 1 {
			out = append(out, rf+".quantity: must be >= 1")
		}
		if rl.PriceCents < 0 {
			out = append(out, rf+".priceCents: must be >= 0")
		}
	}
	return out
}

func path(field, name string) string {
	if field == "" {
		return name
	}
	return field + "." + name
}
