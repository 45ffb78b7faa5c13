package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog input: " + strings.Join(e.Problems, "; ")
}

type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}

func checkName(p *problems, name string) {
	if strings.TrimSpace(name) == "" {
		p.add("name: required")
	}
}

func checkUUID(p *problems, field, id string) {
	if _, err := uuid.Parse(id); err != nil {
		p.add("%s: must be a uuid", field)
	}
}

func ValidateCategoryName(name string) error {
	var p problems
	checkName(&p, name)
	return p.err()
}

func ValidateNewIngredient(in NewIngredient) error {
	var p problems
	checkName(&p, in.Name)
	if in.PriceCents < 0 {
		p.add("priceCents: must be >= 0")
	}
	return p.err()
}

func ValidatePriceUpdate(id string, priceCents int64) error {
	var p problems
	checkUUID(&p, "id", id)
	if priceCents < 0 {
		p.add("priceCents: must be >= 0")
	}
	return p.err()
}

func ValidateNewRecipe(in NewRecipe) error {
	var p problems
	checkName(&p, in.Name)
	if in.CategoryID != nil {
		checkUUID(&p, "categoryId", *in.CategoryID)
	}
	for i, ing := range in.Ingredients {
		checkUUID(&p, fmt.Sprintf("ingredients[%d].ingredientId", i), ing.IngredientID)
		if !(ing.Qty > 0) || math.IsInf(ing.Qty, 1) {
			p.add("ingredients[%d].qty: must be positive", i)
		}
	}
	return p.err()
}

func ValidateNewPacket(in NewPacket) error {
	var p problems
	checkName(&p, in.Name)
	for i, r := range in.Recipes {
		checkUUID(&p, fmt.Sprintf("recipes[%d].recipeId", i), r.RecipeID)
		if r.Qty <= 0 {
			p.add("recipes[%d].qty: must be a positive integer", i)
		}
	}
	return p.err()
}
