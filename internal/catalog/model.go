package catalog

import (
	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/pricing"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Ingredient struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	PriceCents pricing.Cents `json:"priceCents"`
}

// Recipe carries its cost as computed by the recipe_cost_cents view.
type Recipe struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CategoryID   *string       `json:"categoryId,omitempty"`
	CategoryName *string       `json:"categoryName,omitempty"`
	TotalCents   pricing.Cents `json:"totalCents"`
}

type RecipeIngredientLine struct {
	IngredientID string        `json:"ingredientId"`
	Name         string        `json:"name"`
	Qty          float64       `json:"qty"`
	PriceCents   pricing.Cents `json:"priceCents"`
}

type RecipeDetail struct {
	Recipe
	Ingredients []RecipeIngredientLine `json:"ingredients"`
}

// Packet carries its cost as computed by the packet_cost_cents view.
type Packet struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	TotalCents  pricing.Cents `json:"totalCents"`
}

type PacketRecipeLine struct {
	RecipeID  string        `json:"recipeId"`
	Name      string        `json:"name"`
	Qty       int           `json:"qty"`
	CostCents pricing.Cents `json:"costCents"`
}

type PacketDetail struct {
	Packet
	Recipes []PacketRecipeLine `json:"recipes"`
}

type NewIngredient struct {
	Name       string        `json:"name"`
	PriceCents pricing.Cents `json:"priceCents"`
}

type RecipeIngredient struct {
	IngredientID string  `json:"ingredientId"`
	Qty          float64 `json:"qty"`
}

type NewRecipe struct {
	Name        string             `json:"name"`
	CategoryID  *string            `json:"categoryId,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
}

type PacketRecipe struct {
	RecipeID string `json:"recipeId"`
	Qty      int    `json:"qty"`
}

type NewPacket struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Recipes     []PacketRecipe `json:"recipes,omitempty"`
}

// PacketLineItem turns a packet into a cart line. The recipe breakdown is copied for display only.
func PacketLineItem(p PacketDetail, quantity int) cart.LineItem {
	item := cart.LineItem{
		ID:         p.ID,
		Type:       cart.ItemTypePacket,
		Name:       p.Name,
		PriceCents: p.TotalCents,
		Quantity:   quantity,
		Recipes:    make([]cart.RecipeLine, 0, len(p.Recipes)),
	}
	if p.Description != nil {
		d := *p.Description
		item.Description = &d
	}
	for _, r := range p.Recipes {
		item.Recipes = append(item.Recipes, cart.RecipeLine{
			ID:         r.RecipeID,
			Name:       r.Name,
			Quantity:   r.Qty,
			PriceCents: r.CostCents,
		})
	}
	return item
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
