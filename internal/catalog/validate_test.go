package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/costify/internal/cart"
)

func problemsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Problems
}

func TestValidateNewIngredient(t *testing.T) {
	require.NoError(t, ValidateNewIngredient(NewIngredient{Name: "Tomato", PriceCents: 0}))

	got := problemsOf(t, ValidateNewIngredient(NewIngredient{Name: " ", PriceCents: -1}))
	assert.Equal(t, []string{"name: required", "priceCents: must be >= 0"}, got)
}

func TestValidatePriceUpdate(t *testing.T) {
	require.NoError(t, ValidatePriceUpdate(tomatoID, 10))
	assert.Equal(t, []string{"id: must be a uuid"}, problemsOf(t, ValidatePriceUpdate("tomato", 10)))
}

func TestValidateNewRecipe(t *testing.T) {
	cat := startersID
	require.NoError(t, ValidateNewRecipe(NewRecipe{
		Name:        "Salad",
		CategoryID:  &cat,
		Ingredients: []RecipeIngredient{{IngredientID: tomatoID, Qty: 0.25}},
	}))

	bad := "starters"
	got := problemsOf(t, ValidateNewRecipe(NewRecipe{
		Name:       "Salad",
		CategoryID: &bad,
		Ingredients: []RecipeIngredient{
			{IngredientID: "tomato", Qty: 1},
			{IngredientID: tomatoID, Qty: 0},
			{IngredientID: tomatoID, Qty: math.NaN()},
		},
	}))
	assert.Equal(t, []string{
		"categoryId: must be a uuid",
		"ingredients[0].ingredientId: must be a uuid",
		"ingredients[1].qty: must be positive",
		"ingredients[2].qty: must be positive",
	}, got)
}

func TestValidateNewPacket(t *testing.T) {
	require.NoError(t, ValidateNewPacket(NewPacket{Name: "Buffet"}))

	got := problemsOf(t, ValidateNewPacket(NewPacket{
		Recipes: []PacketRecipe{{RecipeID: saladID, Qty: 0}},
	}))
	assert.Equal(t, []string{"name: required", "recipes[0].qty: must be a positive integer"}, got)
}

func TestValidateCategoryName(t *testing.T) {
	require.NoError(t, ValidateCategoryName("Starters"))
	require.Error(t, ValidateCategoryName(""))
}

func TestPacketLineItem(t *testing.T) {
	desc := "For 20 guests"
	p := PacketDetail{
		Packet: Packet{ID: buffetID, Name: "Buffet", Description: &desc, TotalCents: 2700},
		Recipes: []PacketRecipeLine{
			{RecipeID: saladID, Name: "Salad", Qty: 20, CostCents: 135},
		},
	}

	got := PacketLineItem(p, 3)

	assert.Equal(t, buffetID, got.ID)
	assert.Equal(t, cart.ItemTypePacket, got.Type)
	assert.EqualValues(t, 2700, got.PriceCents)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, []cart.RecipeLine{{ID: saladID, Name: "Salad", Quantity: 20, PriceCents: 135}}, got.Recipes)

	desc = "changed"
	assert.Equal(t, "For 20 guests", *got.Description)
}
