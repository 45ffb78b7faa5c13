package cart

import "github.com/andreasstove999/costify/internal/pricing"

const ItemTypePacket = "packet"

// RecipeLine is informational breakdown of a packet; it never feeds the totals.
type RecipeLine struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Quantity   int           `json:"quantity"`
	PriceCents pricing.Cents `json:"priceCents"`
}

type LineItem struct {
	ID               string        `json:"id"`
	Type             string        `json:"type"`
	Name             string        `json:"name"`
	Description      *string       `json:"description,omitempty"`
	PriceCents       pricing.Cents `json:"priceCents"`
	Quantity         int           `json:"quantity"`
	MarkupPercentage float64       `json:"markupPercentage"`
	Recipes          []RecipeLine  `json:"recipes,omitempty"`
	Custom           bool          `json:"custom,omitempty"`
}

// Patch holds the fields of an update; nil fields are left untouched.
type Patch struct {
	Name             *string        `json:"name,omitempty"`
	Description      *string        `json:"description,omitempty"`
	PriceCents       *pricing.Cents `json:"priceCents,omitempty"`
	Quantity         *int           `json:"quantity,omitempty"`
	MarkupPercentage *float64       `json:"markupPercentage,omitempty"`
	Recipes          *[]RecipeLine  `json:"recipes,omitempty"`
	Custom           *bool          `json:"custom,omitempty"`
}

func (p Patch) apply(it *LineItem) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		d := *p.Description
		it.Description = &d
	}
	if p.PriceCents != nil {
		it.PriceCents = *p.PriceCents
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.MarkupPercentage != nil {
		it.MarkupPercentage = *p.MarkupPercentage
	}
	if p.Recipes != nil {
		it.Recipes = append([]RecipeLine(nil), (*p.Recipes)...)
	}
	if p.Custom != nil {
		it.Custom = *p.Custom
	}
}

// PricingItems maps line items to the triples the pricing engine works on.
func PricingItems(items []LineItem) []pricing.Item {
	out := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.Item{
			PriceCents:       it.PriceCents,
			MarkupPercentage: it.MarkupPercentage,
			Quantity:         it.Quantity,
		})
	}
	return out
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

func cloneItem(it LineItem) LineItem {
	if it.Description != nil {
		d := *it.Description
		it.Description = &d
	}
	if it.Recipes != nil {
		it.Recipes = append([]RecipeLine(nil), it.Recipes...)
	}
	return it
}
