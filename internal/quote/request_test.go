package quote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/costify/internal/cart"
)

const (
	packetID = "0b6f1d0c-7a3e-4f2b-9d51-6a0c1e2f3a4b"
	recipeID = "7d1c2b3a-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

func strptr(s string) *string { return &s }

func validItem() cart.LineItem {
	return cart.LineItem{
		ID:               packetID,
		Type:             cart.ItemTypePacket,
		Name:             "Wedding buffet",
		PriceCents:       1000,
		Quantity:         2,
		MarkupPercentage: 25,
		Recipes: []cart.RecipeLine{
			{ID: recipeID, Name: "Salad", Quantity: 1, PriceCents: 400},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	req := Request{
		Items:  []cart.LineItem{validItem()},
		Client: &Client{Name: "Acme", Email: strptr("events@acme.test"), Phone: strptr("+45 1234")},
	}
	require.NoError(t, Validate(req))
}

func TestValidate_EmptyItemsAllowed(t *testing.T) {
	require.NoError(t, Validate(Request{Items: []cart.LineItem{}}))
}

func TestValidate_Problems(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Request)
		want   string
	}{
		"missing items": {
			mutate: func(r *Request) { r.Items = nil },
			want:   "items: required",
		},
		"non uuid id": {
			mutate: func(r *Request) { r.Items[0].ID = "p1" },
			want:   "items[0].id: must be a uuid",
		},
		"wrong type": {
			mutate: func(r *Request) { r.Items[0].Type = "recipe" },
			want:   `items[0].type: must be "packet"`,
		},
		"negative price": {
			mutate: func(r *Request) { r.Items[0].PriceCents = -1 },
			want:   "items[0].priceCents: must be >= 0",
		},
		"zero quantity": {
			mutate: func(r *Request) { r.Items[0].Quantity = 0 },
			want:   "items[0].quantity: must be >= 1",
		},
		"negative markup": {
			mutate: func(r *Request) { r.Items[0].MarkupPercentage = -5 },
			want:   "items[0].markupPercentage: must be >= 0",
		},
		"recipe id": {
			mutate: func(r *Request) { r.Items[0].Recipes[0].ID = "salad" },
			want:   "items[0].recipes[0].id: must be a uuid",
		},
		"recipe quantity": {
			mutate: func(r *Request) { r.Items[0].Recipes[0].Quantity = 0 },
			want:   "items[0].recipes[0].quantity: must be >= 1",
		},
		"recipe price": {
			mutate: func(r *Request) { r.Items[0].Recipes[0].PriceCents = -10 },
			want:   "items[0].recipes[0].priceCents: must be >= 0",
		},
		"client without name": {
			mutate: func(r *Request) { r.Client = &Client{Name: "  "} },
			want:   "client.name: required",
		},
		"client bad email": {
			mutate: func(r *Request) { r.Client = &Client{Name: "Acme", Email: strptr("not-an-email")} },
			want:   "client.email: invalid address",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := Request{Items: []cart.LineItem{validItem()}}
			tc.mutate(&req)

			err := Validate(req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Contains(t, verr.Problems, tc.want)
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	bad := validItem()
	bad.ID = "x"
	bad.Quantity = 0
	bad.MarkupPercentage = -1

	err := Validate(Request{Items: []cart.LineItem{validItem(), bad}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
	assert.Contains(t, err.Error(), "items[1].id")
}
