package quote

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/andreasstove999/costify/internal/cart"
)

type Client struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// Request is the body accepted by the quote boundary.
type Request struct {
	Items  []cart.LineItem `json:"items"`
	Client *Client         `json:"client,omitempty"`
}

// ValidationError lists every problem found in a Request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid quote request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Validate checks r and returns a *ValidationError when anything is wrong.
func Validate(r Request) error {
	verr := &ValidationError{}

	if r.Items == nil {
		verr.add("items: required")
	}

	for i, it := range r.Items {
		verr.Problems = append(verr.Problems, cart.ItemProblems(fmt.Sprintf("items[%d]", i), it)...)
	}

	if c := r.Client; c != nil {
		if strings.TrimSpace(c.Name) == "" {
			verr.add("client.name: required")
		}
		if c.Email != nil {
			if _, err := mail.ParseAddress(*c.Email); err != nil {
				verr.add("client.email: invalid address")
			}
		}
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}
