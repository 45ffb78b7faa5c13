package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/pricing"
	"github.com/andreasstove999/costify/internal/quote"
)

// Response is the JSON envelope for --format json.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type OutputFormatter struct {
	Format string
	Writer io.Writer
}

type cartOutput struct {
	Items  []cart.LineItem    `json:"items"`
	Totals pricing.CartTotals `json:"totals"`
}

// Success writes data as a JSON envelope, or through text when the format is text.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

func (f *OutputFormatter) Cart(items []cart.LineItem, totals pricing.CartTotals) error {
	return f.Success(cartOutput{Items: items, Totals: totals}, func(w io.Writer) error {
		if len(items) == 0 {
			fmt.Fprintln(w, "Cart is empty.")
		} else if err := writeLines(w, items); err != nil {
			return err
		}
		writeTotals(w, totals)
		return nil
	})
}

func (f *OutputFormatter) Quote(q quote.Quote) error {
	return f.Success(q, func(w io.Writer) error {
		fmt.Fprintf(w, "Quote %s\n", q.Reference)
		fmt.Fprintf(w, "Date: %s\n", q.Date)
		if q.Client != nil {
			fmt.Fprintf(w, "Client: %s\n", q.Client.Name)
			if q.Client.Email != nil {
				fmt.Fprintf(w, "Email: %s\n", *q.Client.Email)
			}
			if q.Client.Phone != nil {
				fmt.Fprintf(w, "Phone: %s\n", *q.Client.Phone)
			}
		}
		fmt.Fprintln(w)
		if len(q.Items) > 0 {
			if err := writeLines(w, q.Items); err != nil {
				return err
			}
		}
		writeTotals(w, q.Totals)
		return nil
	})
}

func writeLines(w io.Writer, items []cart.LineItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tMARKUP\tLINE TOTAL")
	for _, it := range items {
		unit, err := pricing.ApplyMarkup(it.PriceCents, it.MarkupPercentage)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s%%\t%s\n",
			it.ID,
			it.Name,
			it.Quantity,
			pricing.FormatCurrency(unit),
			strconv.FormatFloat(it.MarkupPercentage, 'f', -1, 64),
			pricing.FormatCurrency(unit*pricing.Cents(it.Quantity)),
		)
	}
	return tw.Flush()
}

func writeTotals(w io.Writer, t pricing.CartTotals) {
	fmt.Fprintf(w, "Subtotal: %s\n", t.SubtotalFormatted)
	fmt.Fprintf(w, "Average markup: %d%%\n", t.AverageMarkup)
	fmt.Fprintf(w, "Total: %s\n", t.TotalFormatted)
}
