package quote

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/andreasstove999/costify/internal/pricing"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Packet", 78, "L"},
	{"Qty", 16, "R"},
	{"Unit price", 30, "R"},
	{"Markup", 22, "R"},
	{"Line total", 34, "R"},
}

// RenderPDF lays the quote out on a single A4 document.
func RenderPDF(q Quote) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(q.Reference, true)
	pdf.SetCreator("costify", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "Quote "+q.Reference, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Date: "+q.Date, "", 1, "L", false, 0, "")

	if c := q.Client; c != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 6, tr(c.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		if c.Email != nil {
			pdf.CellFormat(0, 5, tr(*c.Email), "", 1, "L", false, 0, "")
		}
		if c.Phone != nil {
			pdf.CellFormat(0, 5, tr(*c.Phone), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, it := range q.Items {
		unit, err := pricing.ApplyMarkup(it.PriceCents, it.MarkupPercentage)
		if err != nil {
			return nil, fmt.Errorf("render line %s: %w", it.ID, err)
		}
		line := unit * pricing.Cents(it.Quantity)
		cells := []string{
			tr(it.Name),
			strconv.Itoa(it.Quantity),
			tr(pricing.FormatCurrency(unit)),
			strconv.FormatFloat(it.MarkupPercentage, 'f', -1, 64) + "%",
			tr(pricing.FormatCurrency(line)),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	summary := []struct{ label, value string }{
		{"Subtotal", q.Totals.SubtotalFormatted},
		{"Average markup", strconv.Itoa(q.Totals.AverageMarkup) + "%"},
		{"Total", q.Totals.TotalFormatted},
	}
	for i, row := range summary {
		if i == len(summary)-1 {
			pdf.SetFont("Arial", "B", 11)
		}
		pdf.CellFormat(146, 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(34, 7, tr(row.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}
