package pricing

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Cents is a monetary amount in minor currency units. Amounts are never fractional.
type Cents int64

const CentsPerUnit = 100

// Currency is the single currency every amount in the system is expressed in.
var Currency = currency.EUR

var printer = message.NewPrinter(language.AmericanEnglish)

// currencySymbol is the en-US symbol of Currency, "€".
var currencySymbol = printer.Sprint(currency.Symbol(Currency))

// String formats the amount like FormatCurrency.
func (c Cents) String() string { return FormatCurrency(c) }

// FormatCurrency renders cents as a euro amount with en-US grouping and two decimals,
// e.g. 123456 -> "€1,234.56".
func FormatCurrency(c Cents) string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	major := v / CentsPerUnit
	minor := v % CentsPerUnit
	return sign + currencySymbol + printer.Sprintf("%d", major) + fmt.Sprintf(".%02d", minor)
}
