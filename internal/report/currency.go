package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats amounts for one ISO currency code.
type Currency struct {
	Code    string
	symbol  string
	prefix  bool
	printer *message.Printer
}

// Symbols x/text renders in a form nobody writes on a cashflow sheet.
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
}

// Home locale per currency, used for grouping and decimal separators.
var localeForCurrency = map[string]language.Tag{
	"EUR": language.German,
	"USD": language.AmericanEnglish,
	"GBP": language.BritishEnglish,
	"CHF": language.German,
	"SEK": language.Swedish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"JPY": language.Japanese,
}

// x/text does not expose CLDR symbol placement, so prefix currencies are listed.
var prefixCurrencies = map[string]bool{
	"USD": true, "GBP": true, "JPY": true, "CAD": true, "AUD": true,
}

// NewCurrency returns a formatter for code. Unknown codes are formatted with
// English separators and the code itself as the symbol.
func NewCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))

	tag, ok := localeForCurrency[code]
	if !ok {
		tag = language.English
	}
	c := Currency{
		Code:    code,
		prefix:  prefixCurrencies[code],
		printer: message.NewPrinter(tag),
	}

	unit, err := currency.ParseISO(code)
	switch {
	case err != nil:
		c.symbol = code
	case symbolOverrides[code] != "":
		c.symbol = symbolOverrides[code]
	default:
		c.symbol = c.printer.Sprint(currency.NarrowSymbol(unit))
	}
	return c
}

// Format renders a whole-unit amount with the currency symbol, e.g. "$1,234"
// or "1.234 €". Negative amounts carry a leading minus.
func (c Currency) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	formatted := c.printer.Sprint(number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(0)))
	if c.prefix {
		return sign + c.symbol + formatted
	}
	return sign + formatted + " " + c.symbol
}
