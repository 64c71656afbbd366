package leads

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Defaults for budget formatting.
const (
	DefaultLocale         = "en-US"
	DefaultCurrencySymbol = "$"
	NotAvailable          = "N/A"
)

// Formatter renders budgets with locale-aware grouping and a leading currency symbol.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a formatter for a BCP 47 locale tag.
func NewFormatter(locale, symbol string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}, nil
}

// DefaultFormatter formats en-US dollars.
func DefaultFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.AmericanEnglish), symbol: DefaultCurrencySymbol}
}

// Budget formats a budget, e.g. "$1,250,000" or "-$2,500". Invalid budgets
// render as N/A.
func (f *Formatter) Budget(b Budget) string {
	if !b.Valid {
		return NotAvailable
	}
	if b.Amount < 0 {
		return "-" + f.symbol + f.amount(-b.Amount)
	}
	return f.symbol + f.amount(b.Amount)
}

func (f *Formatter) amount(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}
