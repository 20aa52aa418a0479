package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usEnglish = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a price as a grouped, two-decimal US dollar
// amount, e.g. "$1,299.50"
func FormatPrice(p decimal.Decimal) string {
	f, _ := p.Float64()
	return usEnglish.Sprintf("$%v", number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
