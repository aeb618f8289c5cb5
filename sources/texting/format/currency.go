package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func Currencify(tag language.Tag, value decimal.Decimal) string {
	return "$" + Decimalify(tag, value)
}
