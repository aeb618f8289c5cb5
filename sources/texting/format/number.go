package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func Numberify(tag language.Tag, value int64) string {
	return message.NewPrinter(tag).Sprintf("%d", value)
}

func Decimalify(tag language.Tag, value decimal.Decimal) string {
	return message.NewPrinter(tag).Sprintf("%.2f", value.InexactFloat64())
}
