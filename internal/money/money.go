// Package money parses currency-formatted tender prices and rounds and
// formats monetary amounts.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberRe = regexp.MustCompile(`\d+(\.\d+)?`)

var priceStripper = strings.NewReplacer(
	"`", "",
	"₹", "",
	"INR", "",
	",", "",
)

// Clean extracts the numeric value from a currency string such as
// "₹ 1,25,000.50" or "INR 48000". It returns false when raw is blank or
// contains no number; callers drop such rows instead of treating them as 0.
func Clean(raw string) (float64, bool) {
	s := strings.TrimSpace(priceStripper.Replace(raw))
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}

	match := numberRe.FindString(s)
	if match == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(match)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return Round(v, 2)
}

// Ceil2 rounds v up to two decimal places.
func Ceil2(v float64) float64 {
	return decimal.NewFromFloat(v).RoundCeil(2).InexactFloat64()
}

// Formatter renders amounts with locale-aware digit grouping.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter returns a Formatter for the given BCP 47 locale. An unparseable
// locale falls back to en-IN.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("en-IN")
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  "₹",
	}
}

// Format renders v with two decimals and the rupee symbol.
func (f *Formatter) Format(v float64) string {
	return f.symbol + f.printer.Sprintf("%.2f", v)
}
