package calc

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ceilDiv returns ceil(n/d) for positive ints.
func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// FormatMoney renders d as "R$ 1.234,56". The digits come from the decimal,
// so the text always matches the stored amount.
func FormatMoney(d decimal.Decimal) string {
	return newPrinter().money(d)
}

// printer formats numbers for trace text. message.Printer is not safe for
// concurrent use, so every trace gets its own.
type printer struct {
	p *message.Printer
}

func newPrinter() printer {
	return printer{p: message.NewPrinter(language.BrazilianPortuguese)}
}

// money renders a monetary value as "R$ 1.234,56".
func (p printer) money(d decimal.Decimal) string {
	return "R$ " + p.fixed(d, 2)
}

// num renders a quantity with as many decimals as it carries.
func (p printer) num(d decimal.Decimal) string {
	places := -d.Exponent()
	if places < 0 {
		places = 0
	}
	return p.fixed(d, places)
}

func (p printer) count(n int) string {
	return p.p.Sprintf("%d", n)
}

// fixed renders d with the given decimal places, "." between thousands and
// "," before the fraction.
func (p printer) fixed(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	whole, frac, _ := strings.Cut(s, ".")

	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = p.p.Sprintf("%d", n)
	} else {
		whole = groupThousands(whole)
	}
	if frac == "" {
		return sign + whole
	}
	return sign + whole + "," + frac
}

func groupThousands(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
