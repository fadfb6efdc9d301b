package services

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
	half    = decimal.RequireFromString("0.5")
)

// PricedLine is the pricing input of one cart line.
type PricedLine struct {
	UnitPrice      decimal.Decimal
	ModifierDeltas []decimal.Decimal
	Quantity       int
	TaxSlab        int
}

// Totals is the derived money state of a cart.
type Totals struct {
	LineTotals    []decimal.Decimal
	Subtotal      decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	ServiceCharge decimal.Decimal
	Discount      decimal.Decimal
	RoundOff      decimal.Decimal
	Total         decimal.Decimal
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal is (unit price + modifier deltas) * quantity.
func LineTotal(l PricedLine) decimal.Decimal {
	unit := l.UnitPrice
	for _, d := range l.ModifierDeltas {
		unit = unit.Add(d)
	}
	return round2(unit.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// ComputeTotals derives every cart total from its lines. The tax slab of each
// line is split into two equal halves (CGST and SGST), each rounded per line
// before it is accumulated.
func ComputeTotals(lines []PricedLine, serviceCharge, discount decimal.Decimal) Totals {
	t := Totals{
		LineTotals:    make([]decimal.Decimal, len(lines)),
		ServiceCharge: round2(serviceCharge),
		Discount:      round2(discount),
	}

	for i, l := range lines {
		lt := LineTotal(l)
		t.LineTotals[i] = lt
		t.Subtotal = t.Subtotal.Add(lt)

		halfRate := decimal.NewFromInt(int64(l.TaxSlab)).Div(hundred).Div(two)
		halfTax := round2(lt.Mul(halfRate))
		t.CGST = round2(t.CGST.Add(halfTax))
		t.SGST = round2(t.SGST.Add(halfTax))
	}

	pre := t.Subtotal.Add(t.CGST).Add(t.SGST).Add(t.ServiceCharge).Sub(t.Discount)
	t.RoundOff = RoundOff(pre)
	t.Total = pre.Add(t.RoundOff)
	return t
}

// RoundOff returns the adjustment that lifts amount to the next whole rupee
// when its fractional part is at least 0.50, otherwise zero.
func RoundOff(amount decimal.Decimal) decimal.Decimal {
	frac := amount.Sub(amount.Floor())
	if frac.GreaterThanOrEqual(half) {
		return amount.Ceil().Sub(amount)
	}
	return decimal.Zero
}
