package services

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name                               string
		lines                              []PricedLine
		subtotal, cgst, roundOff, total string
	}{
		{
			name:     "two paneer tikka at five percent",
			lines:    []PricedLine{{UnitPrice: money("220"), Quantity: 2, TaxSlab: 5}},
			subtotal: "440.00", cgst: "11.00", roundOff: "0.00", total: "462.00",
		},
		{
			name:     "fraction at or above half rounds up",
			lines:    []PricedLine{{UnitPrice: money("99.99"), Quantity: 1, TaxSlab: 5}},
			subtotal: "99.99", cgst: "2.50", roundOff: "0.01", total: "105.00",
		},
		{
			name:     "fraction below half is kept",
			lines:    []PricedLine{{UnitPrice: money("101"), Quantity: 1, TaxSlab: 5}},
			subtotal: "101.00", cgst: "2.53", roundOff: "0.00", total: "106.06",
		},
		{
			name: "mixed slabs and modifiers",
			lines: []PricedLine{
				{UnitPrice: money("80"), Quantity: 1, TaxSlab: 12},
				{UnitPrice: money("60"), ModifierDeltas: []decimal.Decimal{money("15")}, Quantity: 2, TaxSlab: 5},
			},
			subtotal: "230.00", cgst: "8.55", roundOff: "0.00", total: "247.10",
		},
		{
			name:     "zero rated",
			lines:    []PricedLine{{UnitPrice: money("45.50"), Quantity: 3, TaxSlab: 0}},
			subtotal: "136.50", cgst: "0.00", roundOff: "0.50", total: "137.00",
		},
		{
			name:     "empty cart",
			subtotal: "0.00", cgst: "0.00", roundOff: "0.00", total: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, decimal.Zero, decimal.Zero)
			assert.Equal(t, tt.subtotal, got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.cgst, got.CGST.StringFixed(2))
			assert.Equal(t, tt.cgst, got.SGST.StringFixed(2))
			assert.Equal(t, tt.roundOff, got.RoundOff.StringFixed(2))
			assert.Equal(t, tt.total, got.Total.StringFixed(2))
		})
	}
}

func TestComputeTotalsServiceChargeAndDiscount(t *testing.T) {
	lines := []PricedLine{{UnitPrice: money("220"), Quantity: 2, TaxSlab: 5}}
	got := ComputeTotals(lines, money("20"), money("10.25"))

	// 440 + 11 + 11 + 20 - 10.25 = 471.75
	assert.Equal(t, "0.25", got.RoundOff.StringFixed(2))
	assert.Equal(t, "472.00", got.Total.StringFixed(2))
}

func TestComputeTotalsAddsUp(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	slabs := []int{0, 5, 12, 18}

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(6)
		lines := make([]PricedLine, n)
		for j := range lines {
			lines[j] = PricedLine{
				UnitPrice: decimal.New(int64(100+rng.Intn(60000)), -2),
				Quantity:  1 + rng.Intn(5),
				TaxSlab:   slabs[rng.Intn(len(slabs))],
			}
			if rng.Intn(2) == 0 {
				lines[j].ModifierDeltas = []decimal.Decimal{decimal.New(int64(rng.Intn(5000)), -2)}
			}
		}

		got := ComputeTotals(lines, decimal.Zero, decimal.Zero)
		sum := got.Subtotal.Add(got.CGST).Add(got.SGST).Add(got.RoundOff)
		assert.True(t, got.Total.Equal(sum), "total %s != %s", got.Total, sum)
		assert.True(t, got.CGST.Equal(got.SGST))
		assert.True(t, got.Total.Equal(got.Total.Round(2)))
		assert.True(t, got.RoundOff.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, got.RoundOff.LessThan(money("0.51")))

		// Order of lines never changes the result.
		shuffled := append([]PricedLine(nil), lines...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		again := ComputeTotals(shuffled, decimal.Zero, decimal.Zero)
		assert.True(t, got.Total.Equal(again.Total))
		assert.True(t, got.CGST.Equal(again.CGST))
	}
}

func TestRoundOff(t *testing.T) {
	assert.Equal(t, "0.00", RoundOff(money("10.49")).StringFixed(2))
	assert.Equal(t, "0.50", RoundOff(money("10.50")).StringFixed(2))
	assert.Equal(t, "0.00", RoundOff(money("10.00")).StringFixed(2))
	assert.Equal(t, "0.01", RoundOff(money("10.99")).StringFixed(2))
}
