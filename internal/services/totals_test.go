package services

import (
	"testing"

	"kusystem/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeQuoteTotals(t *testing.T) {
	items := []models.QuoteItem{
		{Quantity: dec("2"), UnitPrice: dec("50.25"), TaxRate: decPtr("0.1")},
	}
	charges := []models.QuoteAdditionalCharge{
		{Type: "envío", Amount: dec("5")},
	}

	totals := ComputeQuoteTotals(items, charges)

	assert.True(t, totals.Subtotal.Equal(dec("100.5")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(dec("10.05")), "tax = %s", totals.Tax)
	assert.True(t, totals.Discount.Equal(dec("0")), "discount = %s", totals.Discount)
	assert.True(t, totals.Total.Equal(dec("115.55")), "total = %s", totals.Total)
}

func TestComputeQuoteTotalsEmpty(t *testing.T) {
	totals := ComputeQuoteTotals(nil, nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeQuoteTotalsNilRates(t *testing.T) {
	// 无税率和折扣的条目只参与小计
	items := []models.QuoteItem{
		{Quantity: dec("3"), UnitPrice: dec("10")},
		{Quantity: dec("1"), UnitPrice: dec("20"), Discount: decPtr("5")},
	}

	totals := ComputeQuoteTotals(items, nil)

	assert.True(t, totals.Subtotal.Equal(dec("50")))
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Discount.Equal(dec("5")))
	assert.True(t, totals.Total.Equal(dec("45")))
}

func TestComputeQuoteTotalsOrderIndependent(t *testing.T) {
	items := []models.QuoteItem{
		{Quantity: dec("1.5"), UnitPrice: dec("33.33"), TaxRate: decPtr("0.1")},
		{Quantity: dec("2"), UnitPrice: dec("0.07"), TaxRate: decPtr("0.05")},
		{Quantity: dec("7"), UnitPrice: dec("99.99"), Discount: decPtr("12.5")},
	}
	reversed := []models.QuoteItem{items[2], items[1], items[0]}

	a := ComputeQuoteTotals(items, nil)
	b := ComputeQuoteTotals(reversed, nil)

	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.Tax.Equal(b.Tax))
	assert.True(t, a.Discount.Equal(b.Discount))
	assert.True(t, a.Total.Equal(b.Total))
}

func TestComputeQuoteTotalsRounding(t *testing.T) {
	// 汇总后取整一次，而不是逐行取整
	items := []models.QuoteItem{
		{Quantity: dec("1"), UnitPrice: dec("0.00005")},
		{Quantity: dec("1"), UnitPrice: dec("0.00005")},
	}

	totals := ComputeQuoteTotals(items, nil)

	assert.True(t, totals.Subtotal.Equal(dec("0.0001")), "subtotal = %s", totals.Subtotal)
}
