package services

import (
	"kusystem/internal/models"

	"github.com/shopspring/decimal"
)

// QuoteTotals 报价单金额汇总
type QuoteTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeQuoteTotals 计算报价单金额。
// subtotal = Σ 数量×单价；tax = Σ 数量×单价×税率；discount = Σ 行折扣；
// total = subtotal + tax - discount + Σ 附加费用。
// 各汇总在求和完成后按四位小数半进位取整一次，避免逐行舍入误差累积。
func ComputeQuoteTotals(items []models.QuoteItem, charges []models.QuoteAdditionalCharge) QuoteTotals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	discount := decimal.Zero

	for _, item := range items {
		line := item.Quantity.Mul(item.UnitPrice)
		subtotal = subtotal.Add(line)
		if item.TaxRate != nil {
			tax = tax.Add(line.Mul(*item.TaxRate))
		}
		if item.Discount != nil {
			discount = discount.Add(*item.Discount)
		}
	}

	chargeSum := decimal.Zero
	for _, charge := range charges {
		chargeSum = chargeSum.Add(charge.Amount)
	}

	subtotal = subtotal.Round(4)
	tax = tax.Round(4)
	discount = discount.Round(4)
	total := subtotal.Add(tax).Sub(discount).Add(chargeSum.Round(4))

	return QuoteTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}
