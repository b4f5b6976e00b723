package utils

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupee = accounting.Accounting{Symbol: "₹", Precision: 0}
var rupeePaise = accounting.Accounting{Symbol: "₹", Precision: 2}

// FormatRupee renders a price for display, whole rupees: ₹101.
func FormatRupee(d decimal.Decimal) string {
	if d.IsNegative() {
		d = decimal.Zero
	}
	return rupee.FormatMoneyDecimal(d)
}

// FormatRupeePaise renders a price with paise: ₹101.50.
func FormatRupeePaise(d decimal.Decimal) string {
	if d.IsNegative() {
		d = decimal.Zero
	}
	return rupeePaise.FormatMoneyDecimal(d)
}
