package instruments

import (
	"strings"

	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/shopspring/decimal"
)

// FormatPrice renders a price with instrument-appropriate precision:
// two decimals above 100 (JPY pairs, metals, crypto), five otherwise.
func FormatPrice(v float64) string {
	if v <= 0 {
		return "..."
	}
	d := decimal.NewFromFloat(v)
	if v > 100 {
		return d.StringFixed(2)
	}
	return d.StringFixed(5)
}

// FormatSpread renders the spread in display pips. JPY pairs use a pip of
// 0.01, high-priced instruments show the raw spread, everything else uses
// the standard 0.0001 pip.
func FormatSpread(i model.Instrument) string {
	if i.Spread <= 0 {
		return "-"
	}
	spread := decimal.NewFromFloat(i.Spread)
	switch {
	case strings.Contains(i.Symbol, "JPY"):
		return spread.Mul(decimal.NewFromInt(100)).StringFixed(1)
	case i.Bid > 100:
		return spread.StringFixed(2)
	default:
		return spread.Mul(decimal.NewFromInt(10000)).StringFixed(1)
	}
}
