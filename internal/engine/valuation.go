package engine

import "github.com/apexmarkets/fx-terminal/internal/model"

// Valuation is the derived account view. It is recomputed from the caches
// on every request and never stored, so it can't drift from its inputs.
type Valuation struct {
	Balance     float64 `json:"balance"`
	Credit      float64 `json:"credit"`
	FloatingPnl float64 `json:"floatingPnl"`
	Equity      float64 `json:"equity"`
	UsedMargin  float64 `json:"usedMargin"`
	FreeMargin  float64 `json:"freeMargin"`

	// Live reports whether the floating P/L came from live quotes rather
	// than the server summary.
	Live bool `json:"live"`

	// PositionPnl maps open trade id to its displayed P/L.
	PositionPnl map[string]float64 `json:"positionPnl,omitempty"`
}

// positionPnl computes one trade's floating P/L against the quote side the
// trade would be closed on: bid for BUY, ask for SELL. Without a valid
// quote the trade contributes its last computed value from the side table
// (zero if it has never been valued); with one, the side table is updated.
// The second return reports whether the value is live.
func positionPnl(t model.Trade, quotes map[string]model.Quote, lastPnl map[string]float64) (float64, bool) {
	q, ok := quotes[t.Symbol]
	if !ok || !q.Valid() {
		return lastPnl[t.ID], false
	}

	ref := q.Bid
	if t.Side == model.Sell {
		ref = q.Ask
		if ref <= 0 {
			ref = q.Bid
		}
	}

	var pnl float64
	switch t.Side {
	case model.Sell:
		pnl = (t.OpenPrice - ref) * t.Quantity * t.Contract()
	default:
		pnl = (ref - t.OpenPrice) * t.Quantity * t.Contract()
	}

	lastPnl[t.ID] = pnl
	return pnl, true
}

// Valuate combines open trades, the quote snapshot and the server summary
// into one consistent view. lastPnl is the fallback side table; Valuate is
// its only writer.
//
// The aggregate floating P/L uses the locally computed sum only when at
// least one open trade has a valid live quote; otherwise the whole
// aggregate falls back to the server summary so a quote gap never shows up
// as a bogus zero.
func Valuate(trades []model.Trade, quotes map[string]model.Quote, summary model.AccountSummary, lastPnl map[string]float64) Valuation {
	v := Valuation{
		Balance:     summary.Balance,
		Credit:      summary.Credit,
		PositionPnl: make(map[string]float64, len(trades)),
	}

	var liveSum float64
	for _, t := range trades {
		pnl, live := positionPnl(t, quotes, lastPnl)
		v.PositionPnl[t.ID] = pnl
		liveSum += pnl
		if live {
			v.Live = true
		}
		v.UsedMargin += t.MarginUsed
	}

	if v.Live {
		v.FloatingPnl = liveSum
	} else {
		v.FloatingPnl = summary.FloatingPnl
	}
	if v.UsedMargin == 0 {
		v.UsedMargin = summary.UsedMargin
	}

	v.Equity = v.Balance + v.Credit + v.FloatingPnl
	v.FreeMargin = v.Equity - v.UsedMargin
	return v
}
