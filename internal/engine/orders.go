package engine

import (
	"context"
	"fmt"

	"github.com/apexmarkets/fx-terminal/internal/api"
	"github.com/apexmarkets/fx-terminal/internal/model"
)

// OrderTicket is a user's open request before pricing: the engine fills in
// the account and the live price at submission time.
type OrderTicket struct {
	Symbol     string
	Side       model.Side
	Quantity   float64
	StopLoss   *float64
	TakeProfit *float64
}

// OpenTrade submits one open request priced at the live ask for BUY / bid
// for SELL. A failure is returned to the caller and leaves every cache
// untouched; on success the scoped caches are refreshed.
func (e *Engine) OpenTrade(ctx context.Context, ticket OrderTicket) error {
	e.mu.RLock()
	sel := e.selected
	e.mu.RUnlock()
	if sel == nil {
		return NoAccountError
	}
	if ticket.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	q, ok := e.prices.Get(ticket.Symbol)
	if !ok || !q.Valid() {
		return fmt.Errorf("%w: %s", NoQuoteError, ticket.Symbol)
	}
	price := q.Ask
	if ticket.Side == model.Sell {
		price = q.Bid
	}

	err := e.api.OpenTrade(ctx, api.OpenTradeRequest{
		TradingAccountID: sel.ID,
		Symbol:           ticket.Symbol,
		Side:             string(ticket.Side),
		Quantity:         ticket.Quantity,
		OpenPrice:        price,
		StopLoss:         ticket.StopLoss,
		TakeProfit:       ticket.TakeProfit,
	})
	if err != nil {
		return fmt.Errorf("%w: can't open trade", err)
	}

	e.logger.Infof("opened %s %s qty=%v at %v", ticket.Side, ticket.Symbol, ticket.Quantity, price)
	e.refreshAfterAction(ctx, sel.ID)
	return nil
}

// CloseTrade closes one open position at the live bid for BUY / ask for
// SELL and returns the server-reported realized P/L. On success the closed
// id is dropped from the open cache immediately; on failure it is retained.
func (e *Engine) CloseTrade(ctx context.Context, tradeID string) (float64, error) {
	e.mu.RLock()
	sel := e.selected
	var trade model.Trade
	found := false
	for _, t := range e.openTrades {
		if t.ID == tradeID {
			trade = t
			found = true
			break
		}
	}
	e.mu.RUnlock()

	if sel == nil {
		return 0, NoAccountError
	}
	if !found {
		return 0, fmt.Errorf("%w: %s", UnknownTradeError, tradeID)
	}

	var closePrice float64
	if q, ok := e.prices.Get(trade.Symbol); ok && q.Valid() {
		closePrice = q.Bid
		if trade.Side == model.Sell {
			closePrice = q.Ask
		}
	}

	realized, err := e.api.CloseTrade(ctx, tradeID, closePrice)
	if err != nil {
		return 0, fmt.Errorf("%w: can't close trade", err)
	}

	e.commit(sel.ID, func() {
		trades := make([]model.Trade, 0, len(e.openTrades))
		for _, t := range e.openTrades {
			if t.ID != tradeID {
				trades = append(trades, t)
			}
		}
		e.openTrades = trades
		delete(e.lastPnl, tradeID)
	})

	trade.ClosePrice = closePrice
	if e.jrnl != nil {
		if err := e.jrnl.RecordClose(trade, realized); err != nil {
			e.logger.Warnf("%s: can't journal closed trade %s", err, tradeID)
		}
	}

	e.logger.Infof("closed trade %s realized=%v", tradeID, realized)
	e.refreshAfterAction(ctx, sel.ID)
	return realized, nil
}

// refreshAfterAction re-syncs every scoped cache once an order or close has
// completed, the explicit-trigger path for pending orders and history.
func (e *Engine) refreshAfterAction(ctx context.Context, accountID string) {
	e.refreshOpenTrades(ctx, accountID)
	e.refreshPendingOrders(ctx, accountID)
	e.refreshHistory(ctx, accountID)
	e.refreshSummary(ctx, accountID)
}
