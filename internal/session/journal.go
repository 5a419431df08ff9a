package session

import (
	"fmt"
	"time"

	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/oklog/ulid/v2"
)

// JournalEntry is one locally recorded close. The server's history endpoint
// remains authoritative; the journal survives across sessions for audit.
type JournalEntry struct {
	ID          string    `db:"id"`
	TradeID     string    `db:"trade_id"`
	Symbol      string    `db:"symbol"`
	Side        string    `db:"side"`
	Quantity    float64   `db:"quantity"`
	OpenPrice   float64   `db:"open_price"`
	ClosePrice  float64   `db:"close_price"`
	RealizedPnl float64   `db:"realized_pnl"`
	ClosedAt    time.Time `db:"closed_at"`
}

const _insertClosedTrade = `INSERT INTO closed_trades (
	id, trade_id, symbol, side, quantity, open_price, close_price, realized_pnl, closed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

// RecordClose journals a trade closed from this terminal. ULID row ids keep
// entries time-sortable.
func (s *Store) RecordClose(t model.Trade, realizedPnl float64) error {
	if _, err := s.db.Exec(_insertClosedTrade,
		ulid.Make().String(),
		t.ID,
		t.Symbol,
		string(t.Side),
		t.Quantity,
		t.OpenPrice,
		t.ClosePrice,
		realizedPnl,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("%w: can't insert closed trade", err)
	}
	return nil
}

const _queryClosedTrades = `SELECT id, trade_id, symbol, side, quantity, open_price, close_price, realized_pnl, closed_at
	FROM closed_trades ORDER BY id DESC LIMIT $1`

// ClosedTrades returns the most recent journal entries, newest first.
func (s *Store) ClosedTrades(limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries := make([]JournalEntry, 0, limit)
	if err := s.db.Select(&entries, _queryClosedTrades, limit); err != nil {
		return nil, fmt.Errorf("%w: can't query closed trades", err)
	}
	return entries, nil
}
