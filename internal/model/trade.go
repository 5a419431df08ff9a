package model

import "time"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

const DefaultContractSize = 100000

// Trade is a position as reported by the server. Open positions carry no
// close fields; history records do. The struct is server-derived and is
// never mutated locally (last computed P/L lives in the engine's side table).
type Trade struct {
	ID           string   `json:"_id"`
	Symbol       string   `json:"symbol"`
	Side         Side     `json:"side"`
	Quantity     float64  `json:"quantity"`
	OpenPrice    float64  `json:"openPrice"`
	ContractSize float64  `json:"contractSize,omitempty"`
	StopLoss     *float64 `json:"stopLoss,omitempty"`
	TakeProfit   *float64 `json:"takeProfit,omitempty"`
	MarginUsed   float64  `json:"marginUsed,omitempty"`

	ClosePrice  float64    `json:"closePrice,omitempty"`
	RealizedPnl float64    `json:"realizedPnl,omitempty"`
	ClosedBy    string     `json:"closedBy,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
}

// Contract returns the contract size, defaulting when the server omits it.
func (t Trade) Contract() float64 {
	if t.ContractSize > 0 {
		return t.ContractSize
	}
	return DefaultContractSize
}

// PendingOrder is a resting order that has not executed yet.
type PendingOrder struct {
	ID         string   `json:"_id"`
	Symbol     string   `json:"symbol"`
	Side       Side     `json:"side"`
	Type       string   `json:"type"`
	Quantity   float64  `json:"quantity"`
	Price      float64  `json:"price"`
	StopLoss   *float64 `json:"stopLoss,omitempty"`
	TakeProfit *float64 `json:"takeProfit,omitempty"`
}
