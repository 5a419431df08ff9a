package model

// Quote is the latest known bid/ask pair for one symbol.
type Quote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Valid reports whether the quote may be used for valuation. A missing or
// non-positive bid means the quote hasn't arrived yet.
func (q Quote) Valid() bool {
	return q.Bid > 0
}
