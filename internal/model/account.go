package model

type User struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type TradingAccount struct {
	ID        string  `json:"_id"`
	AccountID string  `json:"accountId"`
	Status    string  `json:"status"`
	Currency  string  `json:"currency,omitempty"`
	Leverage  int     `json:"leverage,omitempty"`
	Balance   float64 `json:"balance,omitempty"`
}

// AccountSummary is the server-computed account snapshot. It is ground truth
// for balance/credit/margin; the floating P/L field is superseded locally
// whenever live quotes cover at least one open position.
type AccountSummary struct {
	Balance     float64 `json:"balance"`
	Credit      float64 `json:"credit"`
	Equity      float64 `json:"equity"`
	UsedMargin  float64 `json:"usedMargin"`
	FreeMargin  float64 `json:"freeMargin"`
	FloatingPnl float64 `json:"floatingPnl"`
}
