package model

// Response envelopes for the platform REST API.

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type BatchPricesResponse struct {
	Success bool             `json:"success"`
	Prices  map[string]Quote `json:"prices"`
}

type AccountsResponse struct {
	Accounts []TradingAccount `json:"accounts"`
}

type TradesResponse struct {
	Success bool    `json:"success"`
	Trades  []Trade `json:"trades"`
}

type OrdersResponse struct {
	Success bool           `json:"success"`
	Orders  []PendingOrder `json:"orders"`
}

type SummaryResponse struct {
	Success bool           `json:"success"`
	Summary AccountSummary `json:"summary"`
}

type OpenTradeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Trade   *Trade `json:"trade,omitempty"`
}

type CloseTradeResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	RealizedPnl float64 `json:"realizedPnl"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
