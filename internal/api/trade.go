package api

import (
	"context"
	"fmt"

	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/google/uuid"
)

const (
	_openTradeURL  = "/trade/open"
	_closeTradeURL = "/trade/close/{tradeId}"

	_clientOrderIDPrefix = "fx-terminal-"
)

type OpenTradeRequest struct {
	TradingAccountID string   `json:"tradingAccountId"`
	Symbol           string   `json:"symbol"`
	Side             string   `json:"side"`
	Quantity         float64  `json:"quantity"`
	OpenPrice        float64  `json:"openPrice"`
	StopLoss         *float64 `json:"stopLoss"`
	TakeProfit       *float64 `json:"takeProfit"`
	ClientOrderID    string   `json:"clientOrderId,omitempty"`
}

type closeTradeRequest struct {
	ClosePrice float64 `json:"closePrice"`
}

// OpenTrade submits one open request. Single shot: no client-side retry, a
// non-success response comes back as an error and nothing else happens.
func (c *Client) OpenTrade(ctx context.Context, r OpenTradeRequest) error {
	if r.ClientOrderID == "" {
		r.ClientOrderID = _clientOrderIDPrefix + uuid.NewString()
	}

	c.ordersRateLimiter.Take()
	req := c.c.R().
		SetContext(ctx).
		SetBody(r).
		SetResult(&model.OpenTradeResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Post(_openTradeURL)
	if err != nil {
		return fmt.Errorf("%w: can't send open trade request", err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("open trade %s %s qty=%v status: %s", r.Side, r.Symbol, r.Quantity, resp.Status())

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return fmt.Errorf("%s: open trade request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.OpenTradeResponse)
		if !result.Success {
			return fmt.Errorf("%s: open trade rejected", result.Message)
		}
		return nil
	}

	return fmt.Errorf("open trade unexpected request error: %s", resp.Status())
}

// CloseTrade submits one close request and returns the server-computed
// realized P/L.
func (c *Client) CloseTrade(ctx context.Context, tradeID string, closePrice float64) (float64, error) {
	c.ordersRateLimiter.Take()
	req := c.c.R().
		SetContext(ctx).
		SetPathParam("tradeId", tradeID).
		SetBody(closeTradeRequest{ClosePrice: closePrice}).
		SetResult(&model.CloseTradeResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Post(_closeTradeURL)
	if err != nil {
		return 0, fmt.Errorf("%w: can't send close trade request", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return 0, fmt.Errorf("%s: close trade request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.CloseTradeResponse)
		if !result.Success {
			return 0, fmt.Errorf("%s: close trade rejected", result.Message)
		}
		return result.RealizedPnl, nil
	}

	return 0, fmt.Errorf("close trade unexpected request error: %s", resp.Status())
}
