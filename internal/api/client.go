package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/apexmarkets/fx-terminal/internal/config"
	"github.com/apexmarkets/fx-terminal/internal/logger"
	"github.com/apexmarkets/fx-terminal/internal/model"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	_pricesBatchURL = "/prices/batch"
	_accountsURL    = "/trading-accounts/user/{userId}"
	_openTradesURL  = "/trade/open/{accountId}"
	_pendingURL     = "/trade/pending/{accountId}"
	_historyURL     = "/trade/history/{accountId}"
	_summaryURL     = "/trade/summary/{accountId}"
)

// Client talks to the platform REST API. Background pollers share it with
// user-initiated actions; order submission is rate limited so a misbehaving
// caller can't flood the trading endpoints.
type Client struct {
	c *resty.Client

	ordersRateLimiter ratelimit.Limiter

	logger logger.Logger
}

func NewClient(cfg config.APIConfig, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		c:                 client,
		ordersRateLimiter: ratelimit.New(60, ratelimit.Per(time.Minute)),
		logger:            logger,
	}
}

// SetToken installs the bearer credential used by authenticated endpoints.
func (c *Client) SetToken(token string) {
	c.c.SetAuthToken(token)
}

func (c *Client) Close() error {
	return c.c.Close()
}

type batchPricesRequest struct {
	Symbols []string `json:"symbols"`
}

// BatchPrices requests one quote batch for all given symbols.
func (c *Client) BatchPrices(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	req := c.c.R().
		SetContext(ctx).
		SetBody(batchPricesRequest{Symbols: symbols}).
		SetResult(&model.BatchPricesResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Post(_pricesBatchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send batch prices request", err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return nil, fmt.Errorf("%s: batch prices request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.BatchPricesResponse)
		if !result.Success {
			return nil, fmt.Errorf("batch prices request rejected")
		}
		return result.Prices, nil
	}

	return nil, fmt.Errorf("batch prices unexpected request error: %s", resp.Status())
}

// Accounts lists the user's trading accounts.
func (c *Client) Accounts(ctx context.Context, userID string) ([]model.TradingAccount, error) {
	req := c.c.R().
		SetContext(ctx).
		SetPathParam("userId", userID).
		SetResult(&model.AccountsResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Get(_accountsURL)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send accounts request", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return nil, fmt.Errorf("%s: accounts request error", response.Message)
	}
	if resp.IsSuccess() {
		return resp.Result().(*model.AccountsResponse).Accounts, nil
	}

	return nil, fmt.Errorf("accounts unexpected request error: %s", resp.Status())
}

// OpenTrades fetches the account's currently open positions.
func (c *Client) OpenTrades(ctx context.Context, accountID string) ([]model.Trade, error) {
	return c.trades(ctx, _openTradesURL, accountID, 0)
}

// TradeHistory fetches the account's closed trades, newest first.
func (c *Client) TradeHistory(ctx context.Context, accountID string, limit int) ([]model.Trade, error) {
	return c.trades(ctx, _historyURL, accountID, limit)
}

func (c *Client) trades(ctx context.Context, url, accountID string, limit int) ([]model.Trade, error) {
	req := c.c.R().
		SetContext(ctx).
		SetPathParam("accountId", accountID).
		SetResult(&model.TradesResponse{}).
		SetError(&model.ErrorResponse{})
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send trades request", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return nil, fmt.Errorf("%s: trades request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.TradesResponse)
		if !result.Success {
			return nil, fmt.Errorf("trades request rejected")
		}
		return result.Trades, nil
	}

	return nil, fmt.Errorf("trades unexpected request error: %s", resp.Status())
}

// PendingOrders fetches the account's resting orders.
func (c *Client) PendingOrders(ctx context.Context, accountID string) ([]model.PendingOrder, error) {
	req := c.c.R().
		SetContext(ctx).
		SetPathParam("accountId", accountID).
		SetResult(&model.OrdersResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Get(_pendingURL)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send pending orders request", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return nil, fmt.Errorf("%s: pending orders request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.OrdersResponse)
		if !result.Success {
			return nil, fmt.Errorf("pending orders request rejected")
		}
		return result.Orders, nil
	}

	return nil, fmt.Errorf("pending orders unexpected request error: %s", resp.Status())
}

// AccountSummary fetches the server-computed account snapshot.
func (c *Client) AccountSummary(ctx context.Context, accountID string) (model.AccountSummary, error) {
	req := c.c.R().
		SetContext(ctx).
		SetPathParam("accountId", accountID).
		SetResult(&model.SummaryResponse{}).
		SetError(&model.ErrorResponse{})

	resp, err := req.Get(_summaryURL)
	if err != nil {
		return model.AccountSummary{}, fmt.Errorf("%w: can't send summary request", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		response := resp.Error().(*model.ErrorResponse)
		return model.AccountSummary{}, fmt.Errorf("%s: summary request error", response.Message)
	}
	if resp.IsSuccess() {
		result := resp.Result().(*model.SummaryResponse)
		if !result.Success {
			return model.AccountSummary{}, fmt.Errorf("summary request rejected")
		}
		return result.Summary, nil
	}

	return model.AccountSummary{}, fmt.Errorf("summary unexpected request error: %s", resp.Status())
}
