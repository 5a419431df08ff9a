package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apexmarkets/fx-terminal/internal/api"
	"github.com/apexmarkets/fx-terminal/internal/config"
	"github.com/apexmarkets/fx-terminal/internal/instruments"
	"github.com/apexmarkets/fx-terminal/internal/logger"
	"github.com/apexmarkets/fx-terminal/internal/model"
)

var (
	NoAccountError    = errors.New("no trading account selected")
	NoQuoteError      = errors.New("no live quote for symbol")
	UnknownTradeError = errors.New("trade is not in the open set")
)

// Journal receives realized trades after a successful close. Implemented by
// the session store; nil disables journaling.
type Journal interface {
	RecordClose(t model.Trade, realizedPnl float64) error
}

// Engine owns the client-side caches and derives the live account view.
//
// Two independent loops feed it: the price loop (every PricePollInterval)
// and the account loop (every AccountPollInterval, only while an account is
// selected). Each loop schedules its next tick only after the previous
// fetch has been processed, so a slow network never piles up requests.
type Engine struct {
	cfg    config.EngineConfig
	api    *api.Client
	set    *instruments.Set
	jrnl   Journal
	logger logger.Logger

	prices *PriceCache

	mu            sync.RWMutex
	runCtx        context.Context
	user          model.User
	accounts      []model.TradingAccount
	selected      *model.TradingAccount
	accountCancel context.CancelFunc
	openTrades    []model.Trade
	pendingOrders []model.PendingOrder
	history       []model.Trade
	summary       model.AccountSummary
	lastPnl       map[string]float64
}

func NewEngine(cfg config.EngineConfig, apiClient *api.Client, set *instruments.Set, jrnl Journal, logger logger.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		api:     apiClient,
		set:     set,
		jrnl:    jrnl,
		logger:  logger,
		prices:  NewPriceCache(),
		lastPnl: make(map[string]float64),
	}
}

// Run drives the price polling loop until ctx is cancelled. The first fetch
// happens immediately. Account-scoped loops are children of ctx, so engine
// teardown cancels everything.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	e.runCtx = ctx
	e.mu.Unlock()

	e.refreshPrices(ctx)
	for {
		select {
		case <-ctx.Done():
			e.DeselectAccount()
			return ctx.Err()
		case <-time.After(e.cfg.PricePollInterval):
			e.refreshPrices(ctx)
		}
	}
}

func (e *Engine) refreshPrices(ctx context.Context) {
	batch, err := e.api.BatchPrices(ctx, e.set.Symbols())
	if err != nil {
		// Background poll: keep the previous cache, the next tick is near.
		e.logger.Debugf("%s: can't fetch price batch", err)
		return
	}
	e.prices.Merge(batch)
	e.set.Apply(batch)
}

// SetUser installs the authenticated user the account fetches are scoped to.
func (e *Engine) SetUser(user model.User) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.user = user
}

func (e *Engine) User() model.User {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user
}

// LoadAccounts fetches the user's trading accounts and selects the first
// one, mirroring the initial navigation flow.
func (e *Engine) LoadAccounts(ctx context.Context) ([]model.TradingAccount, error) {
	e.mu.RLock()
	userID := e.user.ID
	e.mu.RUnlock()
	if userID == "" {
		return nil, fmt.Errorf("no authenticated user")
	}

	accounts, err := e.api.Accounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: can't fetch trading accounts", err)
	}

	e.mu.Lock()
	e.accounts = accounts
	e.mu.Unlock()

	if len(accounts) > 0 {
		e.SelectAccount(accounts[0])
	}
	return accounts, nil
}

func (e *Engine) Accounts() []model.TradingAccount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.TradingAccount(nil), e.accounts...)
}

func (e *Engine) SelectedAccount() (model.TradingAccount, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.selected == nil {
		return model.TradingAccount{}, false
	}
	return *e.selected, true
}

// SelectAccount switches the active account: the previous account's loop is
// cancelled, every scoped cache is invalidated, and a fresh loop starts
// with an immediate full refresh.
func (e *Engine) SelectAccount(acct model.TradingAccount) {
	e.mu.Lock()
	if e.accountCancel != nil {
		e.accountCancel()
	}
	parent := e.runCtx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	e.accountCancel = cancel
	e.selected = &acct
	e.openTrades = nil
	e.pendingOrders = nil
	e.history = nil
	e.summary = model.AccountSummary{}
	e.lastPnl = make(map[string]float64)
	e.mu.Unlock()

	e.logger.Infof("selected trading account %s", acct.AccountID)
	go e.runAccountLoop(ctx, acct.ID)
}

// DeselectAccount stops the account loop and clears the scoped caches.
func (e *Engine) DeselectAccount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.accountCancel != nil {
		e.accountCancel()
		e.accountCancel = nil
	}
	e.selected = nil
	e.openTrades = nil
	e.pendingOrders = nil
	e.history = nil
	e.summary = model.AccountSummary{}
	e.lastPnl = make(map[string]float64)
}

func (e *Engine) runAccountLoop(ctx context.Context, accountID string) {
	e.refreshOpenTrades(ctx, accountID)
	e.refreshPendingOrders(ctx, accountID)
	e.refreshHistory(ctx, accountID)
	e.refreshSummary(ctx, accountID)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.cfg.AccountPollInterval):
			e.refreshOpenTrades(ctx, accountID)
			e.refreshSummary(ctx, accountID)
		}
	}
}

// commit applies a cache mutation only if accountID is still the selected
// account. This is the stale-response guard: a fetch issued for account A
// that resolves after a switch to B is discarded instead of applied.
func (e *Engine) commit(accountID string, apply func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil || e.selected.ID != accountID {
		return false
	}
	apply()
	return true
}

func (e *Engine) refreshOpenTrades(ctx context.Context, accountID string) {
	trades, err := e.api.OpenTrades(ctx, accountID)
	if err != nil {
		e.logger.Debugf("%s: can't fetch open trades", err)
		return
	}
	if !e.commit(accountID, func() {
		e.openTrades = trades
		e.pruneLastPnlLocked(trades)
	}) {
		e.logger.Debugf("discarding stale open trades response for account %s", accountID)
	}
}

// pruneLastPnlLocked drops side-table entries for trades no longer open.
// Caller holds e.mu.
func (e *Engine) pruneLastPnlLocked(trades []model.Trade) {
	open := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		open[t.ID] = struct{}{}
	}
	for id := range e.lastPnl {
		if _, ok := open[id]; !ok {
			delete(e.lastPnl, id)
		}
	}
}

func (e *Engine) refreshPendingOrders(ctx context.Context, accountID string) {
	orders, err := e.api.PendingOrders(ctx, accountID)
	if err != nil {
		e.logger.Debugf("%s: can't fetch pending orders", err)
		return
	}
	e.commit(accountID, func() {
		e.pendingOrders = orders
	})
}

func (e *Engine) refreshHistory(ctx context.Context, accountID string) {
	history, err := e.api.TradeHistory(ctx, accountID, e.cfg.HistoryLimit)
	if err != nil {
		e.logger.Debugf("%s: can't fetch trade history", err)
		return
	}
	e.commit(accountID, func() {
		e.history = history
	})
}

func (e *Engine) refreshSummary(ctx context.Context, accountID string) {
	summary, err := e.api.AccountSummary(ctx, accountID)
	if err != nil {
		e.logger.Debugf("%s: can't fetch account summary", err)
		return
	}
	e.commit(accountID, func() {
		e.summary = summary
	})
}

// Refresh re-fetches all four scoped caches for the selected account, the
// pull-to-refresh path.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.RLock()
	sel := e.selected
	e.mu.RUnlock()
	if sel == nil {
		return NoAccountError
	}

	e.refreshOpenTrades(ctx, sel.ID)
	e.refreshPendingOrders(ctx, sel.ID)
	e.refreshHistory(ctx, sel.ID)
	e.refreshSummary(ctx, sel.ID)
	return nil
}

func (e *Engine) Positions() []model.Trade {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.Trade(nil), e.openTrades...)
}

func (e *Engine) PendingOrders() []model.PendingOrder {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.PendingOrder(nil), e.pendingOrders...)
}

func (e *Engine) History() []model.Trade {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.Trade(nil), e.history...)
}

func (e *Engine) Summary() model.AccountSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.summary
}

func (e *Engine) Quote(symbol string) (model.Quote, bool) {
	return e.prices.Get(symbol)
}

// Snapshot derives the current account view from the caches.
func (e *Engine) Snapshot() Valuation {
	quotes := e.prices.Snapshot()
	e.mu.Lock()
	defer e.mu.Unlock()
	return Valuate(e.openTrades, quotes, e.summary, e.lastPnl)
}
