package engine

import (
	"sync"

	"github.com/apexmarkets/fx-terminal/internal/model"
)

// PriceCache holds the latest known quote per symbol. The merge policy is
// monotonic: once a symbol has a valid quote it never reverts to unknown,
// even when later batches omit it or fail entirely.
type PriceCache struct {
	mu     sync.RWMutex
	quotes map[string]model.Quote
}

func NewPriceCache() *PriceCache {
	return &PriceCache{
		quotes: make(map[string]model.Quote),
	}
}

// Merge overlays one batch onto the cache. Only entries with a valid bid
// overwrite; an absent ask is normalized to the bid so downstream code can
// rely on both sides being set.
func (p *PriceCache) Merge(batch map[string]model.Quote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for symbol, q := range batch {
		if !q.Valid() {
			continue
		}
		if q.Ask <= 0 {
			q.Ask = q.Bid
		}
		p.quotes[symbol] = q
	}
}

func (p *PriceCache) Get(symbol string) (model.Quote, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	q, ok := p.quotes[symbol]
	return q, ok
}

// Snapshot copies the current cache for a single consistent valuation pass.
func (p *PriceCache) Snapshot() map[string]model.Quote {
	p.mu.RLock()
	defer p.mu.RUnlock()
	quotes := make(map[string]model.Quote, len(p.quotes))
	for symbol, q := range p.quotes {
		quotes[symbol] = q
	}
	return quotes
}

func (p *PriceCache) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.quotes)
}
