package instruments

import (
	"strings"
	"sync"

	"github.com/apexmarkets/fx-terminal/internal/model"
)

// Filter categories beyond the instrument categories themselves.
const (
	CategoryAll     = "All"
	CategoryStarred = "Starred"
)

// Set is the in-memory instrument list. It is seeded once and only the
// price display fields (and the starred flag) mutate afterwards.
type Set struct {
	mu    sync.RWMutex
	list  []model.Instrument
	index map[string]int
}

func NewSet(seed []model.Instrument) *Set {
	s := &Set{
		list:  make([]model.Instrument, len(seed)),
		index: make(map[string]int, len(seed)),
	}
	copy(s.list, seed)
	for i, inst := range s.list {
		s.index[inst.Symbol] = i
	}
	return s
}

// Symbols returns every known symbol, in seed order.
func (s *Set) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	symbols := make([]string, 0, len(s.list))
	for _, inst := range s.list {
		symbols = append(symbols, inst.Symbol)
	}
	return symbols
}

// Apply merges one quote batch into the display fields. Symbols without a
// valid bid in the batch keep whatever they showed before.
func (s *Set) Apply(batch map[string]model.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for symbol, q := range batch {
		i, ok := s.index[symbol]
		if !ok || !q.Valid() {
			continue
		}
		ask := q.Ask
		if ask <= 0 {
			ask = q.Bid
		}
		s.list[i].Bid = q.Bid
		s.list[i].Ask = ask
		spread := ask - q.Bid
		if spread < 0 {
			spread = -spread
		}
		s.list[i].Spread = spread
	}
}

func (s *Set) Get(symbol string) (model.Instrument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[symbol]
	if !ok {
		return model.Instrument{}, false
	}
	return s.list[i], true
}

func (s *Set) All() []model.Instrument {
	return s.Filter("", CategoryAll)
}

// Filter returns instruments matching the search term (against symbol or
// display name, case-insensitive) and the category tab.
func (s *Set) Filter(search, category string) []model.Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(search)
	out := make([]model.Instrument, 0, len(s.list))
	for _, inst := range s.list {
		if search != "" &&
			!strings.Contains(strings.ToLower(inst.Symbol), search) &&
			!strings.Contains(strings.ToLower(inst.Name), search) {
			continue
		}
		switch category {
		case "", CategoryAll:
		case CategoryStarred:
			if !inst.Starred {
				continue
			}
		default:
			if string(inst.Category) != category {
				continue
			}
		}
		out = append(out, inst)
	}
	return out
}

// Star toggles the starred flag; reports whether the symbol exists.
func (s *Set) Star(symbol string, starred bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[symbol]
	if !ok {
		return false
	}
	s.list[i].Starred = starred
	return true
}
