package instruments

import (
	"testing"

	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() *Set {
	return NewSet([]model.Instrument{
		{Symbol: "EURUSD", Name: "Euro / US Dollar", Category: model.Forex, Starred: true},
		{Symbol: "USDJPY", Name: "US Dollar / Japanese Yen", Category: model.Forex},
		{Symbol: "XAUUSD", Name: "Gold", Category: model.Metals, Starred: true},
		{Symbol: "BTCUSD", Name: "Bitcoin", Category: model.Crypto},
	})
}

func TestSetApply(t *testing.T) {
	t.Parallel()

	s := testSet()

	// invalid bid and unknown symbol are ignored, missing ask falls back to bid
	s.Apply(map[string]model.Quote{
		"EURUSD": {Bid: 1.1050, Ask: 1.1052},
		"USDJPY": {Bid: 0},
		"XAUUSD": {Bid: 2350.10},
		"GBPUSD": {Bid: 1.27, Ask: 1.271},
	})

	eur, ok := s.Get("EURUSD")
	require.True(t, ok)
	assert.InDelta(t, 1.1050, eur.Bid, 1e-9)
	assert.InDelta(t, 0.0002, eur.Spread, 1e-9)

	jpy, ok := s.Get("USDJPY")
	require.True(t, ok)
	assert.Zero(t, jpy.Bid)

	gold, ok := s.Get("XAUUSD")
	require.True(t, ok)
	assert.InDelta(t, 2350.10, gold.Ask, 1e-9)
	assert.Zero(t, gold.Spread)
}

func TestSetApplyKeepsLastPrice(t *testing.T) {
	t.Parallel()

	s := testSet()
	s.Apply(map[string]model.Quote{"EURUSD": {Bid: 1.1050, Ask: 1.1052}})
	s.Apply(map[string]model.Quote{"EURUSD": {Bid: 0, Ask: 1.2}})

	eur, _ := s.Get("EURUSD")
	assert.InDelta(t, 1.1050, eur.Bid, 1e-9)
}

func TestSetFilter(t *testing.T) {
	t.Parallel()

	s := testSet()

	symbols := func(list []model.Instrument) []string {
		out := make([]string, 0, len(list))
		for _, inst := range list {
			out = append(out, inst.Symbol)
		}
		return out
	}

	assert.Len(t, s.Filter("", CategoryAll), 4)
	assert.Equal(t, []string{"EURUSD", "XAUUSD"}, symbols(s.Filter("", CategoryStarred)))
	assert.Equal(t, []string{"XAUUSD"}, symbols(s.Filter("", string(model.Metals))))
	assert.Equal(t, []string{"BTCUSD"}, symbols(s.Filter("bitcoin", CategoryAll)))
	assert.Equal(t, []string{"EURUSD", "USDJPY"}, symbols(s.Filter("dollar", CategoryAll)))
	assert.Empty(t, s.Filter("bitcoin", string(model.Forex)))
}

func TestSetStar(t *testing.T) {
	t.Parallel()

	s := testSet()
	require.True(t, s.Star("USDJPY", true))
	jpy, _ := s.Get("USDJPY")
	assert.True(t, jpy.Starred)

	require.True(t, s.Star("EURUSD", false))
	eur, _ := s.Get("EURUSD")
	assert.False(t, eur.Starred)

	assert.False(t, s.Star("GBPUSD", true))
}

func TestSetSymbols(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"EURUSD", "USDJPY", "XAUUSD", "BTCUSD"}, testSet().Symbols())
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "...", FormatPrice(0))
	assert.Equal(t, "...", FormatPrice(-1))
	assert.Equal(t, "1.10500", FormatPrice(1.105))
	assert.Equal(t, "150.33", FormatPrice(150.332))
	assert.Equal(t, "67241.50", FormatPrice(67241.5))
}

func TestFormatSpread(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", FormatSpread(model.Instrument{Symbol: "EURUSD"}))
	assert.Equal(t, "2.0", FormatSpread(model.Instrument{Symbol: "EURUSD", Bid: 1.1050, Spread: 0.0002}))
	assert.Equal(t, "3.0", FormatSpread(model.Instrument{Symbol: "USDJPY", Bid: 150.33, Spread: 0.03}))
	assert.Equal(t, "0.50", FormatSpread(model.Instrument{Symbol: "XAUUSD", Bid: 2350.10, Spread: 0.5}))
}
