package model

type Category string

const (
	Forex  Category = "Forex"
	Metals Category = "Metals"
	Crypto Category = "Crypto"
)

// Instrument is one tradable symbol. Symbol never changes after seeding;
// only the price display fields mutate as quote batches arrive.
type Instrument struct {
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Starred  bool     `json:"starred"`

	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Spread float64 `json:"spread"`
}

// DefaultInstruments is the seed set used when no instrument list is configured.
func DefaultInstruments() []Instrument {
	return []Instrument{
		{Symbol: "EURUSD", Name: "EUR/USD", Category: Forex, Starred: true},
		{Symbol: "GBPUSD", Name: "GBP/USD", Category: Forex, Starred: true},
		{Symbol: "USDJPY", Name: "USD/JPY", Category: Forex},
		{Symbol: "XAUUSD", Name: "Gold", Category: Metals, Starred: true},
		{Symbol: "XAGUSD", Name: "Silver", Category: Metals},
		{Symbol: "BTCUSD", Name: "Bitcoin", Category: Crypto, Starred: true},
		{Symbol: "ETHUSD", Name: "Ethereum", Category: Crypto},
	}
}
