package inventory

// DefaultLowStockThreshold marks items low when their remaining
// quantity is at or below this many units.
const DefaultLowStockThreshold = 2

// Config holds ledger initialization parameters.
type Config struct {
	Stock             map[string]int `json:"stock,omitempty"`               // Item -> starting quantity.
	LowStockThreshold int            `json:"low_stock_threshold,omitempty"` // At or below is low.
}

// DefaultConfig returns the default catalog seed.
func DefaultConfig() Config {
	return Config{
		Stock: map[string]int{
			"laptop":   10,
			"mouse":    50,
			"keyboard": 30,
			"monitor":  15,
		},
		LowStockThreshold: DefaultLowStockThreshold,
	}
}

// Merge applies non-zero values from source into c. A source stock map
// replaces the default catalog wholesale.
func (c *Config) Merge(source *Config) {
	if len(source.Stock) > 0 {
		c.Stock = source.Stock
	}
	if source.LowStockThreshold > 0 {
		c.LowStockThreshold = source.LowStockThreshold
	}
}
