package inventory_test

import (
	"testing"

	"github.com/orderflow/engine/inventory"
)

func TestDefaultConfig(t *testing.T) {
	cfg := inventory.DefaultConfig()

	want := map[string]int{"laptop": 10, "mouse": 50, "keyboard": 30, "monitor": 15}
	if len(cfg.Stock) != len(want) {
		t.Fatalf("Stock has %d items, want %d", len(cfg.Stock), len(want))
	}
	for item, quantity := range want {
		if cfg.Stock[item] != quantity {
			t.Errorf("Stock[%s] = %d, want %d", item, cfg.Stock[item], quantity)
		}
	}
	if cfg.LowStockThreshold != inventory.DefaultLowStockThreshold {
		t.Errorf("LowStockThreshold = %d, want %d", cfg.LowStockThreshold, inventory.DefaultLowStockThreshold)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := inventory.DefaultConfig()

	source := &inventory.Config{
		Stock:             map[string]int{"widget": 5},
		LowStockThreshold: 1,
	}
	cfg.Merge(source)

	if len(cfg.Stock) != 1 || cfg.Stock["widget"] != 5 {
		t.Errorf("Stock = %v, want replaced by source catalog", cfg.Stock)
	}
	if cfg.LowStockThreshold != 1 {
		t.Errorf("LowStockThreshold = %d, want 1", cfg.LowStockThreshold)
	}
}

func TestConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := inventory.DefaultConfig()

	cfg.Merge(&inventory.Config{})

	if cfg.Stock["laptop"] != 10 {
		t.Errorf("Stock[laptop] = %d, want 10 (preserved)", cfg.Stock["laptop"])
	}
	if cfg.LowStockThreshold != inventory.DefaultLowStockThreshold {
		t.Errorf("LowStockThreshold = %d, want %d (preserved)",
			cfg.LowStockThreshold, inventory.DefaultLowStockThreshold)
	}
}

func TestNew_CopiesStock(t *testing.T) {
	cfg := inventory.DefaultConfig()
	ledger := inventory.New(&cfg)

	cfg.Stock["laptop"] = 0

	if got := ledger.Level("laptop"); got != 10 {
		t.Errorf("Level(laptop) = %d after mutating config, want 10", got)
	}
}

func TestNew_NilStock(t *testing.T) {
	ledger := inventory.New(&inventory.Config{})

	if got := ledger.Level("laptop"); got != 0 {
		t.Errorf("Level(laptop) = %d, want 0", got)
	}
	if _, err := ledger.Reserve([]string{"laptop"}); err == nil {
		t.Error("Reserve() on empty ledger succeeded, want error")
	}
}
