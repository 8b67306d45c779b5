// Package inventory tracks stock levels and prices order items.
//
// Pricing is deterministic on the item name, so checking and reserving
// never consult anything beyond the ledger itself.
package inventory

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
)

// Price returns the unit price of an item.
func Price(item string) int {
	return len(item) * 10
}

// Total prices a list of items, one unit per occurrence.
func Total(items []string) int {
	total := 0
	for _, item := range items {
		total += Price(item)
	}
	return total
}

// ItemCheck describes one item in a CheckResult.
type ItemCheck struct {
	Available bool
	Price     int
	Remaining int
}

// CheckResult is the outcome of a read-only availability check.
// Available is true only when every requested occurrence could be
// served; Total prices the servable occurrences.
type CheckResult struct {
	Available bool
	Total     int
	Details   map[string]ItemCheck
}

// Ledger holds the remaining quantity per item. Quantities never go
// negative: reservations are all-or-nothing. All methods are safe for
// concurrent use.
type Ledger struct {
	mu        sync.RWMutex
	stock     map[string]int
	threshold int
}

// New creates a Ledger from configuration. The stock map is copied.
func New(cfg *Config) *Ledger {
	stock := maps.Clone(cfg.Stock)
	if stock == nil {
		stock = make(map[string]int)
	}
	return &Ledger{
		stock:     stock,
		threshold: cfg.LowStockThreshold,
	}
}

// Check reports availability without reserving anything. Every item is
// detailed, including unavailable ones: an item with no remaining stock
// (or unknown to the ledger) is listed with price 0 and marks the whole
// result unavailable, while the other items still price in.
func (l *Ledger) Check(items []string) CheckResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := CheckResult{
		Available: true,
		Details:   make(map[string]ItemCheck, len(items)),
	}

	for _, item := range items {
		remaining := l.stock[item]
		if remaining > 0 {
			price := Price(item)
			result.Details[item] = ItemCheck{Available: true, Price: price, Remaining: remaining}
			result.Total += price
		} else {
			result.Available = false
			result.Details[item] = ItemCheck{Available: false, Price: 0, Remaining: 0}
		}
	}

	return result
}

// Reserve takes one unit per occurrence, all-or-nothing, and returns
// the total price of the reserved items. When any item falls short the
// ledger is left untouched and the error lists the short items.
func (l *Ledger) Reserve(items []string) (int, error) {
	needed := make(map[string]int, len(items))
	for _, item := range items {
		needed[item]++
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var short []string
	for item, count := range needed {
		if l.stock[item] < count {
			short = append(short, item)
		}
	}
	if len(short) > 0 {
		sort.Strings(short)
		return 0, fmt.Errorf("%w: %s", ErrInsufficient, strings.Join(short, ", "))
	}

	for item, count := range needed {
		l.stock[item] -= count
	}

	return Total(items), nil
}

// Level returns the remaining quantity of an item. Unknown items are
// at zero.
func (l *Ledger) Level(item string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stock[item]
}

// Levels returns a copy of all remaining quantities.
func (l *Ledger) Levels() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.stock)
}

// Low returns the items at or below the low-stock threshold, sorted.
func (l *Ledger) Low() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var low []string
	for item, remaining := range l.stock {
		if remaining <= l.threshold {
			low = append(low, item)
		}
	}
	sort.Strings(low)
	return low
}
