package market

import (
	"sync"
	"time"
)

// Board holds the current coins of the market grid.
type Board struct {
	mu      sync.RWMutex
	coins   []Coin
	updated time.Time
}

// Set replaces the coins of the board.
func (b *Board) Set(coins []Coin) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.coins = append([]Coin(nil), coins...)
	b.updated = time.Now()
}

// Apply patches the price and the change of the coin traded by the tick's pair.
// It returns false if no coin on the board matches the pair.
func (b *Board) Apply(t Tick) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.coins {
		if b.coins[i].Pair() != t.Symbol {
			continue
		}
		b.coins[i].Price = t.Price
		b.coins[i].Change = t.Change
		b.updated = time.Now()
		return true
	}

	return false
}

// Coins returns a copy of the current coins.
func (b *Board) Coins() []Coin {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Coin(nil), b.coins...)
}

// Updated returns the time of the last change of the board.
func (b *Board) Updated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updated
}
