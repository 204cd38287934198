// File: market/gold.go

// Package market implements the buyer and seller actors and the atomic
// purchase protocol between them, together with the value types they trade
// in (gold, items, identifiers).
package market

import (
	"errors"
	"fmt"
	"math"
)

// ErrGoldUnderflow is returned by Gold.Sub when the subtrahend exceeds the
// balance. The purchase protocol checks affordability first, so hitting it
// there indicates a bug rather than a poor buyer.
var ErrGoldUnderflow = errors.New("gold subtraction underflow")

// Gold is a non-negative amount of currency. The zero value is zero gold.
type Gold uint64

// Add returns g plus other, saturating at the maximum representable
// amount instead of wrapping.
func (g Gold) Add(other Gold) Gold {
	sum := g + other
	if sum < g {
		return Gold(math.MaxUint64)
	}
	return sum
}

// Sub returns g minus other, or ErrGoldUnderflow if other exceeds g.
func (g Gold) Sub(other Gold) (Gold, error) {
	if other > g {
		return 0, ErrGoldUnderflow
	}
	return g - other, nil
}

func (g Gold) String() string {
	return fmt.Sprintf("%d gold", uint64(g))
}
