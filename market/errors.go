// File: market/errors.go
package market

import (
	"errors"
	"fmt"
)

// ErrItemNotAvailable reports that the seller does not hold the requested
// item: the id was never stocked, the item was already sold, or the seller
// could not be reached at all. A purchase that loses a race between quote
// and commit surfaces this error too.
var ErrItemNotAvailable = errors.New("the item is not available")

// NotEnoughGoldError is the buyer-side failure: the quoted price exceeds
// the buyer's balance. The balance is untouched when it is returned.
type NotEnoughGoldError struct {
	Available Gold
	Price     Gold
}

func (e *NotEnoughGoldError) Error() string {
	return fmt.Sprintf("not enough gold: have %s but the price is %s", e.Available, e.Price)
}

// InsufficientPaymentError is the seller-side failure: the payment offered
// to BuyItem is below the item's price. The item goes back on sale before
// the error is returned.
type InsufficientPaymentError struct {
	Payment Gold
	Price   Gold
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: %s < %s", e.Payment, e.Price)
}
