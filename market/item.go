// File: market/item.go
package market

import "fmt"

// Item is a unique, non-divisible good. It is created once when a catalog
// is populated and never mutated; ownership moves from a seller's stock to
// a buyer's inventory as a whole on a successful purchase.
type Item struct {
	ID    ItemID
	Name  string
	Price Gold
}

// NewItem creates a catalog item with a fresh id from src.
func NewItem(src IDSource, name string, price Gold) Item {
	return Item{ID: NewItemID(src), Name: name, Price: price}
}

func (i Item) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.ID)
}
