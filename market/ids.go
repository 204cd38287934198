// File: market/ids.go
package market

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource mints identifiers for items and actors. It is injected into the
// spawn entry points rather than hidden behind package-level counters, so a
// test harness can hold its own source and get deterministic ids.
// Implementations must be safe for concurrent use.
type IDSource interface {
	Next(prefix string) string
}

// Sequence is an IDSource backed by an atomic counter. Ids look like
// "Item#3". Uniqueness is per Sequence; ordering across prefixes carries no
// meaning. The zero value is ready to use.
type Sequence struct {
	n atomic.Uint64
}

func (s *Sequence) Next(prefix string) string {
	return fmt.Sprintf("%s#%d", prefix, s.n.Add(1))
}

// RandomIDs is an IDSource that mints random UUID-based ids, for setups
// where several independent processes populate one catalog and a shared
// counter is not an option.
type RandomIDs struct{}

func (RandomIDs) Next(prefix string) string {
	return prefix + "#" + uuid.NewString()
}

// ItemID identifies one good.
type ItemID string

func (id ItemID) String() string { return string(id) }

// BuyerID identifies one buyer actor.
type BuyerID string

func (id BuyerID) String() string { return string(id) }

// SellerID identifies one seller actor.
type SellerID string

func (id SellerID) String() string { return string(id) }

// NewItemID mints an item identifier from src.
func NewItemID(src IDSource) ItemID { return ItemID(src.Next("Item")) }

// NewBuyerID mints a buyer identifier from src.
func NewBuyerID(src IDSource) BuyerID { return BuyerID(src.Next("Buyer")) }

// NewSellerID mints a seller identifier from src.
func NewSellerID(src IDSource) SellerID { return SellerID(src.Next("Seller")) }
