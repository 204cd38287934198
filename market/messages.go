// File: market/messages.go
package market

import (
	"context"

	"github.com/lguibr/bazaar/actor"
)

// --- Seller Messages ---

// sellerMessage seals the set of requests a seller mailbox accepts.
type sellerMessage interface {
	actor.Message
	sellerMessage()
}

// listItemsMsg asks for a snapshot of everything currently on sale.
type listItemsMsg struct {
	reply actor.Reply[[]Item]
}

func (m listItemsMsg) Abort()       { m.reply.Abort() }
func (listItemsMsg) sellerMessage() {}

// checkPriceMsg is the read-only affordability probe.
type checkPriceMsg struct {
	itemID ItemID
	reply  actor.Reply[priceQuote]
}

func (m checkPriceMsg) Abort()       { m.reply.Abort() }
func (checkPriceMsg) sellerMessage() {}

type priceQuote struct {
	price Gold
	err   error
}

// buyItemMsg commits a sale: the item leaves the stock if the payment
// covers its price.
type buyItemMsg struct {
	itemID  ItemID
	payment Gold
	reply   actor.Reply[saleResult]
}

func (m buyItemMsg) Abort()       { m.reply.Abort() }
func (buyItemMsg) sellerMessage() {}

type saleResult struct {
	item Item
	err  error
}

// --- Buyer Messages ---

// buyerMessage seals the set of requests a buyer mailbox accepts.
type buyerMessage interface {
	actor.Message
	buyerMessage()
}

// buyMsg runs the purchase protocol against vendor inside the buyer's
// handler. The context is the caller's and bounds the nested vendor calls.
type buyMsg struct {
	ctx    context.Context
	vendor Vendor
	itemID ItemID
	reply  actor.Reply[purchaseResult]
}

func (m buyMsg) Abort()      { m.reply.Abort() }
func (buyMsg) buyerMessage() {}

type purchaseResult struct {
	item Item
	err  error
}

// receiveGoldMsg credits the buyer's balance. Fire-and-forget: there is no
// reply and nothing to abort.
type receiveGoldMsg struct {
	amount Gold
}

func (receiveGoldMsg) Abort()        {}
func (receiveGoldMsg) buyerMessage() {}

// infoMsg asks for a snapshot of the buyer's balance and inventory.
type infoMsg struct {
	reply actor.Reply[BuyerInfo]
}

func (m infoMsg) Abort()      { m.reply.Abort() }
func (infoMsg) buyerMessage() {}
