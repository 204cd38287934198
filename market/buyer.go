// File: market/buyer.go
package market

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lguibr/bazaar/actor"
	"github.com/lguibr/bazaar/utils"
)

// Vendor is the seller-side surface the purchase protocol needs. It is
// satisfied by SellerHandle; tests substitute scripted vendors to force
// the failure paths deterministically.
type Vendor interface {
	CheckPrice(ctx context.Context, itemID ItemID) (Gold, error)
	BuyItem(ctx context.Context, itemID ItemID, payment Gold) (Item, error)
}

// Buyer owns a gold balance and an inventory of purchased items. Like
// Seller, the struct lives on its mailbox goroutine and is reached only
// through a BuyerHandle.
type Buyer struct {
	id     BuyerID
	wallet Gold
	items  map[ItemID]Item
	log    *zap.Logger
}

// BuyerInfo is the snapshot returned by BuyerHandle.Info.
type BuyerInfo struct {
	Gold  Gold
	Items []Item
}

// BuyerHandle is a copyable reference to a buyer's mailbox.
type BuyerHandle struct {
	id BuyerID
	mb *actor.Mailbox[buyerMessage]
}

// SpawnBuyer starts a buyer actor with a starting balance and any items it
// already owns, and returns its handle. A nil logger disables logging.
func SpawnBuyer(cfg utils.Config, ids IDSource, log *zap.Logger, gold Gold, items ...Item) BuyerHandle {
	if log == nil {
		log = zap.NewNop()
	}
	id := NewBuyerID(ids)
	owned := make(map[ItemID]Item, len(items))
	for _, item := range items {
		owned[item.ID] = item
	}
	b := &Buyer{
		id:     id,
		wallet: gold,
		items:  owned,
		log:    log.With(zap.Stringer("buyer", id)),
	}
	mb := actor.Spawn(string(id), cfg.MailboxSize, log, b.receive)
	return BuyerHandle{id: id, mb: mb}
}

func (b *Buyer) receive(msg buyerMessage) {
	switch m := msg.(type) {
	case buyMsg:
		m.reply.Deliver(b.buy(m.ctx, m.vendor, m.itemID))
	case receiveGoldMsg:
		b.wallet = b.wallet.Add(m.amount)
		b.log.Debug("received gold",
			zap.Stringer("amount", m.amount),
			zap.Stringer("balance", b.wallet),
		)
	case infoMsg:
		items := make([]Item, 0, len(b.items))
		for _, item := range b.items {
			items = append(items, item)
		}
		m.reply.Deliver(BuyerInfo{Gold: b.wallet, Items: items})
	}
}

// buy is the purchase protocol. It runs inside the buyer's handler, so the
// balance cannot be touched by another request until it returns; the only
// concurrency it must survive is on the vendor's side.
//
// The steps: quote the price, check affordability, debit the balance,
// commit with the vendor. If the commit fails, the debit is credited back
// before the error is returned, leaving the balance exactly as it was. A
// quote invalidated by a concurrent sale is reported as
// ErrItemNotAvailable, never retried.
func (b *Buyer) buy(ctx context.Context, vendor Vendor, itemID ItemID) purchaseResult {
	price, err := vendor.CheckPrice(ctx, itemID)
	if err != nil {
		b.log.Info("item is not available",
			zap.Stringer("item_id", itemID),
			zap.Error(err),
		)
		return purchaseResult{err: unavailable(err)}
	}
	available := b.wallet
	if available < price {
		b.log.Info("not enough gold",
			zap.Stringer("item_id", itemID),
			zap.Stringer("available", available),
			zap.Stringer("price", price),
		)
		return purchaseResult{err: &NotEnoughGoldError{Available: available, Price: price}}
	}
	debited, err := b.wallet.Sub(price)
	if err != nil {
		return purchaseResult{err: err}
	}
	b.wallet = debited
	item, err := vendor.BuyItem(ctx, itemID, price)
	if err != nil {
		// Compensate: the sale did not go through, so the tentative debit
		// is credited back in full. If the vendor actually sold but its
		// reply was lost, buyer and vendor now disagree; closing that gap
		// needs an idempotency key per attempt, which this protocol does
		// not carry.
		b.wallet = b.wallet.Add(price)
		b.log.Info("purchase failed after debit",
			zap.Stringer("item_id", itemID),
			zap.Error(err),
		)
		return purchaseResult{err: unavailable(err)}
	}
	b.items[item.ID] = item
	b.log.Info("bought item",
		zap.Stringer("item", item),
		zap.Stringer("price", price),
		zap.Stringer("balance", b.wallet),
	)
	return purchaseResult{item: item}
}

// unavailable folds every vendor-side failure into ErrItemNotAvailable,
// keeping the cause in the message.
func unavailable(err error) error {
	if errors.Is(err, ErrItemNotAvailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrItemNotAvailable, err)
}

// ID returns the buyer's identifier.
func (h BuyerHandle) ID() BuyerID { return h.id }

func (h BuyerHandle) String() string { return string(h.id) }

// Buy purchases itemID from vendor. On success the returned item is in the
// buyer's inventory and the balance is down by exactly its quoted price.
func (h BuyerHandle) Buy(ctx context.Context, vendor Vendor, itemID ItemID) (Item, error) {
	reply := actor.NewReply[purchaseResult]()
	msg := buyMsg{ctx: ctx, vendor: vendor, itemID: itemID, reply: reply}
	if err := h.mb.Send(ctx, msg); err != nil {
		return Item{}, err
	}
	res, err := reply.Recv(ctx)
	if err != nil {
		return Item{}, err
	}
	if res.err != nil {
		return Item{}, res.err
	}
	return res.item, nil
}

// ReceiveGold credits the buyer's balance. Fire-and-forget: it returns as
// soon as the message is queued.
func (h BuyerHandle) ReceiveGold(ctx context.Context, amount Gold) error {
	return h.mb.Send(ctx, receiveGoldMsg{amount: amount})
}

// Info returns a snapshot of the buyer's balance and inventory.
func (h BuyerHandle) Info(ctx context.Context) (BuyerInfo, error) {
	reply := actor.NewReply[BuyerInfo]()
	if err := h.mb.Send(ctx, infoMsg{reply: reply}); err != nil {
		return BuyerInfo{}, err
	}
	return reply.Recv(ctx)
}

// Close shuts the buyer down. Requests already queued are still served;
// later sends fail with actor.ErrDisconnected.
func (h BuyerHandle) Close() { h.mb.Close() }

// Done is closed once the buyer's loop has fully exited.
func (h BuyerHandle) Done() <-chan struct{} { return h.mb.Done() }
