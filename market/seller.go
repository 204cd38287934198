// File: market/seller.go
package market

import (
	"context"

	"go.uber.org/zap"

	"github.com/lguibr/bazaar/actor"
	"github.com/lguibr/bazaar/utils"
)

// Seller owns a stock of items for sale. The struct is private to its
// mailbox goroutine; everything outside talks to it through a SellerHandle.
type Seller struct {
	id    SellerID
	stock map[ItemID]Item
	log   *zap.Logger
}

// SellerHandle is a copyable reference to a seller's mailbox. Any number of
// callers may use one handle, or copies of it, concurrently.
type SellerHandle struct {
	id SellerID
	mb *actor.Mailbox[sellerMessage]
}

// SpawnSeller starts a seller actor stocked with items and returns its
// handle. A nil logger disables logging.
func SpawnSeller(cfg utils.Config, ids IDSource, log *zap.Logger, items ...Item) SellerHandle {
	if log == nil {
		log = zap.NewNop()
	}
	id := NewSellerID(ids)
	stock := make(map[ItemID]Item, len(items))
	for _, item := range items {
		stock[item.ID] = item
	}
	s := &Seller{
		id:    id,
		stock: stock,
		log:   log.With(zap.Stringer("seller", id)),
	}
	mb := actor.Spawn(string(id), cfg.MailboxSize, log, s.receive)
	return SellerHandle{id: id, mb: mb}
}

func (s *Seller) receive(msg sellerMessage) {
	switch m := msg.(type) {
	case listItemsMsg:
		m.reply.Deliver(s.listItems())
	case checkPriceMsg:
		m.reply.Deliver(s.checkPrice(m.itemID))
	case buyItemMsg:
		m.reply.Deliver(s.sell(m.itemID, m.payment))
	}
}

// listItems snapshots the stock so the reply shares nothing with the
// seller's state.
func (s *Seller) listItems() []Item {
	items := make([]Item, 0, len(s.stock))
	for _, item := range s.stock {
		items = append(items, item)
	}
	s.log.Debug("listed items", zap.Int("count", len(items)))
	return items
}

func (s *Seller) checkPrice(itemID ItemID) priceQuote {
	item, ok := s.stock[itemID]
	if !ok {
		s.log.Info("item is not available", zap.Stringer("item_id", itemID))
		return priceQuote{err: ErrItemNotAvailable}
	}
	s.log.Debug("checked price",
		zap.Stringer("item", item),
		zap.Stringer("price", item.Price),
	)
	return priceQuote{price: item.Price}
}

// sell removes the item before validating the payment. Removal and
// validation happen inside one handler invocation, so of two racing buyers
// only the first finds the item; a short payment puts it back.
func (s *Seller) sell(itemID ItemID, payment Gold) saleResult {
	item, ok := s.stock[itemID]
	if !ok {
		s.log.Info("item is not available", zap.Stringer("item_id", itemID))
		return saleResult{err: ErrItemNotAvailable}
	}
	delete(s.stock, itemID)
	if payment < item.Price {
		s.stock[itemID] = item
		s.log.Info("payment below price",
			zap.Stringer("item", item),
			zap.Stringer("payment", payment),
			zap.Stringer("price", item.Price),
		)
		return saleResult{err: &InsufficientPaymentError{Payment: payment, Price: item.Price}}
	}
	s.log.Info("item sold",
		zap.Stringer("item", item),
		zap.Stringer("payment", payment),
	)
	return saleResult{item: item}
}

// ID returns the seller's identifier.
func (h SellerHandle) ID() SellerID { return h.id }

func (h SellerHandle) String() string { return string(h.id) }

// ListItems returns a snapshot of everything currently on sale.
func (h SellerHandle) ListItems(ctx context.Context) ([]Item, error) {
	reply := actor.NewReply[[]Item]()
	if err := h.mb.Send(ctx, listItemsMsg{reply: reply}); err != nil {
		return nil, err
	}
	return reply.Recv(ctx)
}

// CheckPrice quotes the price of an item without touching the stock.
func (h SellerHandle) CheckPrice(ctx context.Context, itemID ItemID) (Gold, error) {
	reply := actor.NewReply[priceQuote]()
	if err := h.mb.Send(ctx, checkPriceMsg{itemID: itemID, reply: reply}); err != nil {
		return 0, err
	}
	quote, err := reply.Recv(ctx)
	if err != nil {
		return 0, err
	}
	if quote.err != nil {
		return 0, quote.err
	}
	return quote.price, nil
}

// BuyItem offers payment for an item. On success the item has left the
// seller's stock and belongs to the caller.
func (h SellerHandle) BuyItem(ctx context.Context, itemID ItemID, payment Gold) (Item, error) {
	reply := actor.NewReply[saleResult]()
	if err := h.mb.Send(ctx, buyItemMsg{itemID: itemID, payment: payment, reply: reply}); err != nil {
		return Item{}, err
	}
	sale, err := reply.Recv(ctx)
	if err != nil {
		return Item{}, err
	}
	if sale.err != nil {
		return Item{}, sale.err
	}
	return sale.item, nil
}

// Close shuts the seller down. Requests already queued are still served;
// later sends fail with actor.ErrDisconnected.
func (h SellerHandle) Close() { h.mb.Close() }

// Done is closed once the seller's loop has fully exited.
func (h SellerHandle) Done() <-chan struct{} { return h.mb.Done() }
