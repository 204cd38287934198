// File: market/buyer_test.go
package market

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguibr/bazaar/actor"
	"github.com/lguibr/bazaar/utils"
)

// --- Scripted Vendor ---

// scriptedVendor stands in for a seller so the failure paths of the
// purchase protocol can be forced deterministically.
type scriptedVendor struct {
	price    Gold
	quoteErr error
	item     Item
	sellErr  error
}

func (v *scriptedVendor) CheckPrice(ctx context.Context, itemID ItemID) (Gold, error) {
	return v.price, v.quoteErr
}

func (v *scriptedVendor) BuyItem(ctx context.Context, itemID ItemID, payment Gold) (Item, error) {
	if v.sellErr != nil {
		return Item{}, v.sellErr
	}
	return v.item, nil
}

func newBuyer(t *testing.T, gold Gold, items ...Item) BuyerHandle {
	t.Helper()
	h := SpawnBuyer(utils.DefaultConfig(), &Sequence{}, nil, gold, items...)
	t.Cleanup(h.Close)
	return h
}

// --- Purchase Protocol Tests ---

func TestBuyerPurchaseMovesItemAndGold(t *testing.T) {
	ids := &Sequence{}
	sword := NewItem(ids, "Sword", 100)
	seller := newSeller(t, sword)
	buyer := newBuyer(t, 1000)
	ctx := context.Background()

	item, err := buyer.Buy(ctx, seller, sword.ID)
	require.NoError(t, err)
	assert.Equal(t, sword, item)

	info, err := buyer.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Gold(900), info.Gold)
	assert.ElementsMatch(t, []Item{sword}, info.Items)

	stock, err := seller.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, stock)
}

func TestBuyerNotEnoughGold(t *testing.T) {
	ids := &Sequence{}
	sword := NewItem(ids, "Sword", 100)
	seller := newSeller(t, sword)
	buyer := newBuyer(t, 50)
	ctx := context.Background()

	_, err := buyer.Buy(ctx, seller, sword.ID)
	var short *NotEnoughGoldError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, Gold(50), short.Available)
	assert.Equal(t, Gold(100), short.Price)

	info, err := buyer.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Gold(50), info.Gold)
	assert.Empty(t, info.Items)

	stock, err := seller.ListItems(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Item{sword}, stock)
}

func TestBuyerUnknownItemLeavesBothSidesUntouched(t *testing.T) {
	ids := &Sequence{}
	sword := NewItem(ids, "Sword", 100)
	seller := newSeller(t, sword)
	buyer := newBuyer(t, 1000)
	ctx := context.Background()

	_, err := buyer.Buy(ctx, seller, ItemID("Item#999"))
	assert.ErrorIs(t, err, ErrItemNotAvailable)

	info, err := buyer.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Gold(1000), info.Gold)
	assert.Empty(t, info.Items)

	stock, err := seller.ListItems(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Item{sword}, stock)
}

func TestBuyerCompensatesWhenSaleFallsThrough(t *testing.T) {
	// The vendor quotes happily, then reports the item gone at commit
	// time, as happens when another buyer races ahead.
	vendor := &scriptedVendor{price: 100, sellErr: ErrItemNotAvailable}
	buyer := newBuyer(t, 1000)
	ctx := context.Background()

	_, err := buyer.Buy(ctx, vendor, ItemID("Item#1"))
	assert.ErrorIs(t, err, ErrItemNotAvailable)

	info, err := buyer.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Gold(1000), info.Gold, "debit must be credited back in full")
	assert.Empty(t, info.Items)
}

func TestBuyerCompensatesWhenVendorStopsReplying(t *testing.T) {
	vendor := &scriptedVendor{price: 100, sellErr: actor.ErrNoResponse}
	buyer := newBuyer(t, 1000)
	ctx := context.Background()

	_, err := buyer.Buy(ctx, vendor, ItemID("Item#1"))
	assert.ErrorIs(t, err, ErrItemNotAvailable)

	info, err := buyer.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Gold(1000), info.Gold)
}

func TestBuyerTreatsDisconnectedSellerAsUnavailable(t *testing.T) {
	ids := &Sequence{}
	sword := NewItem(ids, "Sword", 100)
	seller := SpawnSeller(utils.DefaultConfig(), ids, nil, sword)
	seller.Close()
	<-seller.Done()

	buyer := newBuyer(t, 1000)
	ctx := context.Background()

	_, err := buyer.Buy(ctx, seller, sword.ID)
	assert.ErrorIs(t, err, ErrItemNotAvailable)

	info, err := buyer.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Gold(1000), info.Gold)
}

func TestReceiveGoldCreditsBalance(t *testing.T) {
	buyer := newBuyer(t, 50)
	ctx := context.Background()

	require.NoError(t, buyer.ReceiveGold(ctx, 200))

	// Info is queued behind the credit on the same handle, so the
	// snapshot is guaranteed to see it.
	info, err := buyer.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, Gold(250), info.Gold)
}

func TestClosedBuyerReportsDisconnected(t *testing.T) {
	buyer := SpawnBuyer(utils.DefaultConfig(), &Sequence{}, nil, 100)
	buyer.Close()
	<-buyer.Done()
	ctx := context.Background()

	_, err := buyer.Info(ctx)
	assert.ErrorIs(t, err, actor.ErrDisconnected)
	assert.ErrorIs(t, buyer.ReceiveGold(ctx, 1), actor.ErrDisconnected)
	_, err = buyer.Buy(ctx, &scriptedVendor{price: 1}, ItemID("Item#1"))
	assert.ErrorIs(t, err, actor.ErrDisconnected)
}

func TestConcurrentBuyersExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	for round := 0; round < 10; round++ {
		ids := &Sequence{}
		sword := NewItem(ids, "Sword", 100)
		seller := newSeller(t, sword)
		a := newBuyer(t, 1000)
		b := newBuyer(t, 1000)

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for _, buyer := range []BuyerHandle{a, b} {
			wg.Add(1)
			go func(buyer BuyerHandle) {
				defer wg.Done()
				_, err := buyer.Buy(ctx, seller, sword.ID)
				errs <- err
			}(buyer)
		}
		wg.Wait()
		close(errs)

		wins, losses := 0, 0
		for err := range errs {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, ErrItemNotAvailable)
				losses++
			}
		}
		require.Equal(t, 1, wins, "round %d: the item must have exactly one buyer", round)
		require.Equal(t, 1, losses, "round %d", round)

		for _, buyer := range []BuyerHandle{a, b} {
			info, err := buyer.Info(ctx)
			require.NoError(t, err)
			if len(info.Items) == 1 {
				assert.Equal(t, Gold(900), info.Gold)
			} else {
				assert.Equal(t, Gold(1000), info.Gold, "round %d: the loser's balance must be untouched", round)
			}
		}
	}
}

func TestBuyerBalanceInvariantUnderContention(t *testing.T) {
	ctx := context.Background()
	ids := &Sequence{}
	cfg := utils.DefaultConfig()

	var catalog []Item
	for i := 0; i < 10; i++ {
		catalog = append(catalog, NewItem(ids, fmt.Sprintf("Relic %d", i), Gold(50+10*i)))
	}
	seller := SpawnSeller(cfg, ids, nil, catalog...)
	t.Cleanup(seller.Close)

	const initial = Gold(1000)
	var buyers []BuyerHandle
	for i := 0; i < 5; i++ {
		buyers = append(buyers, newBuyer(t, initial))
	}

	// Every buyer tries to buy every item; the seller's mailbox decides
	// the winners.
	var wg sync.WaitGroup
	for _, buyer := range buyers {
		wg.Add(1)
		go func(buyer BuyerHandle) {
			defer wg.Done()
			for _, item := range catalog {
				_, _ = buyer.Buy(ctx, seller, item.ID)
			}
		}(buyer)
	}
	wg.Wait()

	owners := make(map[ItemID]BuyerID)
	for _, buyer := range buyers {
		info, err := buyer.Info(ctx)
		require.NoError(t, err)

		// Balance decreases by exactly the prices paid for items won.
		var paid Gold
		for _, item := range info.Items {
			paid = paid.Add(item.Price)
			_, taken := owners[item.ID]
			require.False(t, taken, "item %s owned by two buyers", item)
			owners[item.ID] = buyer.ID()
		}
		spent, err := initial.Sub(info.Gold)
		require.NoError(t, err, "balance can never exceed its starting point here")
		assert.Equal(t, paid, spent)
	}

	// Unsold stock plus everything owned accounts for the full catalog.
	stock, err := seller.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, owners, len(catalog)-len(stock))
}
