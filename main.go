package main

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lguibr/bazaar/market"
	"github.com/lguibr/bazaar/utils"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := utils.DefaultConfig()
	ids := &market.Sequence{}

	sword := market.NewItem(ids, "Sword", 100)
	shield := market.NewItem(ids, "Shield", 150)
	axe := market.NewItem(ids, "Axe", 200)
	bow := market.NewItem(ids, "Bow", 250)

	buyer1 := market.SpawnBuyer(cfg, ids, logger, market.Gold(cfg.StartingGold))
	buyer2 := market.SpawnBuyer(cfg, ids, logger, market.Gold(cfg.StartingGold))
	pauper := market.SpawnBuyer(cfg, ids, logger, 50)

	armory := market.SpawnSeller(cfg, ids, logger, sword, shield)
	fletcher := market.SpawnSeller(cfg, ids, logger, axe, bow)

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)

	// The two cross purchases run concurrently, and both buyers also race
	// for the single shield.
	g.Go(func() error { buy(gctx, logger, buyer1, fletcher, bow.ID); return nil })
	g.Go(func() error { buy(gctx, logger, buyer2, armory, sword.ID); return nil })
	g.Go(func() error { buy(gctx, logger, buyer1, armory, shield.ID); return nil })
	g.Go(func() error { buy(gctx, logger, buyer2, armory, shield.ID); return nil })
	_ = g.Wait()

	// A buyer short on gold fails, gets paid, and succeeds on retry.
	buy(ctx, logger, pauper, fletcher, axe.ID)
	if err := pauper.ReceiveGold(ctx, 200); err != nil {
		logger.Error("payout failed", zap.Error(err))
	}
	buy(ctx, logger, pauper, fletcher, axe.ID)

	for _, buyer := range []market.BuyerHandle{buyer1, buyer2, pauper} {
		info, err := buyer.Info(ctx)
		if err != nil {
			logger.Error("info failed", zap.Stringer("buyer", buyer), zap.Error(err))
			continue
		}
		logger.Info("final state",
			zap.Stringer("buyer", buyer),
			zap.Stringer("gold", info.Gold),
			zap.Stringers("items", info.Items),
		)
	}

	for _, seller := range []market.SellerHandle{armory, fletcher} {
		seller.Close()
		<-seller.Done()
	}
	for _, buyer := range []market.BuyerHandle{buyer1, buyer2, pauper} {
		buyer.Close()
		<-buyer.Done()
	}
}

func buy(ctx context.Context, logger *zap.Logger, buyer market.BuyerHandle, seller market.SellerHandle, itemID market.ItemID) {
	item, err := buyer.Buy(ctx, seller, itemID)
	if err != nil {
		logger.Warn("purchase failed",
			zap.Stringer("buyer", buyer),
			zap.Stringer("seller", seller),
			zap.Stringer("item_id", itemID),
			zap.Error(err),
		)
		return
	}
	logger.Info("purchase complete",
		zap.Stringer("buyer", buyer),
		zap.Stringer("seller", seller),
		zap.Stringer("item", item),
	)
}
