package service

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/pkg/metrics"
	"wallet_engine/internal/pkg/utils"
)

// defaultSalesProbeLimit bounds the recent-sales page used as a floor proxy.
const defaultSalesProbeLimit = 20

// floorPriceResolver resolves a collection floor in native units through the
// marketplace cascade: collection stats, then recent sales, then open sell
// offers. When every source is empty the floor is reported not_available --
// the resolver never fabricates a price and never substitutes zero.
type floorPriceResolver struct {
	indexer    port.IndexerGateway
	logger     port.Logger
	salesLimit int
}

// NewFloorPriceResolver creates the resolver. salesLimit bounds the sales and
// offers probes; values <= 0 fall back to the default page size.
func NewFloorPriceResolver(indexer port.IndexerGateway, l port.Logger, salesLimit int) port.FloorPriceResolver {
	if salesLimit <= 0 {
		salesLimit = defaultSalesProbeLimit
	}
	return &floorPriceResolver{
		indexer:    indexer,
		logger:     l,
		salesLimit: salesLimit,
	}
}

// ResolveFloor implements port.FloorPriceResolver.
func (r *floorPriceResolver) ResolveFloor(ctx context.Context, issuer string, taxon uint32) (decimal.Decimal, entity.FloorStatus) {
	key := entity.CollectionKey(issuer, taxon)

	floor, ok := resolveCascade(ctx, r.logger, "nft_floor", key, []cascadeStep{
		{name: "collection_stats", run: func(ctx context.Context) (decimal.Decimal, bool) {
			return r.statsFloor(ctx, issuer, taxon)
		}},
		{name: "recent_sales", run: func(ctx context.Context) (decimal.Decimal, bool) {
			return r.salesFloor(ctx, issuer, taxon)
		}},
		{name: "open_offers", run: func(ctx context.Context) (decimal.Decimal, bool) {
			return r.offersFloor(ctx, issuer, taxon)
		}},
	})
	if !ok {
		return decimal.Zero, entity.FloorNotAvailable
	}
	return floor, entity.FloorAvailable
}

// statsFloor takes the minimum strictly positive entry across every floor
// statistic the indexer tracks, open-market and private-sale alike, after
// normalizing both denomination shapes into native units.
func (r *floorPriceResolver) statsFloor(ctx context.Context, issuer string, taxon uint32) (decimal.Decimal, bool) {
	entries, err := r.indexer.CollectionStats(ctx, issuer, taxon)
	if err != nil {
		metrics.ObserveUpstreamFailure("indexer")
		r.logger.Warn("Collection stats lookup failed", "issuer", issuer, "taxon", taxon, "error", err)
		return decimal.Zero, false
	}
	return utils.MinPositiveAmount(entries)
}

// salesFloor uses the cheapest recent sale as a conservative floor proxy.
func (r *floorPriceResolver) salesFloor(ctx context.Context, issuer string, taxon uint32) (decimal.Decimal, bool) {
	sales, err := r.indexer.RecentSales(ctx, issuer, taxon, r.salesLimit)
	if err != nil {
		metrics.ObserveUpstreamFailure("indexer")
		r.logger.Warn("Recent sales lookup failed", "issuer", issuer, "taxon", taxon, "error", err)
		return decimal.Zero, false
	}
	return utils.MinPositiveAmount(sales)
}

// offersFloor takes the minimum active sell-offer amount.
func (r *floorPriceResolver) offersFloor(ctx context.Context, issuer string, taxon uint32) (decimal.Decimal, bool) {
	offers, err := r.indexer.OpenOffers(ctx, issuer, taxon, r.salesLimit)
	if err != nil {
		metrics.ObserveUpstreamFailure("indexer")
		r.logger.Warn("Open offers lookup failed", "issuer", issuer, "taxon", taxon, "error", err)
		return decimal.Zero, false
	}
	return utils.MinPositiveAmount(offers)
}
