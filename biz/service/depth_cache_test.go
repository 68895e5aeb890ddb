package service

import (
	"testing"

	"github.com/huandu/skiplist"
	"github.com/stretchr/testify/assert"
)

func TestDepthSnapshotOrdering(t *testing.T) {
	b := &depthBook{
		bids: skiplist.New(priceDescComparator{}),
		asks: skiplist.New(priceAscComparator{}),
	}
	for _, lv := range []PriceLevel{{100, 5}, {102, 1}, {98, 7}} {
		b.bids.Set(lv.Price, lv.Qty)
	}
	for _, lv := range []PriceLevel{{105, 2}, {103, 4}, {110, 9}} {
		b.asks.Set(lv.Price, lv.Qty)
	}

	snap := b.snapshot("BTC", 25)
	assert.Equal(t, "BTC", snap.Ticker)
	// 买档价高在前
	assert.Equal(t, []PriceLevel{{102, 1}, {100, 5}, {98, 7}}, snap.Bids)
	// 卖档价低在前
	assert.Equal(t, []PriceLevel{{103, 4}, {105, 2}, {110, 9}}, snap.Asks)
}

func TestDepthSnapshotLimit(t *testing.T) {
	b := &depthBook{
		bids: skiplist.New(priceDescComparator{}),
		asks: skiplist.New(priceAscComparator{}),
	}
	for p := int64(1); p <= 30; p++ {
		b.bids.Set(p, int64(1))
	}
	snap := b.snapshot("BTC", 3)
	assert.Equal(t, []PriceLevel{{30, 1}, {29, 1}, {28, 1}}, snap.Bids)
	assert.Empty(t, snap.Asks)
}

func TestCachedDepthUnknownTicker(t *testing.T) {
	_, ok := CachedDepth("NEVERSEEN", 10)
	assert.False(t, ok)
}
