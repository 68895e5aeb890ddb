package handler

import (
	"context"
	"strconv"

	"cex-spot/biz/service"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// ListInstruments GET /api/v1/public/instrument
func ListInstruments(ctx context.Context, c *app.RequestContext) {
	instruments, err := service.ListInstruments(ctx)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, instruments)
}

// GetOrderbook GET /api/v1/public/orderbook/:ticker?limit=N
// 优先读撮合后刷新的跳表快照，没有快照时回源数据库聚合
func GetOrderbook(ctx context.Context, c *app.RequestContext) {
	ticker := c.Param("ticker")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if snap, ok := service.CachedDepth(ticker, limit); ok {
		c.JSON(consts.StatusOK, map[string]interface{}{
			"bid_levels": snap.Bids,
			"ask_levels": snap.Asks,
		})
		return
	}
	bids, asks, err := service.Depth(ctx, ticker, limit)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"bid_levels": bids,
		"ask_levels": asks,
	})
}

// GetTransactions GET /api/v1/public/transactions/:ticker?limit=N
func GetTransactions(ctx context.Context, c *app.RequestContext) {
	ticker := c.Param("ticker")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	trades, err := service.GetTradeHistory(ctx, ticker, limit)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, trades)
}
