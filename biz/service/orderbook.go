package service

import (
	"context"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/model"
)

// 订单簿查询面。撮合用的最优对手单在 pg.BestCounterOrder（带行锁），
// 这里是只读深度聚合，直接跑 pgx 原生 SQL。

// MaxDepthLimit 深度档位上限
const MaxDepthLimit = 25

type PriceLevel struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

func depthSide(ctx context.Context, ticker, direction, sortOrder string, limit int) ([]PriceLevel, error) {
	q := `
SELECT price, SUM(qty - filled) AS qty
FROM orders
WHERE ticker = $1 AND direction = $2 AND kind = 'LIMIT'
  AND status IN ('NEW', 'PARTIALLY_EXECUTED')
GROUP BY price
ORDER BY price ` + sortOrder + `
LIMIT $3`
	rows, err := pg.GetPool().Query(ctx, q, ticker, direction, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make([]PriceLevel, 0, limit)
	for rows.Next() {
		var lv PriceLevel
		if err := rows.Scan(&lv.Price, &lv.Qty); err != nil {
			return nil, err
		}
		levels = append(levels, lv)
	}
	return levels, rows.Err()
}

// Depth 按价位聚合剩余挂单量，买档价高在前、卖档价低在前
func Depth(ctx context.Context, ticker string, limit int) (bids, asks []PriceLevel, err error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxDepthLimit {
		limit = MaxDepthLimit
	}
	bids, err = depthSide(ctx, ticker, model.DirectionBuy, "DESC", limit)
	if err != nil {
		return nil, nil, err
	}
	asks, err = depthSide(ctx, ticker, model.DirectionSell, "ASC", limit)
	if err != nil {
		return nil, nil, err
	}
	return bids, asks, nil
}

// estimateMarketBuyCost 市价买单预检用：按当前卖盘从优到劣估算吃满 qty 的花费
// 盘口不够吃满时按可成交部分估算，执行价最终仍由撮合时的对手单决定
func estimateMarketBuyCost(ctx context.Context, order *model.Order) (cost int64, fillable int64, err error) {
	counters, err := pg.ListCounterOrders(pg.GormDB.WithContext(ctx), order)
	if err != nil {
		return 0, 0, err
	}
	remaining := order.Remaining()
	for _, c := range counters {
		if remaining <= 0 {
			break
		}
		take := c.Remaining()
		if take > remaining {
			take = remaining
		}
		cost += take * c.Price
		fillable += take
		remaining -= take
	}
	return cost, fillable, nil
}
