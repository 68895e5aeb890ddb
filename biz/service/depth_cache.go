package service

import (
	"context"
	"sync"

	"github.com/huandu/skiplist"
)

// 深度读模型：每个 ticker 维护买卖两个跳表，价位 -> 剩余挂单量
// 撮合提交后整体重建（档位不超过 MaxDepthLimit，重建很便宜），
// 行情接口和 ws 推送读这里，不用每次都打数据库

type DepthSnapshot struct {
	Ticker string       `json:"ticker"`
	Bids   []PriceLevel `json:"bid_levels"`
	Asks   []PriceLevel `json:"ask_levels"`
}

type depthBook struct {
	mu   sync.RWMutex
	bids *skiplist.SkipList // 价格降序
	asks *skiplist.SkipList // 价格升序
}

var (
	depthBooksMu sync.RWMutex
	depthBooks   = make(map[string]*depthBook)
)

func getDepthBook(ticker string) *depthBook {
	depthBooksMu.RLock()
	b, ok := depthBooks[ticker]
	depthBooksMu.RUnlock()
	if ok {
		return b
	}
	depthBooksMu.Lock()
	defer depthBooksMu.Unlock()
	if b, ok = depthBooks[ticker]; ok {
		return b
	}
	b = &depthBook{
		bids: skiplist.New(priceDescComparator{}),
		asks: skiplist.New(priceAscComparator{}),
	}
	depthBooks[ticker] = b
	return b
}

// RefreshDepth 从数据库重建指定 ticker 的深度跳表并返回快照
func RefreshDepth(ctx context.Context, ticker string) (DepthSnapshot, error) {
	bids, asks, err := Depth(ctx, ticker, MaxDepthLimit)
	if err != nil {
		return DepthSnapshot{}, err
	}
	b := getDepthBook(ticker)
	b.mu.Lock()
	b.bids.Init()
	b.asks.Init()
	for _, lv := range bids {
		b.bids.Set(lv.Price, lv.Qty)
	}
	for _, lv := range asks {
		b.asks.Set(lv.Price, lv.Qty)
	}
	b.mu.Unlock()
	return b.snapshot(ticker, MaxDepthLimit), nil
}

// CachedDepth 跳表快照；该 ticker 还没撮合过时返回 false，调用方回源 SQL
func CachedDepth(ticker string, limit int) (DepthSnapshot, bool) {
	depthBooksMu.RLock()
	b, ok := depthBooks[ticker]
	depthBooksMu.RUnlock()
	if !ok {
		return DepthSnapshot{}, false
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxDepthLimit {
		limit = MaxDepthLimit
	}
	return b.snapshot(ticker, limit), true
}

func (b *depthBook) snapshot(ticker string, limit int) DepthSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap := DepthSnapshot{
		Ticker: ticker,
		Bids:   make([]PriceLevel, 0, limit),
		Asks:   make([]PriceLevel, 0, limit),
	}
	for elem := b.bids.Front(); elem != nil && len(snap.Bids) < limit; elem = elem.Next() {
		snap.Bids = append(snap.Bids, PriceLevel{Price: elem.Key().(int64), Qty: elem.Value.(int64)})
	}
	for elem := b.asks.Front(); elem != nil && len(snap.Asks) < limit; elem = elem.Next() {
		snap.Asks = append(snap.Asks, PriceLevel{Price: elem.Key().(int64), Qty: elem.Value.(int64)})
	}
	return snap
}

// 跳表价格比较器，实现 skiplist.Comparable 接口
type priceDescComparator struct{}

func (priceDescComparator) Compare(l, r interface{}) int {
	lv, rv := l.(int64), r.(int64)
	if lv > rv {
		return -1 // 买档：价格高优先
	} else if lv < rv {
		return 1
	}
	return 0
}
func (priceDescComparator) CalcScore(key interface{}) float64 {
	return -float64(key.(int64))
}

type priceAscComparator struct{}

func (priceAscComparator) Compare(l, r interface{}) int {
	lv, rv := l.(int64), r.(int64)
	if lv < rv {
		return -1 // 卖档：价格低优先
	} else if lv > rv {
		return 1
	}
	return 0
}
func (priceAscComparator) CalcScore(key interface{}) float64 {
	return float64(key.(int64))
}
