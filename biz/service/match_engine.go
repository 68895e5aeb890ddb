package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/engine"
	"cex-spot/biz/model"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 撮合引擎。每次 Match 在调用方 goroutine 同步跑完，不走进程内队列；
// 并发安全完全靠数据库行锁：每一轮撮合是一个独立短事务，
// 锁住进入单、最优对手单和四条余额行，提交即释放，绝不跨轮持锁。

const maxTxRetries = 3

type MatchEngine struct {
	quote       string
	engineID    string
	broadcaster engine.Broadcaster
	unicaster   engine.Unicaster
}

func NewMatchEngine(quote, engineID string, broadcaster engine.Broadcaster, unicaster engine.Unicaster) *MatchEngine {
	if broadcaster == nil {
		broadcaster = func(string, []byte) {}
	}
	if unicaster == nil {
		unicaster = func(string, []byte) {}
	}
	return &MatchEngine{
		quote:       quote,
		engineID:    engineID,
		broadcaster: broadcaster,
		unicaster:   unicaster,
	}
}

func (m *MatchEngine) Quote() string { return m.quote }

// Match 吃单主循环：每轮一个事务，直到吃满、盘口吃空或订单被取消
// 返回本次产生的全部成交；空切片表示一笔都没成交
func (m *MatchEngine) Match(ctx context.Context, order *model.Order) ([]model.Transaction, error) {
	ok, err := m.precheck(ctx, order)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 提交时资金就不够，整单拒绝，不会留下任何半截状态
		if err := m.cancelOrderRow(ctx, order); err != nil {
			return nil, err
		}
		hlog.Infof("订单资金预检不通过，已拒绝, order_id=%s, user_id=%s", order.OrderID, order.UserID)
		return []model.Transaction{}, nil
	}

	txs := make([]model.Transaction, 0, 4)
	retries := 0
	for {
		step, err := m.matchStep(ctx, order)
		if err != nil {
			if isRetryableTxErr(err) && retries < maxTxRetries {
				retries++
				hlog.Warnf("撮合事务冲突重试, order_id=%s, attempt=%d, err=%v", order.OrderID, retries, err)
				continue
			}
			return txs, err
		}
		retries = 0
		if step.cancelledCounter != nil {
			zap.L().Warn("counter order cancelled on stale funds",
				zap.String("order_id", step.cancelledCounter.OrderID),
				zap.String("ticker", order.Ticker))
		}
		if step.trade != nil {
			txs = append(txs, *step.trade)
			m.publishTrade(step.trade, order, step.counter)
		}
		if step.done {
			break
		}
	}

	m.PublishDepth(ctx, order.Ticker)
	return txs, nil
}

// precheck 提交时的快速资金检查，终审在每轮 settleTx 的加锁复核里
func (m *MatchEngine) precheck(ctx context.Context, order *model.Order) (bool, error) {
	if order.Direction == model.DirectionSell {
		return HasSufficient(ctx, order.UserID, order.Ticker, order.Qty)
	}
	if order.Kind == model.KindLimit {
		return HasSufficient(ctx, order.UserID, m.quote, order.Qty*order.Price)
	}
	// 市价买单成交价未知，按当前盘口可吃部分估算
	cost, fillable, err := estimateMarketBuyCost(ctx, order)
	if err != nil {
		return false, err
	}
	if fillable == 0 {
		return true, nil // 盘口为空，交给主循环按零成交撤单
	}
	return HasSufficient(ctx, order.UserID, m.quote, cost)
}

type stepResult struct {
	trade            *model.Transaction
	counter          *model.Order
	cancelledCounter *model.Order
	done             bool
}

// matchStep 单轮撮合事务：
// 锁进入单 -> 选最优对手单（带锁）-> 加锁结算 -> 记成交 -> 回写双方
func (m *MatchEngine) matchStep(ctx context.Context, order *model.Order) (stepResult, error) {
	var res stepResult
	err := pg.GormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := pg.LockOrderByID(tx, order.OrderID)
		if err != nil {
			return err
		}
		// 并发取消抢先一步，认输退出
		if !cur.IsActive() || cur.Remaining() <= 0 {
			*order = *cur
			res.done = true
			return nil
		}

		counter, err := pg.BestCounterOrder(tx, cur)
		if err != nil {
			return err
		}
		if counter == nil {
			// 盘口吃空：限价单留在簿上，零成交的市价单没有可挂的价格，直接撤销
			if cur.Kind == model.KindMarket && cur.Filled == 0 {
				cur.Status = model.StatusCancelled
				cur.UpdatedAt = time.Now().UnixMilli()
				if err := pg.SaveOrder(tx, cur); err != nil {
					return err
				}
			}
			*order = *cur
			res.done = true
			return nil
		}

		matchQty := cur.Remaining()
		if r := counter.Remaining(); r < matchQty {
			matchQty = r
		}
		// 执行价永远取簿上挂单的价格，进入单不抬价
		matchPrice := counter.Price

		buyerID, sellerID := cur.UserID, counter.UserID
		if cur.Direction == model.DirectionSell {
			buyerID, sellerID = counter.UserID, cur.UserID
		}

		if err := settleTx(tx, buyerID, sellerID, cur.Ticker, matchQty, matchPrice, m.quote); err != nil {
			if errors.Is(err, ErrInsufficientFunds) {
				// 挂单方资金在挂单后被动过，该对手单已失效：撤掉它，
				// 本轮不消耗进入单数量，下一轮继续找别的对手
				counter.Status = model.StatusCancelled
				counter.UpdatedAt = time.Now().UnixMilli()
				if err := pg.SaveOrder(tx, counter); err != nil {
					return err
				}
				res.cancelledCounter = counter
				*order = *cur
				return nil
			}
			return err
		}

		now := time.Now().UnixMilli()
		tr := &model.Transaction{
			TxID:      uuid.NewString(),
			Ticker:    cur.Ticker,
			Amount:    matchQty,
			Price:     matchPrice,
			BuyerID:   buyerID,
			SellerID:  sellerID,
			Timestamp: now,
			EngineID:  m.engineID,
		}
		if err := pg.CreateTransaction(tx, tr); err != nil {
			return err
		}

		cur.Filled += matchQty
		cur.RecomputeStatus()
		cur.UpdatedAt = now
		counter.Filled += matchQty
		counter.RecomputeStatus()
		counter.UpdatedAt = now
		if err := pg.SaveOrder(tx, cur); err != nil {
			return err
		}
		if err := pg.SaveOrder(tx, counter); err != nil {
			return err
		}

		res.trade = tr
		res.counter = counter
		res.done = cur.Remaining() <= 0
		*order = *cur
		return nil
	})
	return res, err
}

// cancelOrderRow 预检失败时的整单拒绝
func (m *MatchEngine) cancelOrderRow(ctx context.Context, order *model.Order) error {
	return pg.GormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := pg.LockOrderByID(tx, order.OrderID)
		if err != nil {
			return err
		}
		cur.Status = model.StatusCancelled
		cur.UpdatedAt = time.Now().UnixMilli()
		if err := pg.SaveOrder(tx, cur); err != nil {
			return err
		}
		*order = *cur
		return nil
	})
}

// publishTrade 成交落库后的异步回报：kafka、redis 缓存、ws 广播/单播
func (m *MatchEngine) publishTrade(tr *model.Transaction, taker, maker *model.Order) {
	SaveTransactionAsync(*tr)
	CacheTrade(tr.Ticker, *tr, 100)

	zap.L().Info("trade settled",
		zap.String("tx_id", tr.TxID),
		zap.String("ticker", tr.Ticker),
		zap.Int64("amount", tr.Amount),
		zap.Int64("price", tr.Price),
		zap.String("buyer", tr.BuyerID),
		zap.String("seller", tr.SellerID),
		zap.String("engine_id", tr.EngineID))

	msg, err := marshalPush("trade", tr.Ticker, tr)
	if err != nil {
		return
	}
	submit := func(f func()) {
		if engine.BroadcastPool != nil {
			_ = engine.BroadcastPool.Submit(f)
		} else {
			f()
		}
	}
	submit(func() { m.broadcaster(tr.Ticker, msg) })
	submit(func() { m.unicaster(tr.BuyerID, msg) })
	if tr.SellerID != tr.BuyerID {
		submit(func() { m.unicaster(tr.SellerID, msg) })
	}
}

// PublishDepth 刷新深度读模型并广播快照
// 撮合结束后调用；撤单、下架等簿外变更也要调，否则缓存会带着死挂单
func (m *MatchEngine) PublishDepth(ctx context.Context, ticker string) {
	snap, err := RefreshDepth(ctx, ticker)
	if err != nil {
		hlog.Errorf("刷新深度失败, ticker=%s, err=%v", ticker, err)
		return
	}
	msg, err := marshalPush("depth_update", ticker, snap)
	if err != nil {
		return
	}
	if engine.BroadcastPool != nil {
		_ = engine.BroadcastPool.Submit(func() { m.broadcaster(ticker, msg) })
	} else {
		m.broadcaster(ticker, msg)
	}
}

// marshalPush 组装 ws 推送消息，编码缓冲走池子复用
func marshalPush(msgType, ticker string, data interface{}) ([]byte, error) {
	buf := engine.BufferPool.Get().(*bytes.Buffer)
	defer engine.BufferPool.Put(buf)
	buf.Reset()
	if err := json.NewEncoder(buf).Encode(map[string]interface{}{
		"type":   msgType,
		"ticker": ticker,
		"data":   data,
	}); err != nil {
		return nil, err
	}
	msg := make([]byte, buf.Len())
	copy(msg, buf.Bytes())
	return msg, nil
}

// isRetryableTxErr 死锁/串行化冲突可整轮重试
func isRetryableTxErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40P01" || pgErr.Code == "40001"
	}
	return false
}

var _ engine.Matcher = (*MatchEngine)(nil)
