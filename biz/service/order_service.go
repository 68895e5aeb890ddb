package service

import (
	"context"
	"fmt"
	"time"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/dal/redis"
	"cex-spot/biz/engine"
	"cex-spot/biz/model"
	"cex-spot/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService 下单/撤单入口，校验后把订单落库再交给撮合引擎同步吃单
type OrderService struct {
	matcher engine.Matcher
	quote   string
}

func NewOrderService(matcher engine.Matcher, quote string) *OrderService {
	return &OrderService{matcher: matcher, quote: quote}
}

// SubmitLimitOrder 提交限价单并同步撮合，返回落库后的订单和本次成交
func (s *OrderService) SubmitLimitOrder(ctx context.Context, userID, ticker, direction string, qty, price int64) (*model.Order, []model.Transaction, error) {
	if price < 1 {
		return nil, nil, fmt.Errorf("%w: price must be >= 1", ErrValidation)
	}
	return s.submit(ctx, userID, ticker, direction, model.KindLimit, qty, price)
}

// SubmitMarketOrder 提交市价单并同步撮合；盘口为空时订单以零成交撤销
func (s *OrderService) SubmitMarketOrder(ctx context.Context, userID, ticker, direction string, qty int64) (*model.Order, []model.Transaction, error) {
	return s.submit(ctx, userID, ticker, direction, model.KindMarket, qty, 0)
}

func (s *OrderService) submit(ctx context.Context, userID, ticker, direction, kind string, qty, price int64) (*model.Order, []model.Transaction, error) {
	if direction != model.DirectionBuy && direction != model.DirectionSell {
		return nil, nil, fmt.Errorf("%w: direction must be BUY or SELL", ErrValidation)
	}
	if qty < 1 {
		return nil, nil, fmt.Errorf("%w: qty must be >= 1", ErrValidation)
	}
	if !util.ValidTicker(ticker) {
		return nil, nil, fmt.Errorf("%w: bad ticker %q", ErrValidation, ticker)
	}
	if ticker == s.quote {
		return nil, nil, fmt.Errorf("%w: cannot trade the quote currency against itself", ErrValidation)
	}
	if _, err := pg.GetInstrument(pg.GormDB.WithContext(ctx), ticker); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: instrument %s", ErrNotFound, ticker)
		}
		return nil, nil, err
	}

	order := &model.Order{
		OrderID:   uuid.NewString(),
		UserID:    userID,
		Ticker:    ticker,
		Direction: direction,
		Kind:      kind,
		Price:     price,
		Qty:       qty,
		Status:    model.StatusNew,
		CreatedAt: time.Now().UnixNano(),
		UpdatedAt: time.Now().UnixMilli(),
	}
	if err := pg.CreateOrder(pg.GormDB.WithContext(ctx), order); err != nil {
		return nil, nil, err
	}
	cacheUserActiveOrder(order.UserID, order.OrderID)

	txs, err := s.matcher.Match(ctx, order)
	if err != nil {
		return order, txs, err
	}
	if !order.IsActive() {
		removeUserActiveOrder(order.UserID, order.OrderID)
	}
	return order, txs, nil
}

// CancelOrder 撤单：只改状态、不动资金，已成交部分保持不变
// 终态订单不可撤，非本人订单不可撤
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	var out *model.Order
	err := pg.GormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := pg.LockOrderByID(tx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
			}
			return err
		}
		if cur.UserID != userID {
			return fmt.Errorf("%w: order belongs to another user", ErrUnauthorized)
		}
		if !cur.IsActive() {
			return fmt.Errorf("%w: order already %s", ErrInvalidState, cur.Status)
		}
		cur.Status = model.StatusCancelled
		cur.UpdatedAt = time.Now().UnixMilli()
		if err := pg.SaveOrder(tx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	removeUserActiveOrder(userID, orderID)
	// 撤单改变了簿上挂量，立刻刷新深度，不等下一次撮合
	s.matcher.PublishDepth(ctx, out.Ticker)
	return out, nil
}

// GetOrder 查单，只允许本人
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := pg.GetOrderByID(pg.GormDB.WithContext(ctx), orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order belongs to another user", ErrUnauthorized)
	}
	return order, nil
}

// ListOrders 本人全部订单，含终态
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	return pg.ListOrdersByUser(pg.GormDB.WithContext(ctx), userID)
}

// 缓存用户活跃订单ID到 Redis
func cacheUserActiveOrder(userID, orderID string) {
	if redis.Client == nil || userID == "" || orderID == "" {
		return
	}
	ctx := context.Background()
	key := "user:active_orders:" + userID
	redis.Client.SAdd(ctx, key, orderID)
}

func removeUserActiveOrder(userID, orderID string) {
	if redis.Client == nil || userID == "" || orderID == "" {
		return
	}
	ctx := context.Background()
	key := "user:active_orders:" + userID
	redis.Client.SRem(ctx, key, orderID)
}
