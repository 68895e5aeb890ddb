package pg

import (
	"cex-spot/biz/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOrder 插入订单
func CreateOrder(db *gorm.DB, order *model.Order) error {
	return db.Create(order).Error
}

// GetOrderByID 查询单个订单
func GetOrderByID(db *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	err := db.Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LockOrderByID 行锁读取订单，必须在事务内调用
func LockOrderByID(tx *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SaveOrder 回写成交量与状态
func SaveOrder(db *gorm.DB, order *model.Order) error {
	return db.Model(&model.Order{}).
		Where("order_id = ?", order.OrderID).
		Updates(map[string]interface{}{
			"filled":     order.Filled,
			"status":     order.Status,
			"updated_at": order.UpdatedAt,
		}).Error
}

// ListOrdersByUser 查询用户全部订单，新单在前
func ListOrdersByUser(db *gorm.DB, userID string) ([]model.Order, error) {
	var orders []model.Order
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// HasActiveOrders 该标的是否还有挂单
func HasActiveOrders(db *gorm.DB, ticker string) (bool, error) {
	var count int64
	err := db.Model(&model.Order{}).
		Where("ticker = ? AND status IN ?", ticker,
			[]string{model.StatusNew, model.StatusPartiallyExecuted}).
		Count(&count).Error
	return count > 0, err
}

// BestCounterOrder 选出对手方向最优限价单并加行锁
// BUY 进来找最便宜的卖单，SELL 进来找出价最高的买单，价格相同先到先得
// 自成交防护：排除同一用户
func BestCounterOrder(tx *gorm.DB, incoming *model.Order) (*model.Order, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ticker = ?", incoming.Ticker).
		Where("direction = ?", model.Opposite(incoming.Direction)).
		Where("kind = ?", model.KindLimit).
		Where("status IN ?", []string{model.StatusNew, model.StatusPartiallyExecuted}).
		Where("user_id <> ?", incoming.UserID)

	if incoming.Direction == model.DirectionBuy {
		if incoming.Kind == model.KindLimit {
			q = q.Where("price <= ?", incoming.Price)
		}
		q = q.Order("price asc, created_at asc")
	} else {
		if incoming.Kind == model.KindLimit {
			q = q.Where("price >= ?", incoming.Price)
		}
		q = q.Order("price desc, created_at asc")
	}

	var counter model.Order
	err := q.First(&counter).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

// ListCounterOrders 按撮合顺序读出全部对手挂单（只读，市价单预检用）
func ListCounterOrders(db *gorm.DB, incoming *model.Order) ([]model.Order, error) {
	q := db.Where("ticker = ?", incoming.Ticker).
		Where("direction = ?", model.Opposite(incoming.Direction)).
		Where("kind = ?", model.KindLimit).
		Where("status IN ?", []string{model.StatusNew, model.StatusPartiallyExecuted}).
		Where("user_id <> ?", incoming.UserID)
	if incoming.Direction == model.DirectionBuy {
		q = q.Order("price asc, created_at asc")
	} else {
		q = q.Order("price desc, created_at asc")
	}
	var orders []model.Order
	err := q.Find(&orders).Error
	return orders, err
}
