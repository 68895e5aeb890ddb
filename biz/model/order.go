package model

const (
	DirectionBuy  = "BUY"
	DirectionSell = "SELL"

	KindLimit  = "LIMIT"
	KindMarket = "MARKET"

	StatusNew               = "NEW"
	StatusPartiallyExecuted = "PARTIALLY_EXECUTED"
	StatusExecuted          = "EXECUTED"
	StatusCancelled         = "CANCELLED"
)

// Order 订单模型（GORM）
// 限价/市价共用一张表，用 Kind 区分；市价单 Price 恒为 0
// created_at 取纳秒，价格相同时按时间先后撮合
type Order struct {
	OrderID   string `gorm:"primaryKey;column:order_id" json:"order_id"`
	UserID    string `gorm:"column:user_id;index" json:"user_id"`
	Ticker    string `gorm:"column:ticker;size:10;index:idx_book,priority:1" json:"ticker"`
	Direction string `gorm:"column:direction;size:4;index:idx_book,priority:2" json:"direction"`
	Kind      string `gorm:"column:kind;size:6" json:"kind"`
	Price     int64  `gorm:"column:price;index:idx_book,priority:4" json:"price,omitempty"`
	Qty       int64  `gorm:"column:qty;not null" json:"qty"`
	Filled    int64  `gorm:"column:filled;not null;default:0" json:"filled"`
	Status    string `gorm:"column:status;size:20;index:idx_book,priority:3" json:"status"`
	CreatedAt int64  `gorm:"column:created_at;index:idx_book,priority:5" json:"created_at"`
	UpdatedAt int64  `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) Remaining() int64 {
	return o.Qty - o.Filled
}

// IsActive 是否还挂在订单簿上
func (o *Order) IsActive() bool {
	return o.Status == StatusNew || o.Status == StatusPartiallyExecuted
}

// RecomputeStatus 按成交量重算状态，终态不再改变
func (o *Order) RecomputeStatus() {
	if o.Status == StatusCancelled {
		return
	}
	switch {
	case o.Filled >= o.Qty:
		o.Status = StatusExecuted
	case o.Filled > 0:
		o.Status = StatusPartiallyExecuted
	default:
		o.Status = StatusNew
	}
}

// Opposite 对手方向
func Opposite(direction string) string {
	if direction == DirectionBuy {
		return DirectionSell
	}
	return DirectionBuy
}
