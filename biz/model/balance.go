package model

// Balance 用户持仓，(user_id, ticker) 唯一
// Amount 永远 >= 0，扣减前必须在事务内加锁复核
type Balance struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID string `gorm:"column:user_id;uniqueIndex:idx_user_ticker;not null" json:"user_id"`
	Ticker string `gorm:"column:ticker;size:10;uniqueIndex:idx_user_ticker;not null" json:"ticker"`
	Amount int64  `gorm:"column:amount;not null;default:0" json:"amount"`
}

func (Balance) TableName() string {
	return "balances"
}
