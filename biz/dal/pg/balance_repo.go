package pg

import (
	"cex-spot/biz/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureBalanceRow 惰性建行：INSERT ... ON CONFLICT DO NOTHING
// 并发安全，绝不走先查后插
func EnsureBalanceRow(db *gorm.DB, userID, ticker string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "ticker"}},
		DoNothing: true,
	}).Create(&model.Balance{UserID: userID, Ticker: ticker, Amount: 0}).Error
}

// LockBalance 行锁读取余额，必须在事务内调用
func LockBalance(tx *gorm.DB, userID, ticker string) (*model.Balance, error) {
	var b model.Balance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBalance 只读查询，行不存在按 0 处理
func GetBalance(db *gorm.DB, userID, ticker string) (int64, error) {
	var b model.Balance
	err := db.Where("user_id = ? AND ticker = ?", userID, ticker).First(&b).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return b.Amount, nil
}

// ListBalancesByUser 用户全部余额
func ListBalancesByUser(db *gorm.DB, userID string) ([]model.Balance, error) {
	var rows []model.Balance
	err := db.Where("user_id = ?", userID).Order("ticker asc").Find(&rows).Error
	return rows, err
}

// UpdateBalanceAmount 回写余额，只允许在持有行锁的事务内调用
func UpdateBalanceAmount(tx *gorm.DB, b *model.Balance) error {
	return tx.Model(&model.Balance{}).
		Where("id = ?", b.ID).
		Update("amount", b.Amount).Error
}
