package pg

import (
	"cex-spot/biz/model"

	"gorm.io/gorm"
)

// CreateTransaction 追加成交记录
func CreateTransaction(db *gorm.DB, tr *model.Transaction) error {
	return db.Create(tr).Error
}

// ListTransactions 查询成交历史，新成交在前
func ListTransactions(db *gorm.DB, ticker string, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	q := db.Model(&model.Transaction{})
	if ticker != "" {
		q = q.Where("ticker = ?", ticker)
	}
	err := q.Order("timestamp desc").Limit(limit).Find(&txs).Error
	return txs, err
}
