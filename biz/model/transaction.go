package model

// Transaction 成交记录（GORM），只追加，落库后不再修改
type Transaction struct {
	TxID      string `gorm:"primaryKey;column:tx_id" json:"tx_id"`
	Ticker    string `gorm:"column:ticker;size:10;index:idx_ticker_ts,priority:1" json:"ticker"`
	Amount    int64  `gorm:"column:amount;not null" json:"amount"`
	Price     int64  `gorm:"column:price;not null" json:"price"`
	BuyerID   string `gorm:"column:buyer_id;index" json:"buyer_id"`
	SellerID  string `gorm:"column:seller_id;index" json:"seller_id"`
	Timestamp int64  `gorm:"column:timestamp;index:idx_ticker_ts,priority:2" json:"timestamp"`
	EngineID  string `gorm:"column:engine_id" json:"engine_id"`
}

func (Transaction) TableName() string {
	return "transactions"
}
