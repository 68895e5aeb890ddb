package model

// Instrument 可交易标的，ticker 即主键
type Instrument struct {
	Ticker string `gorm:"primaryKey;column:ticker;size:10" json:"ticker"`
	Name   string `gorm:"column:name;not null" json:"name"`
}

func (Instrument) TableName() string {
	return "instruments"
}
