package pg

import (
	"cex-spot/biz/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateInstrument 新增标的，ticker 冲突报错交给上层
func CreateInstrument(db *gorm.DB, ins *model.Instrument) error {
	return db.Create(ins).Error
}

// EnsureInstrument 幂等建行，bootstrap 用
func EnsureInstrument(db *gorm.DB, ins *model.Instrument) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoNothing: true,
	}).Create(ins).Error
}

// GetInstrument 按 ticker 查询
func GetInstrument(db *gorm.DB, ticker string) (*model.Instrument, error) {
	var ins model.Instrument
	err := db.Where("ticker = ?", ticker).First(&ins).Error
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

// ListInstruments 全部标的
func ListInstruments(db *gorm.DB) ([]model.Instrument, error) {
	var list []model.Instrument
	err := db.Order("ticker asc").Find(&list).Error
	return list, err
}

// DeleteInstrument 删除标的
func DeleteInstrument(db *gorm.DB, ticker string) error {
	return db.Where("ticker = ?", ticker).Delete(&model.Instrument{}).Error
}
