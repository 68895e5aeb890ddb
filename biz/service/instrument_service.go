package service

import (
	"context"
	"errors"
	"fmt"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/model"
	"cex-spot/util"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"
)

// ListInstruments 全部可交易标的
func ListInstruments(ctx context.Context) ([]model.Instrument, error) {
	return pg.ListInstruments(pg.GormDB.WithContext(ctx))
}

// CreateInstrument 上架新标的，ticker 大写 2-10 位，重复上架报错
func CreateInstrument(ctx context.Context, ticker, name string) (*model.Instrument, error) {
	if !util.ValidTicker(ticker) {
		return nil, fmt.Errorf("%w: bad ticker %q", ErrValidation, ticker)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	db := pg.GormDB.WithContext(ctx)
	if _, err := pg.GetInstrument(db, ticker); err == nil {
		return nil, fmt.Errorf("%w: instrument %s already exists", ErrInvalidState, ticker)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	ins := &model.Instrument{Ticker: ticker, Name: name}
	if err := pg.CreateInstrument(db, ins); err != nil {
		return nil, err
	}
	return ins, nil
}

// DeleteInstrument 下架标的。簿上还有活跃订单时拒绝下架，
// 历史订单、成交和用户持仓不受影响
func DeleteInstrument(ctx context.Context, ticker string) error {
	db := pg.GormDB.WithContext(ctx)
	if _, err := pg.GetInstrument(db, ticker); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: instrument %s", ErrNotFound, ticker)
		}
		return err
	}
	active, err := pg.HasActiveOrders(db, ticker)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("%w: instrument %s has active orders", ErrInvalidState, ticker)
	}
	if err := pg.DeleteInstrument(db, ticker); err != nil {
		return err
	}
	// 清掉该标的的深度缓存残留
	if _, err := RefreshDepth(ctx, ticker); err != nil {
		hlog.Warnf("下架后刷新深度失败, ticker=%s, err=%v", ticker, err)
	}
	return nil
}
