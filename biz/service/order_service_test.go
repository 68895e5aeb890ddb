package service

import (
	"context"
	"testing"

	"cex-spot/biz/model"

	"github.com/stretchr/testify/assert"
)

// 校验分支在任何数据库访问之前就返回，不需要外部依赖

func TestSubmitOrderValidation(t *testing.T) {
	svc := NewOrderService(nil, "RUB")
	ctx := context.Background()

	_, _, err := svc.SubmitLimitOrder(ctx, "u1", "BTC", "HOLD", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.SubmitLimitOrder(ctx, "u1", "BTC", model.DirectionBuy, 0, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.SubmitLimitOrder(ctx, "u1", "BTC", model.DirectionBuy, 1, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.SubmitLimitOrder(ctx, "u1", "btc", model.DirectionBuy, 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.SubmitMarketOrder(ctx, "u1", "BTC", model.DirectionSell, -5)
	assert.ErrorIs(t, err, ErrValidation)

	// 计价币种不能自己跟自己交易
	_, _, err = svc.SubmitMarketOrder(ctx, "u1", "RUB", model.DirectionBuy, 1)
	assert.ErrorIs(t, err, ErrValidation)
}
