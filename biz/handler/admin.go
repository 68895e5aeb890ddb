package handler

import (
	"context"

	"cex-spot/biz/service"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type instrumentReq struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// AdminCreateInstrument POST /api/v1/admin/instrument
func AdminCreateInstrument(ctx context.Context, c *app.RequestContext) {
	var req instrumentReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusUnprocessableEntity, map[string]interface{}{"error": err.Error()})
		return
	}
	ins, err := service.CreateInstrument(ctx, req.Ticker, req.Name)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, ins)
}

// AdminDeleteInstrument DELETE /api/v1/admin/instrument/:ticker
func AdminDeleteInstrument(ctx context.Context, c *app.RequestContext) {
	if err := service.DeleteInstrument(ctx, c.Param("ticker")); err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"success": true})
}

type balanceOpReq struct {
	UserID string `json:"user_id"`
	Ticker string `json:"ticker"`
	Amount int64  `json:"amount"`
}

// AdminDeposit POST /api/v1/admin/balance/deposit
func AdminDeposit(ctx context.Context, c *app.RequestContext) {
	adminBalanceOp(ctx, c, 1)
}

// AdminWithdraw POST /api/v1/admin/balance/withdraw
// 余额不足时整笔拒绝，不会打成负数
func AdminWithdraw(ctx context.Context, c *app.RequestContext) {
	adminBalanceOp(ctx, c, -1)
}

func adminBalanceOp(ctx context.Context, c *app.RequestContext, sign int64) {
	var req balanceOpReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusUnprocessableEntity, map[string]interface{}{"error": err.Error()})
		return
	}
	if req.Amount < 1 {
		c.JSON(consts.StatusUnprocessableEntity, map[string]interface{}{"error": "amount must be >= 1"})
		return
	}
	if err := service.AdminAdjustBalance(ctx, req.UserID, req.Ticker, sign*req.Amount); err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"success": true})
}
