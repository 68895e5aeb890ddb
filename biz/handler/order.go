package handler

import (
	"context"

	"cex-spot/middleware"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type submitOrderReq struct {
	Ticker    string `json:"ticker"`
	Direction string `json:"direction"`
	Qty       int64  `json:"qty"`
	Price     *int64 `json:"price"` // 省略或为 null 即市价单
}

// SubmitOrder POST /api/v1/order
// 同步撮合：响应返回时订单已是最终落库状态，附带本次全部成交
func SubmitOrder(ctx context.Context, c *app.RequestContext) {
	u := middleware.CurrentUser(c)
	var req submitOrderReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusUnprocessableEntity, map[string]interface{}{"error": err.Error()})
		return
	}
	var (
		order interface{}
		txs   interface{}
		err   error
	)
	if req.Price != nil {
		order, txs, err = orderSvc.SubmitLimitOrder(ctx, u.UserID, req.Ticker, req.Direction, req.Qty, *req.Price)
	} else {
		order, txs, err = orderSvc.SubmitMarketOrder(ctx, u.UserID, req.Ticker, req.Direction, req.Qty)
	}
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"order": order, "transactions": txs})
}

// ListOrders GET /api/v1/order
func ListOrders(ctx context.Context, c *app.RequestContext) {
	u := middleware.CurrentUser(c)
	orders, err := orderSvc.ListOrders(ctx, u.UserID)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, orders)
}

// GetOrder GET /api/v1/order/:order_id
func GetOrder(ctx context.Context, c *app.RequestContext) {
	u := middleware.CurrentUser(c)
	order, err := orderSvc.GetOrder(ctx, u.UserID, c.Param("order_id"))
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, order)
}

// CancelOrder DELETE /api/v1/order/:order_id
func CancelOrder(ctx context.Context, c *app.RequestContext) {
	u := middleware.CurrentUser(c)
	order, err := orderSvc.CancelOrder(ctx, u.UserID, c.Param("order_id"))
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, order)
}
