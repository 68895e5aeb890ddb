package handler

import (
	"context"

	"cex-spot/biz/service"
	"cex-spot/middleware"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// GetBalances GET /api/v1/balance
// 返回 ticker -> 数量 的映射，没建过余额行的币种不出现
func GetBalances(ctx context.Context, c *app.RequestContext) {
	u := middleware.CurrentUser(c)
	balances, err := service.GetBalances(ctx, u.UserID)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, balances)
}
