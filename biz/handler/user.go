package handler

import (
	"context"

	"cex-spot/biz/service"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type registerReq struct {
	Name string `json:"name"`
}

// Register POST /api/v1/public/register
// 注册即发 api key，响应里只出现这一次，客户端自行保存
func Register(ctx context.Context, c *app.RequestContext) {
	var req registerReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusUnprocessableEntity, map[string]interface{}{"error": err.Error()})
		return
	}
	u, err := service.RegisterUser(ctx, req.Name)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, u)
}

// AdminDeleteUser DELETE /api/v1/admin/user/:user_id
// 停用账号并返回停用前的用户信息
func AdminDeleteUser(ctx context.Context, c *app.RequestContext) {
	userID := c.Param("user_id")
	u, err := service.DeactivateUser(ctx, userID)
	if err != nil {
		c.JSON(statusFromErr(err), map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, u)
}
