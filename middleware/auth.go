package middleware

import (
	"context"
	"fmt"
	"strings"

	"cex-spot/biz/model"
	"cex-spot/biz/service"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// 鉴权中间件。请求头格式：Authorization: TOKEN <api_key>
// 通过后把用户对象放进请求上下文，handler 用 CurrentUser 取

const userCtxKey = "auth_user"

// ParseAuthToken 从 Authorization 头里取出 api key
func ParseAuthToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "TOKEN") {
		return "", fmt.Errorf("authorization header must be of the form: TOKEN <api_key>")
	}
	return parts[1], nil
}

// APITokenAuth 校验 api key，失败直接 401
func APITokenAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		apiKey, err := ParseAuthToken(string(c.GetHeader("Authorization")))
		if err != nil {
			c.JSON(consts.StatusUnauthorized, map[string]interface{}{"error": err.Error()})
			c.Abort()
			return
		}
		u, err := service.AuthenticateAPIKey(ctx, apiKey)
		if err != nil {
			c.JSON(consts.StatusUnauthorized, map[string]interface{}{"error": "invalid api key"})
			c.Abort()
			return
		}
		c.Set(userCtxKey, u)
		c.Next(ctx)
	}
}

// AdminOnly 必须在 APITokenAuth 之后挂载
func AdminOnly() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin() {
			c.JSON(consts.StatusForbidden, map[string]interface{}{"error": "admin only"})
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}

// CurrentUser 取出鉴权中间件放入的用户，未鉴权路由返回 nil
func CurrentUser(c *app.RequestContext) *model.User {
	val, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := val.(*model.User)
	return u
}
