package handler

import (
	"errors"

	"cex-spot/biz/service"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// 服务层 sentinel 错误到 HTTP 状态码的统一映射
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return consts.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return consts.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return consts.StatusForbidden
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrInsufficientFunds):
		return consts.StatusBadRequest
	default:
		return consts.StatusInternalServerError
	}
}

var orderSvc *service.OrderService

// Init 注入下单服务，路由注册前调用
func Init(svc *service.OrderService) {
	orderSvc = svc
}
