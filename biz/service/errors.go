package service

import "errors"

// 业务错误分类，handler 层用 errors.Is 映射到 HTTP 状态码
var (
	// ErrInsufficientFunds 余额/持仓不足，订单被整体拒绝或对手单被撤销
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidState 当前状态不允许该操作（如撤销已成交订单）
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound 订单/标的/用户不存在
	ErrNotFound = errors.New("not found")
	// ErrValidation 入参非法：数量或价格非正、ticker 格式错误等
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized 访问了不属于自己的资源或缺少管理员角色
	ErrUnauthorized = errors.New("unauthorized")
)
