package server

import (
	"cex-spot/biz/handler"
	"cex-spot/conf"
	"cex-spot/middleware"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/cors"
	"github.com/hertz-contrib/gzip"
	"github.com/hertz-contrib/logger/accesslog"
	"github.com/hertz-contrib/pprof"
)

// NewHTTPServer 组装 hertz 实例：通用中间件 + 全部路由
// 调用方负责在路由注册前完成 handler.Init
func NewHTTPServer() *server.Hertz {
	cfg := conf.GetConf().Hertz
	h := server.New(server.WithHostPorts(cfg.Address))
	h.NoHijackConnPool = true

	h.Use(cors.Default())
	if cfg.EnableAccessLog {
		h.Use(accesslog.New())
	}
	if cfg.EnableGzip {
		h.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	if cfg.EnablePprof {
		pprof.Register(h)
	}

	registerRoutes(h)
	return h
}

func registerRoutes(h *server.Hertz) {
	h.GET("/ws", WSHandler)

	v1 := h.Group("/api/v1")

	pub := v1.Group("/public")
	pub.POST("/register", handler.Register)
	pub.GET("/instrument", handler.ListInstruments)
	pub.GET("/orderbook/:ticker", handler.GetOrderbook)
	pub.GET("/transactions/:ticker", handler.GetTransactions)

	authed := v1.Group("/", middleware.APITokenAuth())
	authed.GET("/balance", handler.GetBalances)
	authed.POST("/order", handler.SubmitOrder)
	authed.GET("/order", handler.ListOrders)
	authed.GET("/order/:order_id", handler.GetOrder)
	authed.DELETE("/order/:order_id", handler.CancelOrder)

	admin := v1.Group("/admin", middleware.APITokenAuth(), middleware.AdminOnly())
	admin.DELETE("/user/:user_id", handler.AdminDeleteUser)
	admin.POST("/instrument", handler.AdminCreateInstrument)
	admin.DELETE("/instrument/:ticker", handler.AdminDeleteInstrument)
	admin.POST("/balance/deposit", handler.AdminDeposit)
	admin.POST("/balance/withdraw", handler.AdminWithdraw)
}
