package main

import (
	"context"

	"cex-spot/biz/dal"
	kafkaDal "cex-spot/biz/dal/kafka"
	"cex-spot/biz/engine"
	"cex-spot/biz/handler"
	"cex-spot/biz/service"
	"cex-spot/conf"
	"cex-spot/server"
	"cex-spot/util"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := conf.GetConf()

	logger := util.InitLogger()
	defer func() { _ = logger.Sync() }()

	dal.Init()
	if err := engine.InitBroadcastPool(1024); err != nil {
		zap.L().Fatal("broadcast pool init failed", zap.Error(err))
	}
	service.InitTransactionPublisher(cfg.Kafka.Topics["transactions"])

	ctx := context.Background()
	if err := service.EnsureSeedData(ctx); err != nil {
		zap.L().Fatal("seed data init failed", zap.Error(err))
	}

	matcher := service.NewMatchEngine(cfg.Engine.QuoteTicker, cfg.Engine.NodeID, server.Broadcast, server.Unicast)
	handler.Init(service.NewOrderService(matcher, cfg.Engine.QuoteTicker))

	// Consul 注册是可选的，单机部署不配 registry 即可
	if len(cfg.Registry.RegistryAddress) > 0 {
		helper, err := service.NewConsulHelperWithAddrs(cfg.Registry.RegistryAddress)
		if err != nil {
			zap.L().Fatal("consul connect failed", zap.Error(err))
		}
		if err := helper.RegisterEngine(ctx, cfg.Engine.NodeID, cfg.Engine.EnginePort); err != nil {
			zap.L().Fatal("consul register failed", zap.Error(err))
		}
		hlog.Infof("引擎节点已注册到Consul, node_id=%s, port=%d", cfg.Engine.NodeID, cfg.Engine.EnginePort)
		defer func() { _ = helper.DeregisterEngine(cfg.Engine.NodeID) }()
	}

	h := server.NewHTTPServer()
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		service.ShutdownTransactionPublisher()
		kafkaDal.CloseAllWriters()
	})
	hlog.Infof("服务启动, env=%s, address=%s", cfg.Env, cfg.Hertz.Address)
	h.Spin()
}
