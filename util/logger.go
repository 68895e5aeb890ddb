package util

import (
	"os"

	"cex-spot/conf"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger 初始化日志：zap 走滚动文件+stdout，hlog 共用同一个文件
func InitLogger() *zap.Logger {
	cfg := conf.GetConf().Hertz
	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFileName,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(rotator), zapcore.AddSync(os.Stdout)),
		zap.InfoLevel,
	)
	logger := zap.New(core)
	zap.ReplaceGlobals(logger)

	hlog.SetLevel(conf.LogLevel())
	hlog.SetOutput(rotator)
	return logger
}
